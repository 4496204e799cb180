// Package apis maps the workforce operations to HTTP routes. Every route
// lives under /tenants/{tenantCode}.
package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tansive/tansive-workforce/internal/common/httpx"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffmanager"
)

type API struct {
	m *staffmanager.Manager
}

func New(m *staffmanager.Manager) *API {
	return &API{m: m}
}

func (a *API) tenantHandlers() []httpx.ResponseHandlerParam {
	return []httpx.ResponseHandlerParam{
		{Method: http.MethodGet, Path: "/employees", Handler: a.listEmployees},
		{Method: http.MethodPost, Path: "/employees", Handler: a.createEmployee},
		{Method: http.MethodGet, Path: "/employees/filter/name", Handler: a.filterEmployeesByName},
		{Method: http.MethodGet, Path: "/employees/filter/location", Handler: a.filterEmployeesByLocation},
		{Method: http.MethodGet, Path: "/employees/check-email", Handler: a.checkEmployeeEmail},
		{Method: http.MethodGet, Path: "/employees/{id}", Handler: a.getEmployee},
		{Method: http.MethodPut, Path: "/employees/{id}", Handler: a.updateEmployee},
		{Method: http.MethodDelete, Path: "/employees/{id}", Handler: a.deleteEmployee},
		{Method: http.MethodPut, Path: "/employees/{id}/reporting", Handler: a.updateReporting},
		{Method: http.MethodPut, Path: "/employees/{id}/competency-head", Handler: a.updateCompetencyHead},
		{Method: http.MethodGet, Path: "/designations", Handler: a.listDesignations},

		{Method: http.MethodGet, Path: "/competencies", Handler: a.listCompetencies},
		{Method: http.MethodPost, Path: "/competencies", Handler: a.createCompetency},
		{Method: http.MethodGet, Path: "/competencies/check-name", Handler: a.checkCompetencyName},
		{Method: http.MethodGet, Path: "/competencies/{id}", Handler: a.getCompetency},
		{Method: http.MethodPut, Path: "/competencies/{id}", Handler: a.updateCompetency},
		{Method: http.MethodDelete, Path: "/competencies/{id}", Handler: a.deleteCompetency},

		{Method: http.MethodGet, Path: "/access-labels/{employeeId}", Handler: a.getAccessLabel},
		{Method: http.MethodPut, Path: "/access-labels/{employeeId}", Handler: a.updateAccessLabel},

		{Method: http.MethodGet, Path: "/projects", Handler: a.listProjects},
		{Method: http.MethodPost, Path: "/projects", Handler: a.createProject},
		{Method: http.MethodGet, Path: "/projects/{id}", Handler: a.getProject},
		{Method: http.MethodPut, Path: "/projects/{id}", Handler: a.updateProject},
		{Method: http.MethodDelete, Path: "/projects/{id}", Handler: a.deleteProject},
	}
}

// TenantRouter mounts the tenant scoped routes on r.
func (a *API) TenantRouter(r chi.Router) {
	r.Use(requireTenantCode)
	for _, handler := range a.tenantHandlers() {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
}

// PasswordRouter mounts the password reset route. Callers are expected to
// install the bearer token validator on r.
func (a *API) PasswordRouter(r chi.Router) {
	r.Method(http.MethodPost, "/", httpx.WrapHttpRsp(a.resetPassword))
}

func requireTenantCode(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "tenantCode") == "" {
			httpx.ErrInvalidTenantCode().Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
