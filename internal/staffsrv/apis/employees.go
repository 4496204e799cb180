package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tansive/tansive-workforce/internal/common/httpx"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffmanager"
)

func (a *API) createEmployee(r *http.Request) (*httpx.Response, error) {
	var in staffmanager.NewEmployee
	if err := httpx.GetRequestData(r, &in); err != nil {
		return nil, err
	}
	res, err := a.m.CreateEmployee(r.Context(), tenantCode(r), &in)
	return reply(res, err, created)
}

func (a *API) listEmployees(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.ListEmployees(r.Context(), tenantCode(r))
	return reply(res, err, ok)
}

func (a *API) getEmployee(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.GetEmployeeByID(r.Context(), tenantCode(r), chi.URLParam(r, "id"))
	return reply(res, err, ok)
}

func (a *API) updateEmployee(r *http.Request) (*httpx.Response, error) {
	var e models.Employee
	if err := httpx.GetRequestData(r, &e); err != nil {
		return nil, err
	}
	res, err := a.m.UpdateEmployee(r.Context(), tenantCode(r), chi.URLParam(r, "id"), &e)
	return reply(res, err, ok)
}

func (a *API) updateReporting(r *http.Request) (*httpx.Response, error) {
	var in staffmanager.ReportingUpdate
	if err := httpx.GetRequestData(r, &in); err != nil {
		return nil, err
	}
	res, err := a.m.UpdateCompetencyAndReporting(r.Context(), tenantCode(r), chi.URLParam(r, "id"), &in)
	return reply(res, err, ok)
}

func (a *API) updateCompetencyHead(r *http.Request) (*httpx.Response, error) {
	var in staffmanager.CompetencyHeadUpdate
	if err := httpx.GetRequestData(r, &in); err != nil {
		return nil, err
	}
	res, err := a.m.UpdateCompetencyHead(r.Context(), tenantCode(r), chi.URLParam(r, "id"), &in)
	return reply(res, err, ok)
}

func (a *API) deleteEmployee(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.DeleteEmployee(r.Context(), tenantCode(r), chi.URLParam(r, "id"))
	return reply(res, err, ok)
}

func (a *API) filterEmployeesByName(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.FilterEmployeesByName(r.Context(), tenantCode(r), r.URL.Query().Get("name"))
	return reply(res, err, ok)
}

func (a *API) filterEmployeesByLocation(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.FilterEmployeesByLocation(r.Context(), tenantCode(r), r.URL.Query().Get("location"))
	return reply(res, err, ok)
}

func (a *API) checkEmployeeEmail(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.CheckEmployeeEmail(r.Context(), tenantCode(r), r.URL.Query().Get("email"))
	return reply(res, err, ok)
}

func (a *API) listDesignations(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.ListDesignations(r.Context(), tenantCode(r))
	return reply(res, err, ok)
}
