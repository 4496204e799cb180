package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tansive/tansive-workforce/internal/common/httpx"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

func (a *API) createCompetency(r *http.Request) (*httpx.Response, error) {
	var c models.Competency
	if err := httpx.GetRequestData(r, &c); err != nil {
		return nil, err
	}
	res, err := a.m.CreateCompetency(r.Context(), tenantCode(r), &c)
	return reply(res, err, created)
}

func (a *API) listCompetencies(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.ListCompetencies(r.Context(), tenantCode(r))
	return reply(res, err, ok)
}

func (a *API) getCompetency(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.GetCompetency(r.Context(), tenantCode(r), chi.URLParam(r, "id"))
	return reply(res, err, ok)
}

func (a *API) checkCompetencyName(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.CheckCompetencyName(r.Context(), tenantCode(r), r.URL.Query().Get("name"))
	return reply(res, err, ok)
}

func (a *API) updateCompetency(r *http.Request) (*httpx.Response, error) {
	var c models.Competency
	if err := httpx.GetRequestData(r, &c); err != nil {
		return nil, err
	}
	res, err := a.m.UpdateCompetency(r.Context(), tenantCode(r), chi.URLParam(r, "id"), &c)
	return reply(res, err, ok)
}

func (a *API) deleteCompetency(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.DeleteCompetency(r.Context(), tenantCode(r), chi.URLParam(r, "id"))
	return reply(res, err, ok)
}

func (a *API) getAccessLabel(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.GetAccessLabel(r.Context(), tenantCode(r), chi.URLParam(r, "employeeId"))
	return reply(res, err, ok)
}

func (a *API) updateAccessLabel(r *http.Request) (*httpx.Response, error) {
	var label models.AccessLabel
	if err := httpx.GetRequestData(r, &label); err != nil {
		return nil, err
	}
	res, err := a.m.UpdateAccessLabel(r.Context(), tenantCode(r), chi.URLParam(r, "employeeId"), &label)
	return reply(res, err, ok)
}
