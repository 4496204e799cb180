package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tansive/tansive-workforce/internal/common/httpx"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffmanager"
)

func (a *API) createProject(r *http.Request) (*httpx.Response, error) {
	var in staffmanager.ProjectInput
	if err := httpx.GetRequestData(r, &in); err != nil {
		return nil, err
	}
	res, err := a.m.CreateProject(r.Context(), tenantCode(r), &in)
	return reply(res, err, created)
}

func (a *API) listProjects(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.GetAllProjects(r.Context(), tenantCode(r))
	return reply(res, err, ok)
}

func (a *API) getProject(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.GetProjectByID(r.Context(), tenantCode(r), chi.URLParam(r, "id"))
	return reply(res, err, ok)
}

func (a *API) updateProject(r *http.Request) (*httpx.Response, error) {
	var in staffmanager.ProjectInput
	if err := httpx.GetRequestData(r, &in); err != nil {
		return nil, err
	}
	res, err := a.m.UpdateProject(r.Context(), tenantCode(r), chi.URLParam(r, "id"), &in)
	return reply(res, err, ok)
}

func (a *API) deleteProject(r *http.Request) (*httpx.Response, error) {
	res, err := a.m.DeleteProject(r.Context(), tenantCode(r), chi.URLParam(r, "id"))
	return reply(res, err, ok)
}
