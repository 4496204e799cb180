package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tansive/tansive-workforce/internal/common/httpx"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffmanager"
)

func tenantCode(r *http.Request) string {
	return chi.URLParam(r, "tenantCode")
}

func ok(res *staffmanager.Result) *httpx.Response {
	return &httpx.Response{StatusCode: http.StatusOK, Response: res}
}

func created(res *staffmanager.Result) *httpx.Response {
	return &httpx.Response{StatusCode: http.StatusCreated, Response: res}
}

// reply turns the outcome of a manager call into a handler response.
func reply(res *staffmanager.Result, err error, wrap func(*staffmanager.Result) *httpx.Response) (*httpx.Response, error) {
	if err != nil {
		return nil, err
	}
	return wrap(res), nil
}
