package apis

import (
	"net/http"

	"github.com/tansive/tansive-workforce/internal/common/httpx"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
)

type resetPasswordReq struct {
	Password string `json:"password"`
}

func (a *API) resetPassword(r *http.Request) (*httpx.Response, error) {
	caller := staffcommon.CallerFromContext(r.Context())
	if caller == nil {
		return nil, httpx.ErrUnAuthorized()
	}
	var req resetPasswordReq
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	res, err := a.m.ResetPassword(r.Context(), caller, req.Password)
	return reply(res, err, ok)
}
