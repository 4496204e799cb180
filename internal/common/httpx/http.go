package httpx

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/tansive/tansive-workforce/internal/common/apperrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetRequestData decodes a JSON request body into data.
func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil || r.ContentLength == 0 {
		log.Ctx(r.Context()).Error().Msg("Empty request body")
		return ErrUnableToParseReqData()
	}
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("unable to decode request body")
		var appErr apperrors.Error
		if errors.As(err, &appErr) {
			return ErrInvalidRequest(appErr.ErrorAll())
		}
		return ErrUnableToParseReqData()
	}
	return nil
}

type Response struct {
	StatusCode  int
	Location    string //in case of http.StatusCreated
	Response    any
	ContentType string
}

type RequestHandler func(r *http.Request) (*Response, error)

func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			var httperror *Error
			var appErr apperrors.Error
			switch {
			case errors.As(err, &httperror):
				httperror.Send(w)
			case errors.As(err, &appErr):
				SendError(w, appErr)
			default:
				ErrApplicationError(err.Error()).Send(w)
			}
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		if rsp.ContentType == "" {
			rsp.ContentType = "application/json"
		}
		if rsp.StatusCode == 0 {
			rsp.StatusCode = http.StatusOK
		}
		var location []string
		if rsp.Location != "" {
			location = append(location, rsp.Location)
		}
		if rsp.ContentType == "application/json" {
			SendJsonRsp(r.Context(), w, rsp.StatusCode, rsp.Response, location...)
		} else {
			ErrApplicationError("unsupported response type").Send(w)
		}
	})
}

// SendJsonRsp writes rsp as the JSON body with the given status code.
func SendJsonRsp(ctx context.Context, w http.ResponseWriter, statusCode int, rsp any, location ...string) {
	body, err := json.Marshal(rsp)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to marshal response")
		ErrApplicationError("unable to marshal response").Send(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if len(location) > 0 {
		w.Header().Set("Location", location[0])
	}
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to write response")
	}
}

type ResponseHandlerParam struct {
	Method  string
	Path    string
	Handler RequestHandler
}
