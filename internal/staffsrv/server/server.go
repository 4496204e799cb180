package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tansive/tansive-workforce/internal/common/httpx"
	"github.com/tansive/tansive-workforce/internal/common/logtrace"
	"github.com/tansive/tansive-workforce/internal/common/middleware"
	"github.com/tansive/tansive-workforce/internal/staffsrv/apis"
	"github.com/tansive/tansive-workforce/internal/staffsrv/auth"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/metrics"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffmanager"
)

const (
	ServerVersion = "Tansive Workforce Server: 0.1.0"
	ApiVersion    = "v1alpha1"
)

type WorkforceServer struct {
	Router *chi.Mux
	api    *apis.API
	tokens *auth.TokenService
}

func CreateNewServer(m *staffmanager.Manager, tokens *auth.TokenService) (*WorkforceServer, error) {
	if m == nil || tokens == nil {
		return nil, errors.New("server requires a manager and a token service")
	}
	s := &WorkforceServer{
		Router: chi.NewRouter(),
		api:    apis.New(m),
		tokens: tokens,
	}
	return s, nil
}

func (s *WorkforceServer) MountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	s.Router.Use(metrics.HTTP.Middleware)
	if config.Config().HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.mountResourceHandlers(s.Router)
	if logtrace.IsTraceEnabled() {
		fmt.Println("Routes in workforce router")
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			fmt.Printf("%s %s\n", method, route)
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			log.Error().Err(err).Msg("Error walking router")
		}
	}
}

func (s *WorkforceServer) mountResourceHandlers(r chi.Router) {
	r.Route("/tenants/{tenantCode}", s.api.TenantRouter)
	r.Route("/reset-password", func(r chi.Router) {
		r.Use(auth.CallerValidator(s.tokens))
		s.api.PasswordRouter(r)
	})
	r.Get("/version", s.getVersion)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
}

type GetVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

func (s *WorkforceServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &GetVersionRsp{
		ServerVersion: ServerVersion,
		ApiVersion:    ApiVersion,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

func (s *WorkforceServer) HandleCORS(next http.Handler) http.Handler {
	origins := config.Config().CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{"Location", middleware.RequestIdHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}
