package handler

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/opsdesk/opsdesk/internal/config"
	"github.com/opsdesk/opsdesk/internal/handler/ws"
	middlewarePkg "github.com/opsdesk/opsdesk/internal/middleware"
	"github.com/opsdesk/opsdesk/pkg/utils"
)

// NewRouter wires HTTP routes to the relay.
func NewRouter(wsHandler *ws.Handler, serverCfg config.ServerConfig, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	wsHandler.RegisterRoutes(r)

	mountStatic(r, serverCfg, log)

	return r
}

// mountStatic optionally serves the bundled user and admin clients. Either
// directory may be left unset, in which case that mount is skipped.
func mountStatic(r chi.Router, cfg config.ServerConfig, log *zap.Logger) {
	if cfg.AdminClientDir != "" {
		if _, err := os.Stat(cfg.AdminClientDir); err != nil {
			log.Warn("admin client dir unavailable", zap.String("dir", cfg.AdminClientDir), zap.Error(err))
		} else {
			fs := http.StripPrefix("/admin/", http.FileServer(http.Dir(cfg.AdminClientDir)))
			r.Handle("/admin/*", fs)
			log.Info("serving admin client", zap.String("dir", cfg.AdminClientDir))
		}
	}

	if cfg.UserClientDir != "" {
		if _, err := os.Stat(cfg.UserClientDir); err != nil {
			log.Warn("user client dir unavailable", zap.String("dir", cfg.UserClientDir), zap.Error(err))
		} else {
			r.Handle("/*", http.FileServer(http.Dir(cfg.UserClientDir)))
			log.Info("serving user client", zap.String("dir", cfg.UserClientDir))
		}
	}
}
