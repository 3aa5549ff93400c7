package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/campuslib/campuslib-server/internal/api"
	"github.com/campuslib/campuslib-server/internal/config"
	"github.com/campuslib/campuslib-server/internal/logger"
	"github.com/campuslib/campuslib-server/internal/ratelimit"
	"github.com/campuslib/campuslib-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideRateLimiter provides the per-IP limiter for the circulation endpoint.
func ProvideRateLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	return ratelimit.New(circulationRPS, circulationBurst), nil
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	limiter := do.MustInvoke[*ratelimit.KeyedRateLimiter](i)

	circulation := do.MustInvoke[*service.CirculationService](i)
	catalog := do.MustInvoke[*service.CatalogService](i)
	membership := do.MustInvoke[*service.MembershipService](i)
	admin := do.MustInvoke[*service.AdminService](i)
	notices := do.MustInvoke[*service.NoticeService](i)

	handler := api.NewServer(storeHandle.Store, circulation, catalog, membership, admin, notices, limiter, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
