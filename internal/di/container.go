// Package di provides dependency injection configuration for the campus
// library server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/campuslib/campuslib-server/internal/config"
	"github.com/campuslib/campuslib-server/internal/di/providers"
	"github.com/campuslib/campuslib-server/internal/logger"
	"github.com/campuslib/campuslib-server/internal/ratelimit"
	"github.com/campuslib/campuslib-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Mail transport
	do.Provide(injector, providers.ProvideMailTransport)

	// Business services
	do.Provide(injector, providers.ProvideCirculationService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideMembershipService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideNoticeService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.CirculationService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.MembershipService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)
	_ = do.MustInvoke[*service.NoticeService](injector)
	_ = do.MustInvoke[*ratelimit.KeyedRateLimiter](injector)

	// Server last: it wires every handler.
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
