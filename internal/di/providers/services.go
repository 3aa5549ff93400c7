package providers

import (
	"github.com/samber/do/v2"

	"github.com/campuslib/campuslib-server/internal/config"
	"github.com/campuslib/campuslib-server/internal/logger"
	"github.com/campuslib/campuslib-server/internal/mail"
	"github.com/campuslib/campuslib-server/internal/service"
)

// circulationPolicy projects the configured limits into the service layer.
func circulationPolicy(cfg *config.Config) service.CirculationPolicy {
	return service.CirculationPolicy{
		DailyBorrowLimit:    cfg.Circulation.DailyBorrowLimit,
		MaxActivePerStudent: cfg.Circulation.MaxActivePerStudent,
		LoanDurationHours:   cfg.Circulation.DefaultLoanDurationHours,
	}
}

// ProvideCirculationService provides the borrow/return engine.
func ProvideCirculationService(i do.Injector) (*service.CirculationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	transport := do.MustInvoke[mail.Transport](i)

	return service.NewCirculationService(storeHandle.Store, transport, circulationPolicy(cfg), log.Logger), nil
}

// ProvideCatalogService provides book reads and admin book creation.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return service.NewCatalogService(storeHandle.Store, log.Logger), nil
}

// ProvideMembershipService provides student creation and history.
func ProvideMembershipService(i do.Injector) (*service.MembershipService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return service.NewMembershipService(storeHandle.Store, log.Logger), nil
}

// ProvideAdminService provides the dashboard reads.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return service.NewAdminService(storeHandle.Store, circulationPolicy(cfg), log.Logger), nil
}

// ProvideNoticeService provides the reminder and overdue sweeps.
func ProvideNoticeService(i do.Injector) (*service.NoticeService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	transport := do.MustInvoke[mail.Transport](i)

	return service.NewNoticeService(storeHandle.Store, transport, log.Logger), nil
}
