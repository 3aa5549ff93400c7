package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// circulationRPS limits how fast one client may hit the circulation
	// endpoint. Generous for a human at a kiosk, tight for a runaway script.
	circulationRPS   = 5
	circulationBurst = 10

	// smtpPerSecond paces outbound notice delivery.
	smtpPerSecond = 1
)
