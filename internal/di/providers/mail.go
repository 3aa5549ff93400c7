package providers

import (
	"github.com/samber/do/v2"

	"github.com/campuslib/campuslib-server/internal/config"
	"github.com/campuslib/campuslib-server/internal/logger"
	"github.com/campuslib/campuslib-server/internal/mail"
)

// ProvideMailTransport provides the notice delivery transport. With mail
// disabled the log transport stands in, so circulation behaves identically
// in development.
func ProvideMailTransport(i do.Injector) (mail.Transport, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Mail.Enabled {
		log.Info("Mail delivery disabled, notices go to the log")
		return mail.NewLogTransport(log.Logger), nil
	}

	transport, err := mail.NewSMTPTransport(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}, smtpPerSecond, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Mail transport ready", "host", cfg.Mail.Host, "from", cfg.Mail.From)
	return transport, nil
}
