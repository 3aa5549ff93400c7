package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
	"golang.org/x/time/rate"
)

// Transport delivers a rendered message. Implementations must be safe for
// concurrent use.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig carries the settings for the SMTP transport.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPTransport sends messages through an SMTP relay. Sends are paced so a
// notice sweep cannot flood the relay.
type SMTPTransport struct {
	client  *gomail.Client
	from    string
	limiter *rate.Limiter
	log     *slog.Logger
}

// clientOptions assembles the relay options. Campus-internal relays often
// accept unauthenticated submission, so AUTH is only negotiated when
// credentials are configured.
func clientOptions(cfg SMTPConfig) []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	return opts
}

// NewSMTPTransport builds a transport against the given relay. perSecond
// bounds the outbound send rate.
func NewSMTPTransport(cfg SMTPConfig, perSecond float64, log *slog.Logger) (*SMTPTransport, error) {
	client, err := gomail.NewClient(cfg.Host, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	if perSecond <= 0 {
		perSecond = 1
	}
	return &SMTPTransport{
		client:  client,
		from:    cfg.From,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		log:     log,
	}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	m := gomail.NewMsg()
	if err := m.From(t.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	if err := t.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send to %s: %w", msg.To, err)
	}

	t.log.Debug("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// LogTransport stands in when delivery is disabled. Messages are logged and
// reported as sent so circulation behaves the same either way.
type LogTransport struct {
	log *slog.Logger
}

func NewLogTransport(log *slog.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Send(_ context.Context, msg Message) error {
	t.log.Info("email delivery disabled, dropping message",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
