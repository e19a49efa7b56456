package mail

import (
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/adanyl0v/go-task-tracker/internal/config"
)

// Sender attempts a single delivery. It reports true only on a
// confirmed submission and never returns an error to the caller.
type Sender interface {
	Send(msg Message) bool
}

type smtpSender struct {
	logger zerolog.Logger
	cfg    config.SMTPConfig
}

func NewSMTPSender(logger zerolog.Logger, cfg config.SMTPConfig) Sender {
	return &smtpSender{
		logger: logger,
		cfg:    cfg,
	}
}

func (s *smtpSender) Send(msg Message) bool {
	// Without a sender address and credential there is no point
	// dialing; fail before touching the network.
	if s.cfg.Sender == "" || s.cfg.Password == "" {
		s.logger.Warn().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Msg("mail configuration missing, not sending")
		return false
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Sender)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Sender, s.cfg.Password)
	err := dialer.DialAndSend(m)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Msg("failed to send mail")
		return false
	}

	s.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("sent mail")
	return true
}
