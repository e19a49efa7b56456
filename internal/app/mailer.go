package app

import (
	"github.com/adanyl0v/go-task-tracker/internal/config"
	"github.com/adanyl0v/go-task-tracker/internal/mail"
)

var globalMailDispatcher *mail.Dispatcher

func StartMailDispatcher() {
	cfg := config.Global().SMTP
	if cfg.Sender == "" || cfg.Password == "" {
		globalLogger.Warn().
			Msg("mail sender or credential not configured, notifications will be dropped")
	}

	sender := mail.NewSMTPSender(globalLogger, cfg)
	globalMailDispatcher = mail.NewDispatcher(globalLogger, sender, cfg.QueueSize)
	globalMailDispatcher.Start()
}

func StopMailDispatcher() {
	globalMailDispatcher.Stop()
}
