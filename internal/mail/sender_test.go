package mail

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/config"
)

func TestSendFailsWithoutCredentials(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.SMTPConfig
	}{
		{"no sender", config.SMTPConfig{Host: "localhost", Port: 2525, Password: "secret"}},
		{"no password", config.SMTPConfig{Host: "localhost", Port: 2525, Sender: "bot@example.com"}},
		{"neither", config.SMTPConfig{Host: "localhost", Port: 2525}},
	}

	msg := Message{To: "alice@example.com", Subject: "hi", Body: "hello"}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender := NewSMTPSender(zerolog.Nop(), tc.cfg)
			if sender.Send(msg) {
				t.Fatal("expected send to fail without credentials")
			}
		})
	}
}
