package mail

import (
	"errors"
	"strings"
	"testing"
)

func TestNewSender(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"complete", Config{Host: "smtp.gmail.com", Port: 465, User: "me@example.com", Password: "pw"}, false},
		{"default port", Config{Host: "smtp.gmail.com", User: "me@example.com", Password: "pw"}, false},
		{"missing password", Config{Host: "smtp.gmail.com", User: "me@example.com"}, true},
		{"missing host", Config{User: "me@example.com", Password: "pw"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSender(tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrNotConfigured) {
					t.Fatalf("NewSender() error = %v, want ErrNotConfigured", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSender() error = %v", err)
			}
			if s.cfg.Port != 465 {
				t.Errorf("port = %d, want 465", s.cfg.Port)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	msg := string(Compose("me@example.com", "me@example.com", Subject, "Hello,\nthere were 2 days"))

	for _, want := range []string{
		"From: me@example.com\r\n",
		"To: me@example.com\r\n",
		"Subject: Shopping Report\r\n",
		"\r\n\r\nHello,\r\nthere were 2 days",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Compose() missing %q in %q", want, msg)
		}
	}
	if strings.Contains(strings.ReplaceAll(msg, "\r\n", ""), "\n") {
		t.Error("Compose() left a bare LF")
	}
}
