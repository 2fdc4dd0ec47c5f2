package mailer

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/cjnation/cjnation-backend/pkg/config"
)

func enabledConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "mailer",
		Password: "secret",
		From:     "no-reply@cjnation.com",
	}
}

func TestSendVerificationEmailBuildsMessage(t *testing.T) {
	mail := New(enabledConfig(), nil)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	mail.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	if err := mail.SendVerificationEmail(context.Background(), "user@example.com", "https://cjnation.com/verify?token=abc"); err != nil {
		t.Fatalf("send verification: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("unexpected addr %s", gotAddr)
	}
	if gotFrom != "no-reply@cjnation.com" {
		t.Fatalf("unexpected from %s", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "user@example.com" {
		t.Fatalf("unexpected recipients %v", gotTo)
	}
	body := string(gotMsg)
	if !strings.Contains(body, "Subject: Verify your CJNation account") {
		t.Fatalf("missing subject in message: %s", body)
	}
	if !strings.Contains(body, "https://cjnation.com/verify?token=abc") {
		t.Fatalf("missing link in message: %s", body)
	}
}

func TestSendPasswordResetEmailBuildsMessage(t *testing.T) {
	mail := New(enabledConfig(), nil)

	var gotMsg []byte
	mail.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	if err := mail.SendPasswordResetEmail(context.Background(), "user@example.com", "https://cjnation.com/reset?token=xyz"); err != nil {
		t.Fatalf("send reset: %v", err)
	}
	body := string(gotMsg)
	if !strings.Contains(body, "Subject: Reset your CJNation password") {
		t.Fatalf("missing subject in message: %s", body)
	}
	if !strings.Contains(body, "https://cjnation.com/reset?token=xyz") {
		t.Fatalf("missing link in message: %s", body)
	}
}

func TestDisabledMailerSkipsSend(t *testing.T) {
	mail := New(config.SMTPConfig{}, nil)

	called := false
	mail.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	if err := mail.SendVerificationEmail(context.Background(), "user@example.com", "https://cjnation.com/verify"); err != nil {
		t.Fatalf("disabled mailer should not error: %v", err)
	}
	if called {
		t.Fatal("disabled mailer should not send")
	}
}
