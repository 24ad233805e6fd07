package mail

import (
	"context"
	"errors"
	"testing"

	gomail "github.com/wneessen/go-mail"

	"swr/internal/services"
)

func testConfig() Config {
	return Config{
		From:     "reports@example.com",
		To:       []string{"reader@example.com"},
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		SMTPUser: "reports@example.com",
		Password: "secret",
	}
}

func TestSendBuildsMultipartMessage(t *testing.T) {
	svc := NewService(testConfig())

	var captured *gomail.Msg
	svc.WithSendFunc(func(ctx context.Context, msg *gomail.Msg) error {
		captured = msg
		return nil
	})

	err := svc.Send(context.Background(), "股市週報｜2026/02/18 – 2026/02/25", "plain", "<p>html</p>")
	if err != nil {
		t.Fatal(err)
	}
	if captured == nil {
		t.Fatal("message was not handed to the sender")
	}
	subjects := captured.GetGenHeader(gomail.HeaderSubject)
	if len(subjects) != 1 || subjects[0] != "股市週報｜2026/02/18 – 2026/02/25" {
		t.Fatalf("unexpected subject: %v", subjects)
	}
}

func TestSendUnconfigured(t *testing.T) {
	svc := NewService(Config{From: "a@b.c"})
	err := svc.Send(context.Background(), "s", "t", "")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestSendDeliveryFailure(t *testing.T) {
	svc := NewService(testConfig())
	svc.WithSendFunc(func(ctx context.Context, msg *gomail.Msg) error {
		return errors.New("connection refused")
	})
	err := svc.Send(context.Background(), "s", "t", "")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestConfigured(t *testing.T) {
	if NewService(Config{}).Configured() {
		t.Fatal("empty config must not report configured")
	}
	if !NewService(testConfig()).Configured() {
		t.Fatal("complete config must report configured")
	}
}
