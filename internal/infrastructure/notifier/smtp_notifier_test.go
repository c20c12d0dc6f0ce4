package notifier

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lucreapp/backend/internal/domain/integration"
)

func testConfig() Config {
	return Config{
		Host: "smtp.example.com",
		Port: 587,
		From: "alerts@lucre.app",
		To:   []string{"ops@lucre.app"},
	}
}

func TestSMTPNotifier_Notify(t *testing.T) {
	n := NewSMTPNotifier(testConfig(), zap.NewNop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	entry := integration.NewErrorLogEntry(uuid.New(), integration.PlatformCodeShopee, "order_sync", "error_auth: invalid access token")
	n.Notify(context.Background(), entry)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "alerts@lucre.app", gotFrom)
	assert.Equal(t, []string{"ops@lucre.app"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: [lucre] Shopee order_sync failed")
	assert.Contains(t, string(gotMsg), "error_auth: invalid access token")
	assert.Contains(t, string(gotMsg), entry.OrganizationID.String())
}

func TestSMTPNotifier_Notify_DisabledConfig(t *testing.T) {
	n := NewSMTPNotifier(Config{}, zap.NewNop())

	called := false
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	n.Notify(context.Background(), integration.NewErrorLogEntry(uuid.New(), integration.PlatformCodeMercadoLivre, "token_refresh", "boom"))

	assert.False(t, called)
}

func TestSMTPNotifier_Notify_DeliveryFailureIsSwallowed(t *testing.T) {
	n := NewSMTPNotifier(testConfig(), zap.NewNop())
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	// must not panic or propagate
	n.Notify(context.Background(), integration.NewErrorLogEntry(uuid.New(), integration.PlatformCodeMercadoLivre, "token_refresh", "invalid_grant"))
}
