package integration

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lucreapp/backend/internal/domain/integration"
	"github.com/lucreapp/backend/internal/infrastructure/telemetry"
)

// Task names recorded in the integration error log
const (
	taskTokenRefresh = "token_refresh"
	taskOrderSync    = "order_sync"
)

// CredentialManager keeps platform access tokens alive. It refreshes lazily
// (EnsureFresh before an API call) and in bulk (RenewAllPlatformTokens from
// the scheduler).
type CredentialManager struct {
	credRepo integration.CredentialRepository
	registry integration.ClientRegistry
	errorLog integration.ErrorLogRepository
	notifier integration.AlertNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewCredentialManager creates a new CredentialManager
func NewCredentialManager(
	credRepo integration.CredentialRepository,
	registry integration.ClientRegistry,
	errorLog integration.ErrorLogRepository,
	notifier integration.AlertNotifier,
	logger *zap.Logger,
) *CredentialManager {
	return &CredentialManager{
		credRepo: credRepo,
		registry: registry,
		errorLog: errorLog,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// EnsureFresh guarantees the platform's access token is valid for at least
// the refresh margin. Platforms the tenant never connected are skipped
// without error. A successful refresh is persisted atomically and mirrored
// onto creds; a failed one is logged, alerted and returned to the caller.
// There is no inline retry: the next sweep or call tries again.
func (m *CredentialManager) EnsureFresh(ctx context.Context, creds *integration.CredentialSet, platform integration.PlatformCode) error {
	tokens := creds.Tokens(platform)
	if !tokens.Configured() {
		return nil
	}
	if !tokens.NeedsRefresh(m.now()) {
		return nil
	}

	client, err := m.registry.Client(platform)
	if err != nil {
		return err
	}

	fresh, err := client.RefreshToken(ctx, creds)
	if err != nil {
		m.recordFailure(ctx, creds, platform, taskTokenRefresh, err)
		return err
	}

	if err := m.credRepo.UpdateTokens(ctx, creds.OrganizationID, platform, fresh); err != nil {
		m.recordFailure(ctx, creds, platform, taskTokenRefresh, err)
		return err
	}
	creds.SetTokens(platform, fresh)

	telemetry.AddEvent(telemetry.SpanFromContext(ctx), "platform_token_refreshed",
		"organization_id", creds.OrganizationID.String(),
		"platform", platform.String(),
	)
	m.logger.Info("Platform token refreshed",
		zap.String("organization_id", creds.OrganizationID.String()),
		zap.String("platform", platform.String()),
		zap.Time("expires_at", fresh.ExpiresAt),
	)
	return nil
}

// RenewAllPlatformTokens sweeps every stored credential set and refreshes
// whatever is close to expiry. Each (tenant, platform) pair is attempted
// independently; one tenant's broken refresh token never blocks the rest.
func (m *CredentialManager) RenewAllPlatformTokens(ctx context.Context) error {
	sets, err := m.credRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	refreshed, failed := 0, 0
	for _, creds := range sets {
		for _, platform := range integration.AllPlatformCodes() {
			if !creds.Configured(platform) {
				continue
			}
			if err := m.EnsureFresh(ctx, creds, platform); err != nil {
				failed++
				continue
			}
			refreshed++
		}
	}

	m.logger.Info("Token renewal sweep finished",
		zap.Int("credential_sets", len(sets)),
		zap.Int("ok", refreshed),
		zap.Int("failed", failed),
	)
	return nil
}

// recordFailure appends to the error log and pushes an alert. Both sinks are
// best effort; a broken log table must not mask the original failure.
func (m *CredentialManager) recordFailure(ctx context.Context, creds *integration.CredentialSet, platform integration.PlatformCode, task string, cause error) {
	entry := integration.NewErrorLogEntry(creds.OrganizationID, platform, task, cause.Error())

	if err := m.errorLog.Append(ctx, entry); err != nil {
		m.logger.Error("Failed to append integration error log",
			zap.String("organization_id", creds.OrganizationID.String()),
			zap.Error(err),
		)
	}
	if m.notifier != nil {
		m.notifier.Notify(ctx, entry)
	}

	m.logger.Warn("Platform task failed",
		zap.String("organization_id", creds.OrganizationID.String()),
		zap.String("platform", platform.String()),
		zap.String("task", task),
		zap.Error(cause),
	)
}
