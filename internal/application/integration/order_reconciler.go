package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appfinance "github.com/lucreapp/backend/internal/application/finance"
	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
	"github.com/lucreapp/backend/internal/infrastructure/telemetry"
)

// shopeeSyncWindow is the trailing window pulled from Shopee on every sync;
// the platform rejects ranges wider than 15 days.
const shopeeSyncWindow = 15 * 24 * time.Hour

// mlSyncStart is the fixed lower bound for Mercado Livre order searches.
// TODO: replace the fixed windows with a per-tenant sync watermark so sweeps
// stop re-listing already ingested orders.
var mlSyncStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// SyncStats summarizes one reconciliation run
type SyncStats struct {
	Listed   int
	Created  int
	Existing int
	Skipped  int
}

// OrderReconciler pulls orders from the connected platforms and lands them
// in the sale ledger exactly once, margin attached.
type OrderReconciler struct {
	credRepo      integration.CredentialRepository
	registry      integration.ClientRegistry
	errorLog      integration.ErrorLogRepository
	notifier      integration.AlertNotifier
	credManager   *CredentialManager
	txRepo        finance.TransactionRepository
	logisticsRepo finance.LogisticsRuleRepository
	margins       appfinance.MarginCalculator
	logger        *zap.Logger
	now           func() time.Time
}

// NewOrderReconciler creates a new OrderReconciler
func NewOrderReconciler(
	credRepo integration.CredentialRepository,
	registry integration.ClientRegistry,
	errorLog integration.ErrorLogRepository,
	notifier integration.AlertNotifier,
	credManager *CredentialManager,
	txRepo finance.TransactionRepository,
	logisticsRepo finance.LogisticsRuleRepository,
	margins appfinance.MarginCalculator,
	logger *zap.Logger,
) *OrderReconciler {
	return &OrderReconciler{
		credRepo:      credRepo,
		registry:      registry,
		errorLog:      errorLog,
		notifier:      notifier,
		credManager:   credManager,
		txRepo:        txRepo,
		logisticsRepo: logisticsRepo,
		margins:       margins,
		logger:        logger,
		now:           time.Now,
	}
}

// SyncOrders reconciles every connected platform of one tenant. A failing
// platform is logged and alerted, then the next platform still runs; the
// returned stats cover whatever succeeded.
func (r *OrderReconciler) SyncOrders(ctx context.Context, organizationID uuid.UUID) (SyncStats, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciler", "sync_orders",
		telemetry.WithAttribute("organization_id", organizationID.String()))
	defer span.End()

	creds, err := r.credRepo.FindByOrganization(ctx, organizationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return SyncStats{}, err
	}

	var total SyncStats
	for _, platform := range integration.AllPlatformCodes() {
		if !creds.Configured(platform) {
			continue
		}
		stats, err := r.syncPair(ctx, creds, platform)
		if err != nil {
			r.recordFailure(ctx, creds.OrganizationID, platform, err)
			continue
		}
		total.Listed += stats.Listed
		total.Created += stats.Created
		total.Existing += stats.Existing
		total.Skipped += stats.Skipped
	}

	telemetry.SetAttributes(span,
		"orders_listed", total.Listed,
		"orders_created", total.Created,
		"orders_existing", total.Existing,
		"orders_skipped", total.Skipped,
	)
	return total, nil
}

// FetchAllNewOrders reconciles every tenant that has credentials, one at a
// time. Pair-level failures are recorded and the sweep continues.
func (r *OrderReconciler) FetchAllNewOrders(ctx context.Context) error {
	sets, err := r.credRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	for _, creds := range sets {
		stats, err := r.SyncOrders(ctx, creds.OrganizationID)
		if err != nil {
			r.logger.Warn("Order sync failed for tenant",
				zap.String("organization_id", creds.OrganizationID.String()),
				zap.Error(err),
			)
			continue
		}
		r.logger.Info("Order sync finished for tenant",
			zap.String("organization_id", creds.OrganizationID.String()),
			zap.Int("listed", stats.Listed),
			zap.Int("created", stats.Created),
			zap.Int("existing", stats.Existing),
			zap.Int("skipped", stats.Skipped),
		)
	}
	return nil
}

// syncPair runs the full pipeline for one (tenant, platform) pair:
// refresh token, list window, fetch details, ingest each order.
func (r *OrderReconciler) syncPair(ctx context.Context, creds *integration.CredentialSet, platform integration.PlatformCode) (SyncStats, error) {
	if err := r.credManager.EnsureFresh(ctx, creds, platform); err != nil {
		return SyncStats{}, fmt.Errorf("refreshing token: %w", err)
	}

	client, err := r.registry.Client(platform)
	if err != nil {
		return SyncStats{}, err
	}

	from, to := r.syncWindow(platform)
	refs, err := client.ListOrders(ctx, creds, from, to)
	if err != nil {
		return SyncStats{}, fmt.Errorf("listing orders: %w", err)
	}

	stats := SyncStats{Listed: len(refs)}
	if len(refs) == 0 {
		return stats, nil
	}

	orders, err := client.GetOrderDetails(ctx, creds, refs)
	if err != nil {
		return stats, fmt.Errorf("fetching order details: %w", err)
	}

	for _, order := range orders {
		result, err := r.ingestOrder(ctx, creds.OrganizationID, order)
		if err != nil {
			// one bad order never aborts the batch
			stats.Skipped++
			r.logger.Warn("Skipping order",
				zap.String("organization_id", creds.OrganizationID.String()),
				zap.String("platform", platform.String()),
				zap.String("external_id", order.ExternalID),
				zap.Error(err),
			)
			continue
		}
		if result == finance.UpsertCreated {
			stats.Created++
		} else {
			stats.Existing++
		}
	}
	return stats, nil
}

// syncWindow returns the listing window for a platform
func (r *OrderReconciler) syncWindow(platform integration.PlatformCode) (time.Time, time.Time) {
	to := r.now()
	if platform == integration.PlatformCodeShopee {
		return to.Add(-shopeeSyncWindow), to
	}
	return mlSyncStart, to
}

// ingestOrder maps one platform order to a sale transaction, upserts it and
// computes the margin for newly created records
func (r *OrderReconciler) ingestOrder(ctx context.Context, organizationID uuid.UUID, order integration.MarketplaceOrder) (finance.UpsertResult, error) {
	tx, err := finance.NewSaleTransaction(organizationID, order.Platform, order.ExternalID, order.GrossAmount, order.SaleDate)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", integration.ErrOrderMapping, err)
	}
	tx.ShippingMethod = order.ShippingMethod
	tx.PlatformShippingCost = order.ShippingCost

	rule, err := r.logisticsRepo.FindByMethod(ctx, organizationID, order.Platform, order.ShippingMethod)
	switch {
	case err == nil:
		// a configured fixed cost marks the rule as the shipping authority
		tx.FixedCostOnly = rule.FixedCost.IsPositive()
	case errors.Is(err, finance.ErrLogisticsRuleNotFound):
		// no rule configured, the platform-reported freight governs
	default:
		// the upsert is a no-op on re-ingestion, so writing the record with
		// a guessed flag would freeze a wrong value; retry on the next sweep
		return 0, fmt.Errorf("resolving logistics rule: %w", err)
	}

	result, err := r.txRepo.Upsert(ctx, tx)
	if err != nil {
		return 0, err
	}

	if result == finance.UpsertCreated {
		if _, err := r.margins.ComputeAndStore(ctx, tx); err != nil {
			// the transaction is persisted; the margin backfill picks it up
			r.logger.Warn("Margin computation failed after ingest",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(err),
			)
		}
	}
	return result, nil
}

// recordFailure appends to the error log and alerts, mirroring the
// credential manager's sink semantics
func (r *OrderReconciler) recordFailure(ctx context.Context, organizationID uuid.UUID, platform integration.PlatformCode, cause error) {
	entry := integration.NewErrorLogEntry(organizationID, platform, taskOrderSync, cause.Error())

	if err := r.errorLog.Append(ctx, entry); err != nil {
		r.logger.Error("Failed to append integration error log",
			zap.String("organization_id", organizationID.String()),
			zap.Error(err),
		)
	}
	if r.notifier != nil {
		r.notifier.Notify(ctx, entry)
	}

	r.logger.Warn("Platform order sync failed",
		zap.String("organization_id", organizationID.String()),
		zap.String("platform", platform.String()),
		zap.Error(cause),
	)
}
