package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mmynk/ledgerly/internal/calculator"
	"github.com/mmynk/ledgerly/internal/metrics"
	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
	"github.com/mmynk/ledgerly/internal/telemetry"
)

// Engine rebuilds the balance cache from the ledger history.
// Every rebuild runs under the engine's guard.
type Engine struct {
	store storage.BalanceStore
	guard *Guard
	now   func() time.Time
}

// NewEngine creates an engine with its own guard.
func NewEngine(store storage.BalanceStore) *Engine {
	return &Engine{store: store, guard: NewGuard(), now: time.Now}
}

// RecalculateAll rebuilds balances for every group and the personal context.
func (e *Engine) RecalculateAll(ctx context.Context) error {
	return e.Recalculate(ctx, storage.AllScopes())
}

// Recalculate rebuilds the balances of the given scopes. The ledger rows are
// read and the balance rows replaced in one store transaction; on failure the
// previous rows are kept and a *RecomputeError is returned.
func (e *Engine) Recalculate(ctx context.Context, scopes ...storage.Scope) error {
	scopes = storage.Normalize(scopes)
	if len(scopes) == 0 {
		return nil
	}

	ctx, span := telemetry.Tracer().Start(ctx, "ledger.Recalculate")
	defer span.End()
	span.SetAttributes(attribute.StringSlice("ledger.scopes", scopeNames(scopes)))

	if err := e.guard.Acquire(ctx); err != nil {
		return e.fail(span, scopes, fmt.Errorf("waiting for recompute guard: %w", err))
	}
	defer e.guard.Release()

	start := time.Now()
	var rows int
	err := e.store.RebuildBalances(ctx, scopes, func(ex []*models.Expense, sts []*models.Settlement) ([]models.Balance, error) {
		balances, err := e.build(ex, sts)
		rows = len(balances)
		return balances, err
	})
	metrics.RecomputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return e.fail(span, scopes, fmt.Errorf("rebuilding balances: %w", err))
	}

	slog.Debug("Balances recomputed", "scopes", scopeNames(scopes), "rows", rows)
	return nil
}

// build derives balances from one snapshot of ledger rows.
func (e *Engine) build(rows []*models.Expense, sts []*models.Settlement) ([]models.Balance, error) {
	expenses := make([]calculator.ExpenseForBalance, len(rows))
	for i, ex := range rows {
		shares := make([]calculator.Share, len(ex.Shares))
		for j, s := range ex.Shares {
			shares[j] = calculator.Share{UserID: s.UserID, Owed: s.OwedAmount}
		}
		expenses[i] = calculator.ExpenseForBalance{
			ID:      ex.ID,
			GroupID: ex.GroupID,
			PayerID: ex.PayerID,
			Amount:  ex.Amount,
			Shares:  shares,
		}
	}

	settlements := make([]calculator.SettlementForBalance, len(sts))
	for i, st := range sts {
		settlements[i] = calculator.SettlementForBalance{
			ID:         st.ID,
			GroupID:    st.GroupID,
			PayerID:    st.PayerID,
			ReceiverID: st.ReceiverID,
			Amount:     st.Amount,
		}
	}

	computed, err := calculator.ComputeBalances(expenses, settlements)
	if err != nil {
		return nil, err
	}

	now := e.now().Unix()
	balances := make([]models.Balance, len(computed))
	for i, b := range computed {
		balances[i] = models.Balance{UserID: b.UserID, GroupID: b.GroupID, Amount: b.Amount, UpdatedAt: now}
	}
	return balances, nil
}

func (e *Engine) fail(span trace.Span, scopes []storage.Scope, err error) error {
	metrics.RecomputeFailures.Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, "recompute failed")
	slog.Error("Balance recompute failed", "scopes", scopeNames(scopes), "error", err)
	return &RecomputeError{Scopes: scopes, Err: err}
}

func scopeNames(scopes []storage.Scope) []string {
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = s.String()
	}
	return names
}
