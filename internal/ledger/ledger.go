// Package ledger owns every write to expenses and settlements and keeps the
// derived balance cache in step with them.
//
// Each mutating operation commits its write first and then rebuilds the
// balances of the affected scopes through the Engine. When that rebuild
// fails the write stays committed: the operation returns the stored entity
// together with a *RecomputeError, and the previous balances remain visible
// until the next successful rebuild.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerly/internal/calculator"
	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
)

// Ledger is the entry point for ledger reads and writes.
type Ledger struct {
	store  storage.Store
	engine *Engine
	now    func() time.Time
}

// New creates a Ledger over store with a fresh Engine.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store, engine: NewEngine(store), now: time.Now}
}

// Engine returns the recompute engine. The scheduler shares it so that all
// rebuilds go through one guard.
func (l *Ledger) Engine() *Engine {
	return l.engine
}

// RecalculateAll rebuilds every balance from scratch.
func (l *Ledger) RecalculateAll(ctx context.Context) error {
	return l.engine.RecalculateAll(ctx)
}

// GetBalances returns the stored balances of a group, or of the personal
// context when groupID is nil. It never recomputes.
func (l *Ledger) GetBalances(ctx context.Context, groupID *string) ([]models.Balance, error) {
	scope, err := l.scopeFor(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return l.store.ListBalances(ctx, scope)
}

// GetSettlementSuggestions derives transfers that clear the stored balances
// of a group (or the personal context). Suggestions are not persisted.
func (l *Ledger) GetSettlementSuggestions(ctx context.Context, groupID *string) ([]calculator.Transfer, error) {
	balances, err := l.GetBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members := make([]calculator.MemberBalance, len(balances))
	for i, b := range balances {
		members[i] = calculator.MemberBalance{UserID: b.UserID, GroupID: b.GroupID, Amount: b.Amount}
	}
	return calculator.SuggestSettlements(members), nil
}

// scopeFor maps an optional group ID to a scope, checking the group exists.
func (l *Ledger) scopeFor(ctx context.Context, groupID *string) (storage.Scope, error) {
	if groupID == nil || *groupID == "" {
		return storage.Personal(), nil
	}
	if _, err := l.store.GetGroup(ctx, *groupID); err != nil {
		return storage.Scope{}, err
	}
	return storage.GroupScope(*groupID), nil
}

func (l *Ledger) recompute(ctx context.Context, scopes ...storage.Scope) error {
	return l.engine.Recalculate(ctx, scopes...)
}

func (l *Ledger) today() time.Time {
	return models.DateOf(l.now())
}

// checkRefs verifies that every referenced user, category and group exists
// and that users belong to the group when one is given.
func (l *Ledger) checkRefs(ctx context.Context, payerID string, participants []string, categoryID, groupID string) error {
	if payerID == "" {
		return invalid("payer_id", "required")
	}

	ids := append([]string{payerID}, participants...)
	users, err := l.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if users[payerID] == nil {
		return invalid("payer_id", "unknown user %s", payerID)
	}
	for _, id := range participants {
		if users[id] == nil {
			return invalid("participants", "unknown user %s", id)
		}
	}

	if categoryID != "" {
		if _, err := l.store.GetCategory(ctx, categoryID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return invalid("category_id", "unknown category %s", categoryID)
			}
			return err
		}
	}

	if groupID != "" {
		group, err := l.store.GetGroup(ctx, groupID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return invalid("group_id", "unknown group %s", groupID)
			}
			return err
		}
		for _, id := range ids {
			if !group.HasMember(id) {
				return invalid("group_id", "user %s is not a member of group %s", id, groupID)
			}
		}
	}
	return nil
}

func validateAmount(field string, amount decimal.Decimal) error {
	if err := calculator.ValidateAmount(amount); err != nil {
		return invalid(field, "%v", err)
	}
	return nil
}

func splitError(err error) error {
	switch {
	case errors.Is(err, calculator.ErrNoParticipants), errors.Is(err, calculator.ErrDuplicateParticipant):
		return invalid("participants", "%v", err)
	case errors.Is(err, calculator.ErrNonPositiveAmount), errors.Is(err, calculator.ErrTooPrecise):
		return invalid("amount", "%v", err)
	}
	return fmt.Errorf("splitting expense: %w", err)
}
