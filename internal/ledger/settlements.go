package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/storage"
)

// SettlementInput describes a payment from PayerID to ReceiverID.
type SettlementInput struct {
	Amount     decimal.Decimal
	PayerID    string
	ReceiverID string
	GroupID    string
	// Date defaults to today when zero.
	Date time.Time
	Memo string
}

// CreateSettlement records a settlement and recomputes its scope.
func (l *Ledger) CreateSettlement(ctx context.Context, in SettlementInput) (*models.Settlement, error) {
	if err := validateAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.ReceiverID == "" {
		return nil, invalid("receiver_id", "required")
	}
	if in.PayerID == in.ReceiverID {
		return nil, invalid("receiver_id", "payer and receiver must be different users")
	}
	if err := l.checkRefs(ctx, in.PayerID, []string{in.ReceiverID}, "", in.GroupID); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) && verr.Field == "participants" {
			verr.Field = "receiver_id"
		}
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = l.today()
	}

	settlement := &models.Settlement{
		GroupID:    in.GroupID,
		PayerID:    in.PayerID,
		ReceiverID: in.ReceiverID,
		Amount:     in.Amount,
		Date:       models.DateOf(date),
		Memo:       in.Memo,
	}
	if err := l.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("storing settlement: %w", err)
	}
	slog.Info("Settlement created",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"payer_id", settlement.PayerID,
		"receiver_id", settlement.ReceiverID,
		"amount", settlement.Amount,
	)

	return settlement, l.recompute(ctx, storage.GroupScope(settlement.GroupID))
}

// DeleteSettlement removes a settlement and recomputes its scope.
func (l *Ledger) DeleteSettlement(ctx context.Context, settlementID string) error {
	settlement, err := l.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return err
	}
	if err := l.store.DeleteSettlement(ctx, settlementID); err != nil {
		return fmt.Errorf("deleting settlement: %w", err)
	}
	slog.Info("Settlement deleted", "settlement_id", settlementID, "group_id", settlement.GroupID)
	return l.recompute(ctx, storage.GroupScope(settlement.GroupID))
}

// GetSettlement returns one settlement.
func (l *Ledger) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	return l.store.GetSettlement(ctx, settlementID)
}

// ListSettlements returns the settlements of a group, or the personal
// context when groupID is nil.
func (l *Ledger) ListSettlements(ctx context.Context, groupID *string) ([]*models.Settlement, error) {
	scope, err := l.scopeFor(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return l.store.ListSettlements(ctx, scope)
}
