package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerly/internal/ledger"
	"github.com/mmynk/ledgerly/pkg/api"
	"github.com/mmynk/ledgerly/pkg/api/apiconnect"
)

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler
	ledger *ledger.Ledger
}

// NewLedgerService creates a new LedgerService over l.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// CreateExpense records an expense split equally across its participants.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"payer_id", req.Msg.PayerID,
		"group_id", req.Msg.GroupID,
		"participants_count", len(req.Msg.Participants),
	)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("CreateExpense", err)
	}
	date, err := parseDate("date", req.Msg.Date)
	if err != nil {
		return nil, toConnectError("CreateExpense", err)
	}

	expense, err := s.ledger.CreateExpense(ctx, ledger.ExpenseInput{
		Amount:       amount,
		PayerID:      req.Msg.PayerID,
		Participants: req.Msg.Participants,
		CategoryID:   req.Msg.CategoryID,
		Memo:         req.Msg.Memo,
		Date:         date,
		GroupID:      req.Msg.GroupID,
	})
	if err != nil {
		var id string
		if expense != nil {
			id = expense.ID
		}
		return nil, writeError("CreateExpense", id, err)
	}

	slog.Info("Expense created", "expense_id", expense.ID)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense retrieves an expense by ID.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ID)

	expense, err := s.ledger.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError("GetExpense", err)
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses lists the expenses of a group or of the personal context.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", deref(req.Msg.GroupID))

	expenses, err := s.ledger.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("ListExpenses", err)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// EditExpense applies a partial update to an expense.
func (s *LedgerService) EditExpense(ctx context.Context, req *connect.Request[api.EditExpenseRequest]) (*connect.Response[api.EditExpenseResponse], error) {
	slog.Info("EditExpense request received", "expense_id", req.Msg.ID)

	amount, err := parseAmountPtr("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("EditExpense", err)
	}
	date, err := parseDatePtr("date", req.Msg.Date)
	if err != nil {
		return nil, toConnectError("EditExpense", err)
	}

	expense, err := s.ledger.EditExpense(ctx, req.Msg.ID, ledger.ExpensePatch{
		Amount:       amount,
		PayerID:      req.Msg.PayerID,
		Participants: req.Msg.Participants,
		CategoryID:   req.Msg.CategoryID,
		Memo:         req.Msg.Memo,
		Date:         date,
		GroupID:      req.Msg.GroupID,
	})
	if err != nil {
		return nil, writeError("EditExpense", req.Msg.ID, err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.EditExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense and its shares.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ID)

	if err := s.ledger.DeleteExpense(ctx, req.Msg.ID); err != nil {
		return nil, writeError("DeleteExpense", req.Msg.ID, err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// CreateSettlement records a payment between two users.
func (s *LedgerService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	slog.Info("CreateSettlement request received",
		"payer_id", req.Msg.PayerID,
		"receiver_id", req.Msg.ReceiverID,
		"group_id", req.Msg.GroupID,
	)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("CreateSettlement", err)
	}
	date, err := parseDate("date", req.Msg.Date)
	if err != nil {
		return nil, toConnectError("CreateSettlement", err)
	}

	settlement, err := s.ledger.CreateSettlement(ctx, ledger.SettlementInput{
		Amount:     amount,
		PayerID:    req.Msg.PayerID,
		ReceiverID: req.Msg.ReceiverID,
		GroupID:    req.Msg.GroupID,
		Date:       date,
		Memo:       req.Msg.Memo,
	})
	if err != nil {
		var id string
		if settlement != nil {
			id = settlement.ID
		}
		return nil, writeError("CreateSettlement", id, err)
	}

	slog.Info("Settlement created", "settlement_id", settlement.ID)
	return connect.NewResponse(&api.CreateSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// GetSettlement retrieves a settlement by ID.
func (s *LedgerService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	slog.Info("GetSettlement request received", "settlement_id", req.Msg.ID)

	settlement, err := s.ledger.GetSettlement(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError("GetSettlement", err)
	}
	return connect.NewResponse(&api.GetSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlements lists the settlements of a group or of the personal context.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", deref(req.Msg.GroupID))

	settlements, err := s.ledger.ListSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("ListSettlements", err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement removes a settlement.
func (s *LedgerService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	slog.Info("DeleteSettlement request received", "settlement_id", req.Msg.ID)

	if err := s.ledger.DeleteSettlement(ctx, req.Msg.ID); err != nil {
		return nil, writeError("DeleteSettlement", req.Msg.ID, err)
	}

	slog.Info("Settlement deleted", "settlement_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}

// GetBalances returns the stored balances of a group or of the personal context.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "group_id", deref(req.Msg.GroupID))

	balances, err := s.ledger.GetBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetBalances", err)
	}
	return connect.NewResponse(&api.GetBalancesResponse{Balances: toAPIBalances(balances)}), nil
}

// GetSettlementSuggestions returns transfers that would clear the balances.
func (s *LedgerService) GetSettlementSuggestions(ctx context.Context, req *connect.Request[api.GetSettlementSuggestionsRequest]) (*connect.Response[api.GetSettlementSuggestionsResponse], error) {
	slog.Info("GetSettlementSuggestions request received", "group_id", deref(req.Msg.GroupID))

	transfers, err := s.ledger.GetSettlementSuggestions(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetSettlementSuggestions", err)
	}

	slog.Debug("Settlement suggestions computed", "transfers", len(transfers))
	return connect.NewResponse(&api.GetSettlementSuggestionsResponse{Transfers: toAPITransfers(transfers)}), nil
}

// RecalculateAll rebuilds every balance from the ledger.
func (s *LedgerService) RecalculateAll(ctx context.Context, req *connect.Request[api.RecalculateAllRequest]) (*connect.Response[api.RecalculateAllResponse], error) {
	slog.Info("RecalculateAll request received")

	if err := s.ledger.RecalculateAll(ctx); err != nil {
		return nil, toConnectError("RecalculateAll", err)
	}
	return connect.NewResponse(&api.RecalculateAllResponse{}), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
