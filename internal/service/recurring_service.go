package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/internal/recurring"
	"github.com/mmynk/ledgerly/pkg/api"
	"github.com/mmynk/ledgerly/pkg/api/apiconnect"
)

// Waker requests an asynchronous scheduler pass. *recurring.Runner implements it.
type Waker interface {
	Wake()
}

// RecurringService implements the Connect RecurringService
type RecurringService struct {
	apiconnect.UnimplementedRecurringServiceHandler
	scheduler *recurring.Scheduler
	waker     Waker
}

// NewRecurringService creates a new RecurringService. waker may be nil when
// no background runner is running; Wake then reports that nothing was queued.
func NewRecurringService(s *recurring.Scheduler, waker Waker) *RecurringService {
	return &RecurringService{scheduler: s, waker: waker}
}

// CreateRecurringPayment creates a recurring payment definition.
func (s *RecurringService) CreateRecurringPayment(ctx context.Context, req *connect.Request[api.CreateRecurringPaymentRequest]) (*connect.Response[api.CreateRecurringPaymentResponse], error) {
	slog.Info("CreateRecurringPayment request received",
		"payer_id", req.Msg.PayerID,
		"group_id", req.Msg.GroupID,
		"frequency", req.Msg.Frequency,
		"interval", req.Msg.Interval,
	)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("CreateRecurringPayment", err)
	}
	start, err := parseDate("start_date", req.Msg.StartDate)
	if err != nil {
		return nil, toConnectError("CreateRecurringPayment", err)
	}
	var end *time.Time
	if req.Msg.EndDate != "" {
		if end, err = parseDatePtr("end_date", &req.Msg.EndDate); err != nil {
			return nil, toConnectError("CreateRecurringPayment", err)
		}
	}

	rp, err := s.scheduler.CreateRecurringPayment(ctx, recurring.DefinitionInput{
		Amount:       amount,
		PayerID:      req.Msg.PayerID,
		Participants: req.Msg.Participants,
		CategoryID:   req.Msg.CategoryID,
		Memo:         req.Msg.Memo,
		GroupID:      req.Msg.GroupID,
		Frequency:    models.Frequency(req.Msg.Frequency),
		Interval:     req.Msg.Interval,
		StartDate:    start,
		EndDate:      end,
	})
	if err != nil {
		return nil, toConnectError("CreateRecurringPayment", err)
	}

	slog.Info("Recurring payment created", "recurring_id", rp.ID, "next_due", formatDatePtr(rp.NextDue))
	return connect.NewResponse(&api.CreateRecurringPaymentResponse{RecurringPayment: toAPIRecurring(rp)}), nil
}

// GetRecurringPayment retrieves a recurring payment by ID.
func (s *RecurringService) GetRecurringPayment(ctx context.Context, req *connect.Request[api.GetRecurringPaymentRequest]) (*connect.Response[api.GetRecurringPaymentResponse], error) {
	slog.Info("GetRecurringPayment request received", "recurring_id", req.Msg.ID)

	rp, err := s.scheduler.GetRecurringPayment(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError("GetRecurringPayment", err)
	}
	return connect.NewResponse(&api.GetRecurringPaymentResponse{RecurringPayment: toAPIRecurring(rp)}), nil
}

// ListRecurringPayments lists recurring payments, optionally of one scope.
func (s *RecurringService) ListRecurringPayments(ctx context.Context, req *connect.Request[api.ListRecurringPaymentsRequest]) (*connect.Response[api.ListRecurringPaymentsResponse], error) {
	slog.Info("ListRecurringPayments request received", "group_id", deref(req.Msg.GroupID))

	rps, err := s.scheduler.ListRecurringPayments(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("ListRecurringPayments", err)
	}

	out := make([]*api.RecurringPayment, len(rps))
	for i, rp := range rps {
		out[i] = toAPIRecurring(rp)
	}
	return connect.NewResponse(&api.ListRecurringPaymentsResponse{RecurringPayments: out}), nil
}

// UpdateRecurringPayment changes the amount, participants, category, memo or
// end date of an active definition.
func (s *RecurringService) UpdateRecurringPayment(ctx context.Context, req *connect.Request[api.UpdateRecurringPaymentRequest]) (*connect.Response[api.UpdateRecurringPaymentResponse], error) {
	slog.Info("UpdateRecurringPayment request received", "recurring_id", req.Msg.ID)

	amount, err := parseAmountPtr("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("UpdateRecurringPayment", err)
	}
	end, err := parseDatePtr("end_date", req.Msg.EndDate)
	if err != nil {
		return nil, toConnectError("UpdateRecurringPayment", err)
	}

	rp, err := s.scheduler.UpdateRecurringPayment(ctx, req.Msg.ID, recurring.DefinitionPatch{
		Amount:       amount,
		Participants: req.Msg.Participants,
		CategoryID:   req.Msg.CategoryID,
		Memo:         req.Msg.Memo,
		EndDate:      end,
		ClearEndDate: req.Msg.ClearEndDate,
	})
	if err != nil {
		return nil, toConnectError("UpdateRecurringPayment", err)
	}

	slog.Info("Recurring payment updated", "recurring_id", rp.ID, "active", rp.Active)
	return connect.NewResponse(&api.UpdateRecurringPaymentResponse{RecurringPayment: toAPIRecurring(rp)}), nil
}

// DeactivateRecurringPayment stops a definition. Past occurrences are kept.
func (s *RecurringService) DeactivateRecurringPayment(ctx context.Context, req *connect.Request[api.DeactivateRecurringPaymentRequest]) (*connect.Response[api.DeactivateRecurringPaymentResponse], error) {
	slog.Info("DeactivateRecurringPayment request received", "recurring_id", req.Msg.ID)

	rp, err := s.scheduler.DeactivateRecurringPayment(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError("DeactivateRecurringPayment", err)
	}
	return connect.NewResponse(&api.DeactivateRecurringPaymentResponse{RecurringPayment: toAPIRecurring(rp)}), nil
}

// DeleteRecurringPayment removes a definition.
func (s *RecurringService) DeleteRecurringPayment(ctx context.Context, req *connect.Request[api.DeleteRecurringPaymentRequest]) (*connect.Response[api.DeleteRecurringPaymentResponse], error) {
	slog.Info("DeleteRecurringPayment request received", "recurring_id", req.Msg.ID)

	if err := s.scheduler.DeleteRecurringPayment(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError("DeleteRecurringPayment", err)
	}
	return connect.NewResponse(&api.DeleteRecurringPaymentResponse{}), nil
}

// ProcessDuePayments runs one scheduler pass and returns the created expenses.
func (s *RecurringService) ProcessDuePayments(ctx context.Context, req *connect.Request[api.ProcessDuePaymentsRequest]) (*connect.Response[api.ProcessDuePaymentsResponse], error) {
	slog.Info("ProcessDuePayments request received",
		"as_of", req.Msg.AsOf,
		"group_id", deref(req.Msg.GroupID),
	)

	asOf, err := parseDate("as_of", req.Msg.AsOf)
	if err != nil {
		return nil, toConnectError("ProcessDuePayments", err)
	}
	if asOf.IsZero() {
		asOf = s.scheduler.Today()
	}

	created, err := s.scheduler.ProcessDuePayments(ctx, asOf, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("ProcessDuePayments", err)
	}

	slog.Info("Due payments processed", "created", len(created))
	return connect.NewResponse(&api.ProcessDuePaymentsResponse{Expenses: toAPIExpenses(created)}), nil
}

// Wake queues a background scheduler pass.
func (s *RecurringService) Wake(ctx context.Context, req *connect.Request[api.WakeRequest]) (*connect.Response[api.WakeResponse], error) {
	slog.Info("Wake request received")

	if s.waker == nil {
		slog.Warn("Wake ignored, scheduler runner disabled")
		return connect.NewResponse(&api.WakeResponse{Queued: false}), nil
	}
	s.waker.Wake()
	return connect.NewResponse(&api.WakeResponse{Queued: true}), nil
}
