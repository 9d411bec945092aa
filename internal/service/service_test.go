package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerly/internal/auth"
	"github.com/mmynk/ledgerly/internal/ledger"
	"github.com/mmynk/ledgerly/internal/middleware"
	"github.com/mmynk/ledgerly/internal/recurring"
	"github.com/mmynk/ledgerly/internal/storage"
	"github.com/mmynk/ledgerly/internal/storage/sqlite"
	"github.com/mmynk/ledgerly/pkg/api"
	"github.com/mmynk/ledgerly/pkg/api/apiconnect"
)

const testSecret = "test-secret-0123456789abcdef"

type testClients struct {
	ledger    apiconnect.LedgerServiceClient
	directory apiconnect.DirectoryServiceClient
	recurring apiconnect.RecurringServiceClient
	token     string
}

type fakeWaker struct{ calls int }

func (w *fakeWaker) Wake() { w.calls++ }

// setupTestServer serves all three services over httptest with the same
// interceptors as cmd/server.
func setupTestServer(t *testing.T, store storage.Store, waker Waker) *testClients {
	t.Helper()

	l := ledger.New(store)
	sched := recurring.NewScheduler(store, l, recurring.WithClock(func() time.Time {
		return time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)
	}))
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, ProtectedProcedures...),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(l), interceptors))
	mux.Handle(apiconnect.NewDirectoryServiceHandler(NewDirectoryService(l), interceptors))
	mux.Handle(apiconnect.NewRecurringServiceHandler(NewRecurringService(sched, waker), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	token, err := jwtManager.Generate("test")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return &testClients{
		ledger:    apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		directory: apiconnect.NewDirectoryServiceClient(http.DefaultClient, server.URL),
		recurring: apiconnect.NewRecurringServiceClient(http.DefaultClient, server.URL),
		token:     token,
	}
}

func newSQLiteStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func (c *testClients) user(t *testing.T, name string) string {
	t.Helper()
	resp, err := c.directory.CreateUser(context.Background(), connect.NewRequest(&api.CreateUserRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return resp.Msg.User.ID
}

func authorized[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func balanceMap(balances []*api.Balance) map[string]string {
	m := make(map[string]string, len(balances))
	for _, b := range balances {
		m[b.UserID] = b.Amount
	}
	return m
}

func TestGroupExpenseFlow(t *testing.T) {
	c := setupTestServer(t, newSQLiteStore(t), nil)
	ctx := context.Background()

	alice, bob, carol := c.user(t, "Alice"), c.user(t, "Bob"), c.user(t, "Carol")

	groupResp, err := c.directory.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{
		Name:      "Trip",
		MemberIDs: []string{alice, bob, carol},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := groupResp.Msg.Group.ID
	if len(groupResp.Msg.Group.MemberIDs) != 3 {
		t.Errorf("expected 3 members, got %d", len(groupResp.Msg.Group.MemberIDs))
	}

	expResp, err := c.ledger.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		Amount:       "30",
		PayerID:      alice,
		Participants: []string{alice, bob, carol},
		Memo:         "Dinner",
		Date:         "2024-03-01",
		GroupID:      groupID,
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	expense := expResp.Msg.Expense
	if expense.Amount != "30.00" {
		t.Errorf("expected amount 30.00, got %s", expense.Amount)
	}
	if expense.Date != "2024-03-01" {
		t.Errorf("expected date 2024-03-01, got %s", expense.Date)
	}
	for _, s := range expense.Shares {
		if s.OwedAmount != "10.00" {
			t.Errorf("expected share 10.00 for %s, got %s", s.UserID, s.OwedAmount)
		}
	}

	balResp, err := c.ledger.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{GroupID: &groupID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	got := balanceMap(balResp.Msg.Balances)
	want := map[string]string{alice: "20.00", bob: "-10.00", carol: "-10.00"}
	for user, amount := range want {
		if got[user] != amount {
			t.Errorf("balance of %s: expected %s, got %s", user, amount, got[user])
		}
	}

	sugResp, err := c.ledger.GetSettlementSuggestions(ctx, connect.NewRequest(&api.GetSettlementSuggestionsRequest{GroupID: &groupID}))
	if err != nil {
		t.Fatalf("GetSettlementSuggestions failed: %v", err)
	}
	if len(sugResp.Msg.Transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(sugResp.Msg.Transfers))
	}
	for _, tr := range sugResp.Msg.Transfers {
		if tr.To != alice || tr.Amount != "10.00" {
			t.Errorf("unexpected transfer %+v", tr)
		}
	}

	if _, err := c.ledger.CreateSettlement(ctx, connect.NewRequest(&api.CreateSettlementRequest{
		Amount:     "10",
		PayerID:    bob,
		ReceiverID: alice,
		GroupID:    groupID,
	})); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	balResp, err = c.ledger.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{GroupID: &groupID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	got = balanceMap(balResp.Msg.Balances)
	if got[alice] != "10.00" || got[bob] != "0.00" || got[carol] != "-10.00" {
		t.Errorf("unexpected balances after settlement: %v", got)
	}

	listResp, err := c.ledger.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: &groupID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(listResp.Msg.Expenses) != 1 {
		t.Errorf("expected 1 group expense, got %d", len(listResp.Msg.Expenses))
	}

	personal, err := c.ledger.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{}))
	if err != nil {
		t.Fatalf("ListExpenses (personal) failed: %v", err)
	}
	if len(personal.Msg.Expenses) != 0 {
		t.Errorf("expected no personal expenses, got %d", len(personal.Msg.Expenses))
	}

	// Bob owes nothing, Carol still owes 10.
	if _, err := c.directory.RemoveGroupMember(ctx, connect.NewRequest(&api.RemoveGroupMemberRequest{
		GroupID: groupID, UserID: carol,
	})); connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument removing an indebted member, got %v", err)
	}
	if _, err := c.directory.RemoveGroupMember(ctx, connect.NewRequest(&api.RemoveGroupMemberRequest{
		GroupID: groupID, UserID: bob,
	})); err != nil {
		t.Errorf("RemoveGroupMember failed: %v", err)
	}
}

func TestEditAndDeleteExpense(t *testing.T) {
	c := setupTestServer(t, newSQLiteStore(t), nil)
	ctx := context.Background()

	alice, bob := c.user(t, "Alice"), c.user(t, "Bob")

	expResp, err := c.ledger.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		Amount:       "10",
		PayerID:      alice,
		Participants: []string{alice, bob},
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	id := expResp.Msg.Expense.ID

	amount := "100.01"
	editResp, err := c.ledger.EditExpense(ctx, connect.NewRequest(&api.EditExpenseRequest{ID: id, Amount: &amount}))
	if err != nil {
		t.Fatalf("EditExpense failed: %v", err)
	}
	shares := editResp.Msg.Expense.Shares
	if len(shares) != 2 || shares[0].OwedAmount != "50.01" || shares[1].OwedAmount != "50.00" {
		t.Errorf("unexpected shares after edit: %+v", shares)
	}

	balResp, err := c.ledger.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if got := balanceMap(balResp.Msg.Balances); got[alice] != "50.00" || got[bob] != "-50.00" {
		t.Errorf("unexpected balances after edit: %v", got)
	}

	if _, err := c.ledger.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ID: id})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if _, err := c.ledger.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ID: id})); connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
}

func TestErrorCodes(t *testing.T) {
	c := setupTestServer(t, newSQLiteStore(t), nil)
	ctx := context.Background()
	alice := c.user(t, "Alice")

	tests := []struct {
		name string
		req  *api.CreateExpenseRequest
		code connect.Code
	}{
		{"not a number", &api.CreateExpenseRequest{Amount: "ten", PayerID: alice, Participants: []string{alice}}, connect.CodeInvalidArgument},
		{"too precise", &api.CreateExpenseRequest{Amount: "1.005", PayerID: alice, Participants: []string{alice}}, connect.CodeInvalidArgument},
		{"negative", &api.CreateExpenseRequest{Amount: "-5", PayerID: alice, Participants: []string{alice}}, connect.CodeInvalidArgument},
		{"no participants", &api.CreateExpenseRequest{Amount: "5", PayerID: alice}, connect.CodeInvalidArgument},
		{"bad date", &api.CreateExpenseRequest{Amount: "5", PayerID: alice, Participants: []string{alice}, Date: "03/01/2024"}, connect.CodeInvalidArgument},
		{"unknown payer", &api.CreateExpenseRequest{Amount: "5", PayerID: "ghost", Participants: []string{alice}}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ledger.CreateExpense(ctx, connect.NewRequest(tt.req))
			if connect.CodeOf(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, err)
			}
		})
	}

	t.Run("self settlement", func(t *testing.T) {
		_, err := c.ledger.CreateSettlement(ctx, connect.NewRequest(&api.CreateSettlementRequest{
			Amount: "5", PayerID: alice, ReceiverID: alice,
		}))
		if connect.CodeOf(err) != connect.CodeInvalidArgument {
			t.Errorf("expected InvalidArgument, got %v", err)
		}
	})

	t.Run("unknown expense", func(t *testing.T) {
		_, err := c.ledger.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ID: "missing"}))
		if connect.CodeOf(err) != connect.CodeNotFound {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("unknown group balances", func(t *testing.T) {
		group := "missing"
		_, err := c.ledger.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{GroupID: &group}))
		if connect.CodeOf(err) != connect.CodeNotFound {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

// failingBalances makes every balance rebuild fail once armed.
type failingBalances struct {
	storage.Store
	failing bool
}

func (f *failingBalances) RebuildBalances(ctx context.Context, scopes []storage.Scope, build storage.BalanceBuilder) error {
	if f.failing {
		return errors.New("disk full")
	}
	return f.Store.RebuildBalances(ctx, scopes, build)
}

func TestRecomputeFailureReportsEntity(t *testing.T) {
	store := &failingBalances{Store: newSQLiteStore(t)}
	c := setupTestServer(t, store, nil)
	ctx := context.Background()
	alice := c.user(t, "Alice")

	store.failing = true
	_, err := c.ledger.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		Amount: "5", PayerID: alice, Participants: []string{alice},
	}))
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if connectErr.Code() != connect.CodeInternal {
		t.Errorf("expected Internal, got %v", connectErr.Code())
	}
	id := connectErr.Meta().Get(EntityIDHeader)
	if id == "" {
		t.Fatal("expected the stored expense ID in the error metadata")
	}

	store.failing = false
	if _, err := c.ledger.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ID: id})); err != nil {
		t.Errorf("expected the expense to be committed: %v", err)
	}
}

func TestRecurringPayments(t *testing.T) {
	waker := &fakeWaker{}
	c := setupTestServer(t, newSQLiteStore(t), waker)
	ctx := context.Background()
	alice, bob := c.user(t, "Alice"), c.user(t, "Bob")

	createResp, err := c.recurring.CreateRecurringPayment(ctx, connect.NewRequest(&api.CreateRecurringPaymentRequest{
		Amount:       "50",
		PayerID:      alice,
		Participants: []string{alice, bob},
		Memo:         "Internet",
		Frequency:    "month",
		StartDate:    "2024-01-20",
	}))
	if err != nil {
		t.Fatalf("CreateRecurringPayment failed: %v", err)
	}
	rp := createResp.Msg.RecurringPayment
	if rp.NextDue != "2024-01-20" || !rp.Active || rp.Interval != 1 {
		t.Errorf("unexpected definition: %+v", rp)
	}

	t.Run("process requires auth", func(t *testing.T) {
		_, err := c.recurring.ProcessDuePayments(ctx, connect.NewRequest(&api.ProcessDuePaymentsRequest{}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("process catches up", func(t *testing.T) {
		resp, err := c.recurring.ProcessDuePayments(ctx, authorized(&api.ProcessDuePaymentsRequest{}, c.token))
		if err != nil {
			t.Fatalf("ProcessDuePayments failed: %v", err)
		}
		var dates []string
		for _, e := range resp.Msg.Expenses {
			dates = append(dates, e.Date)
			if e.RecurringPaymentID != rp.ID {
				t.Errorf("expense %s not linked to definition", e.ID)
			}
		}
		want := []string{"2024-01-20", "2024-02-20", "2024-03-20"}
		if len(dates) != len(want) {
			t.Fatalf("expected %v, got %v", want, dates)
		}
		for i := range want {
			if dates[i] != want[i] {
				t.Errorf("occurrence %d: expected %s, got %s", i, want[i], dates[i])
			}
		}

		again, err := c.recurring.ProcessDuePayments(ctx, authorized(&api.ProcessDuePaymentsRequest{AsOf: "2024-04-15"}, c.token))
		if err != nil {
			t.Fatalf("second ProcessDuePayments failed: %v", err)
		}
		if len(again.Msg.Expenses) != 0 {
			t.Errorf("expected no new expenses, got %d", len(again.Msg.Expenses))
		}

		getResp, err := c.recurring.GetRecurringPayment(ctx, connect.NewRequest(&api.GetRecurringPaymentRequest{ID: rp.ID}))
		if err != nil {
			t.Fatalf("GetRecurringPayment failed: %v", err)
		}
		if getResp.Msg.RecurringPayment.NextDue != "2024-04-20" {
			t.Errorf("expected next due 2024-04-20, got %s", getResp.Msg.RecurringPayment.NextDue)
		}

		balResp, err := c.ledger.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
		if err != nil {
			t.Fatalf("GetBalances failed: %v", err)
		}
		if got := balanceMap(balResp.Msg.Balances); got[alice] != "75.00" || got[bob] != "-75.00" {
			t.Errorf("unexpected balances: %v", got)
		}
	})

	t.Run("update and deactivate", func(t *testing.T) {
		amount := "60"
		upd, err := c.recurring.UpdateRecurringPayment(ctx, connect.NewRequest(&api.UpdateRecurringPaymentRequest{ID: rp.ID, Amount: &amount}))
		if err != nil {
			t.Fatalf("UpdateRecurringPayment failed: %v", err)
		}
		if upd.Msg.RecurringPayment.Amount != "60.00" {
			t.Errorf("expected amount 60.00, got %s", upd.Msg.RecurringPayment.Amount)
		}

		deact, err := c.recurring.DeactivateRecurringPayment(ctx, connect.NewRequest(&api.DeactivateRecurringPaymentRequest{ID: rp.ID}))
		if err != nil {
			t.Fatalf("DeactivateRecurringPayment failed: %v", err)
		}
		if deact.Msg.RecurringPayment.Active || deact.Msg.RecurringPayment.NextDue != "" {
			t.Errorf("expected inactive definition without next due, got %+v", deact.Msg.RecurringPayment)
		}

		list, err := c.recurring.ListRecurringPayments(ctx, connect.NewRequest(&api.ListRecurringPaymentsRequest{}))
		if err != nil {
			t.Fatalf("ListRecurringPayments failed: %v", err)
		}
		if len(list.Msg.RecurringPayments) != 1 {
			t.Errorf("expected 1 definition, got %d", len(list.Msg.RecurringPayments))
		}
	})

	t.Run("invalid frequency", func(t *testing.T) {
		_, err := c.recurring.CreateRecurringPayment(ctx, connect.NewRequest(&api.CreateRecurringPaymentRequest{
			Amount: "5", PayerID: alice, Frequency: "fortnight",
		}))
		if connect.CodeOf(err) != connect.CodeInvalidArgument {
			t.Errorf("expected InvalidArgument, got %v", err)
		}
	})

	t.Run("wake", func(t *testing.T) {
		if _, err := c.recurring.Wake(ctx, connect.NewRequest(&api.WakeRequest{})); connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
		resp, err := c.recurring.Wake(ctx, authorized(&api.WakeRequest{}, c.token))
		if err != nil {
			t.Fatalf("Wake failed: %v", err)
		}
		if !resp.Msg.Queued || waker.calls != 1 {
			t.Errorf("expected one queued wake, got queued=%v calls=%d", resp.Msg.Queued, waker.calls)
		}
	})
}

func TestWakeWithoutRunner(t *testing.T) {
	c := setupTestServer(t, newSQLiteStore(t), nil)

	resp, err := c.recurring.Wake(context.Background(), authorized(&api.WakeRequest{}, c.token))
	if err != nil {
		t.Fatalf("Wake failed: %v", err)
	}
	if resp.Msg.Queued {
		t.Error("expected nothing queued without a runner")
	}
}

func TestRecalculateAllRequiresAuth(t *testing.T) {
	c := setupTestServer(t, newSQLiteStore(t), nil)
	ctx := context.Background()

	if _, err := c.ledger.RecalculateAll(ctx, connect.NewRequest(&api.RecalculateAllRequest{})); connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated, got %v", err)
	}
	if _, err := c.ledger.RecalculateAll(ctx, authorized(&api.RecalculateAllRequest{}, "garbage")); connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated for a bad token, got %v", err)
	}
	if _, err := c.ledger.RecalculateAll(ctx, authorized(&api.RecalculateAllRequest{}, c.token)); err != nil {
		t.Errorf("RecalculateAll failed: %v", err)
	}
}
