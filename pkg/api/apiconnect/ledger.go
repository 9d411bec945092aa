package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerly/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "ledgerly.v1.LedgerService"

const (
	LedgerServiceCreateExpenseProcedure            = "/ledgerly.v1.LedgerService/CreateExpense"
	LedgerServiceGetExpenseProcedure               = "/ledgerly.v1.LedgerService/GetExpense"
	LedgerServiceListExpensesProcedure             = "/ledgerly.v1.LedgerService/ListExpenses"
	LedgerServiceEditExpenseProcedure              = "/ledgerly.v1.LedgerService/EditExpense"
	LedgerServiceDeleteExpenseProcedure            = "/ledgerly.v1.LedgerService/DeleteExpense"
	LedgerServiceCreateSettlementProcedure         = "/ledgerly.v1.LedgerService/CreateSettlement"
	LedgerServiceGetSettlementProcedure            = "/ledgerly.v1.LedgerService/GetSettlement"
	LedgerServiceListSettlementsProcedure          = "/ledgerly.v1.LedgerService/ListSettlements"
	LedgerServiceDeleteSettlementProcedure         = "/ledgerly.v1.LedgerService/DeleteSettlement"
	LedgerServiceGetBalancesProcedure              = "/ledgerly.v1.LedgerService/GetBalances"
	LedgerServiceGetSettlementSuggestionsProcedure = "/ledgerly.v1.LedgerService/GetSettlementSuggestions"
	LedgerServiceRecalculateAllProcedure           = "/ledgerly.v1.LedgerService/RecalculateAll"
)

// LedgerServiceClient is a client for the ledgerly.v1.LedgerService service.
type LedgerServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	EditExpense(context.Context, *connect.Request[api.EditExpenseRequest]) (*connect.Response[api.EditExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlementSuggestions(context.Context, *connect.Request[api.GetSettlementSuggestionsRequest]) (*connect.Response[api.GetSettlementSuggestionsResponse], error)
	RecalculateAll(context.Context, *connect.Request[api.RecalculateAllRequest]) (*connect.Response[api.RecalculateAllResponse], error)
}

// NewLedgerServiceClient constructs a client for the ledgerly.v1.LedgerService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createExpense:            connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		getExpense:               connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+LedgerServiceGetExpenseProcedure, opts...),
		listExpenses:             connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		editExpense:              connect.NewClient[api.EditExpenseRequest, api.EditExpenseResponse](httpClient, baseURL+LedgerServiceEditExpenseProcedure, opts...),
		deleteExpense:            connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		createSettlement:         connect.NewClient[api.CreateSettlementRequest, api.CreateSettlementResponse](httpClient, baseURL+LedgerServiceCreateSettlementProcedure, opts...),
		getSettlement:            connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL+LedgerServiceGetSettlementProcedure, opts...),
		listSettlements:          connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		deleteSettlement:         connect.NewClient[api.DeleteSettlementRequest, api.DeleteSettlementResponse](httpClient, baseURL+LedgerServiceDeleteSettlementProcedure, opts...),
		getBalances:              connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getSettlementSuggestions: connect.NewClient[api.GetSettlementSuggestionsRequest, api.GetSettlementSuggestionsResponse](httpClient, baseURL+LedgerServiceGetSettlementSuggestionsProcedure, opts...),
		recalculateAll:           connect.NewClient[api.RecalculateAllRequest, api.RecalculateAllResponse](httpClient, baseURL+LedgerServiceRecalculateAllProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createExpense            *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense               *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	listExpenses             *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	editExpense              *connect.Client[api.EditExpenseRequest, api.EditExpenseResponse]
	deleteExpense            *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	createSettlement         *connect.Client[api.CreateSettlementRequest, api.CreateSettlementResponse]
	getSettlement            *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
	listSettlements          *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	deleteSettlement         *connect.Client[api.DeleteSettlementRequest, api.DeleteSettlementResponse]
	getBalances              *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSettlementSuggestions *connect.Client[api.GetSettlementSuggestionsRequest, api.GetSettlementSuggestionsResponse]
	recalculateAll           *connect.Client[api.RecalculateAllRequest, api.RecalculateAllResponse]
}

func (c *ledgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) EditExpense(ctx context.Context, req *connect.Request[api.EditExpenseRequest]) (*connect.Response[api.EditExpenseResponse], error) {
	return c.editExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlementSuggestions(ctx context.Context, req *connect.Request[api.GetSettlementSuggestionsRequest]) (*connect.Response[api.GetSettlementSuggestionsResponse], error) {
	return c.getSettlementSuggestions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecalculateAll(ctx context.Context, req *connect.Request[api.RecalculateAllRequest]) (*connect.Response[api.RecalculateAllResponse], error) {
	return c.recalculateAll.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by the server side of ledgerly.v1.LedgerService.
type LedgerServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	EditExpense(context.Context, *connect.Request[api.EditExpenseRequest]) (*connect.Response[api.EditExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlementSuggestions(context.Context, *connect.Request[api.GetSettlementSuggestionsRequest]) (*connect.Response[api.GetSettlementSuggestionsResponse], error)
	RecalculateAll(context.Context, *connect.Request[api.RecalculateAllRequest]) (*connect.Response[api.RecalculateAllResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + LedgerServiceName + "/", procedureMux{
		LedgerServiceCreateExpenseProcedure:            connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		LedgerServiceGetExpenseProcedure:               connect.NewUnaryHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, opts...),
		LedgerServiceListExpensesProcedure:             connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceEditExpenseProcedure:              connect.NewUnaryHandler(LedgerServiceEditExpenseProcedure, svc.EditExpense, opts...),
		LedgerServiceDeleteExpenseProcedure:            connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		LedgerServiceCreateSettlementProcedure:         connect.NewUnaryHandler(LedgerServiceCreateSettlementProcedure, svc.CreateSettlement, opts...),
		LedgerServiceGetSettlementProcedure:            connect.NewUnaryHandler(LedgerServiceGetSettlementProcedure, svc.GetSettlement, opts...),
		LedgerServiceListSettlementsProcedure:          connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...),
		LedgerServiceDeleteSettlementProcedure:         connect.NewUnaryHandler(LedgerServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...),
		LedgerServiceGetBalancesProcedure:              connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
		LedgerServiceGetSettlementSuggestionsProcedure: connect.NewUnaryHandler(LedgerServiceGetSettlementSuggestionsProcedure, svc.GetSettlementSuggestions, opts...),
		LedgerServiceRecalculateAllProcedure:           connect.NewUnaryHandler(LedgerServiceRecalculateAllProcedure, svc.RecalculateAll, opts...),
	}
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceCreateExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceGetExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, unimplemented(LedgerServiceListExpensesProcedure)
}

func (UnimplementedLedgerServiceHandler) EditExpense(context.Context, *connect.Request[api.EditExpenseRequest]) (*connect.Response[api.EditExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceEditExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceDeleteExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return nil, unimplemented(LedgerServiceCreateSettlementProcedure)
}

func (UnimplementedLedgerServiceHandler) GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return nil, unimplemented(LedgerServiceGetSettlementProcedure)
}

func (UnimplementedLedgerServiceHandler) ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return nil, unimplemented(LedgerServiceListSettlementsProcedure)
}

func (UnimplementedLedgerServiceHandler) DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return nil, unimplemented(LedgerServiceDeleteSettlementProcedure)
}

func (UnimplementedLedgerServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, unimplemented(LedgerServiceGetBalancesProcedure)
}

func (UnimplementedLedgerServiceHandler) GetSettlementSuggestions(context.Context, *connect.Request[api.GetSettlementSuggestionsRequest]) (*connect.Response[api.GetSettlementSuggestionsResponse], error) {
	return nil, unimplemented(LedgerServiceGetSettlementSuggestionsProcedure)
}

func (UnimplementedLedgerServiceHandler) RecalculateAll(context.Context, *connect.Request[api.RecalculateAllRequest]) (*connect.Response[api.RecalculateAllResponse], error) {
	return nil, unimplemented(LedgerServiceRecalculateAllProcedure)
}
