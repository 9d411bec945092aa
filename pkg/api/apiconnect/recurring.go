package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerly/pkg/api"
)

// RecurringServiceName is the fully-qualified name of the RecurringService service.
const RecurringServiceName = "ledgerly.v1.RecurringService"

const (
	RecurringServiceCreateRecurringPaymentProcedure     = "/ledgerly.v1.RecurringService/CreateRecurringPayment"
	RecurringServiceGetRecurringPaymentProcedure        = "/ledgerly.v1.RecurringService/GetRecurringPayment"
	RecurringServiceListRecurringPaymentsProcedure      = "/ledgerly.v1.RecurringService/ListRecurringPayments"
	RecurringServiceUpdateRecurringPaymentProcedure     = "/ledgerly.v1.RecurringService/UpdateRecurringPayment"
	RecurringServiceDeactivateRecurringPaymentProcedure = "/ledgerly.v1.RecurringService/DeactivateRecurringPayment"
	RecurringServiceDeleteRecurringPaymentProcedure     = "/ledgerly.v1.RecurringService/DeleteRecurringPayment"
	RecurringServiceProcessDuePaymentsProcedure         = "/ledgerly.v1.RecurringService/ProcessDuePayments"
	RecurringServiceWakeProcedure                       = "/ledgerly.v1.RecurringService/Wake"
)

// RecurringServiceClient is a client for the ledgerly.v1.RecurringService service.
type RecurringServiceClient interface {
	CreateRecurringPayment(context.Context, *connect.Request[api.CreateRecurringPaymentRequest]) (*connect.Response[api.CreateRecurringPaymentResponse], error)
	GetRecurringPayment(context.Context, *connect.Request[api.GetRecurringPaymentRequest]) (*connect.Response[api.GetRecurringPaymentResponse], error)
	ListRecurringPayments(context.Context, *connect.Request[api.ListRecurringPaymentsRequest]) (*connect.Response[api.ListRecurringPaymentsResponse], error)
	UpdateRecurringPayment(context.Context, *connect.Request[api.UpdateRecurringPaymentRequest]) (*connect.Response[api.UpdateRecurringPaymentResponse], error)
	DeactivateRecurringPayment(context.Context, *connect.Request[api.DeactivateRecurringPaymentRequest]) (*connect.Response[api.DeactivateRecurringPaymentResponse], error)
	DeleteRecurringPayment(context.Context, *connect.Request[api.DeleteRecurringPaymentRequest]) (*connect.Response[api.DeleteRecurringPaymentResponse], error)
	ProcessDuePayments(context.Context, *connect.Request[api.ProcessDuePaymentsRequest]) (*connect.Response[api.ProcessDuePaymentsResponse], error)
	Wake(context.Context, *connect.Request[api.WakeRequest]) (*connect.Response[api.WakeResponse], error)
}

// NewRecurringServiceClient constructs a client for the
// ledgerly.v1.RecurringService service.
func NewRecurringServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) RecurringServiceClient {
	opts = clientOptions(opts)
	return &recurringServiceClient{
		createRecurringPayment:     connect.NewClient[api.CreateRecurringPaymentRequest, api.CreateRecurringPaymentResponse](httpClient, baseURL+RecurringServiceCreateRecurringPaymentProcedure, opts...),
		getRecurringPayment:        connect.NewClient[api.GetRecurringPaymentRequest, api.GetRecurringPaymentResponse](httpClient, baseURL+RecurringServiceGetRecurringPaymentProcedure, opts...),
		listRecurringPayments:      connect.NewClient[api.ListRecurringPaymentsRequest, api.ListRecurringPaymentsResponse](httpClient, baseURL+RecurringServiceListRecurringPaymentsProcedure, opts...),
		updateRecurringPayment:     connect.NewClient[api.UpdateRecurringPaymentRequest, api.UpdateRecurringPaymentResponse](httpClient, baseURL+RecurringServiceUpdateRecurringPaymentProcedure, opts...),
		deactivateRecurringPayment: connect.NewClient[api.DeactivateRecurringPaymentRequest, api.DeactivateRecurringPaymentResponse](httpClient, baseURL+RecurringServiceDeactivateRecurringPaymentProcedure, opts...),
		deleteRecurringPayment:     connect.NewClient[api.DeleteRecurringPaymentRequest, api.DeleteRecurringPaymentResponse](httpClient, baseURL+RecurringServiceDeleteRecurringPaymentProcedure, opts...),
		processDuePayments:         connect.NewClient[api.ProcessDuePaymentsRequest, api.ProcessDuePaymentsResponse](httpClient, baseURL+RecurringServiceProcessDuePaymentsProcedure, opts...),
		wake:                       connect.NewClient[api.WakeRequest, api.WakeResponse](httpClient, baseURL+RecurringServiceWakeProcedure, opts...),
	}
}

type recurringServiceClient struct {
	createRecurringPayment     *connect.Client[api.CreateRecurringPaymentRequest, api.CreateRecurringPaymentResponse]
	getRecurringPayment        *connect.Client[api.GetRecurringPaymentRequest, api.GetRecurringPaymentResponse]
	listRecurringPayments      *connect.Client[api.ListRecurringPaymentsRequest, api.ListRecurringPaymentsResponse]
	updateRecurringPayment     *connect.Client[api.UpdateRecurringPaymentRequest, api.UpdateRecurringPaymentResponse]
	deactivateRecurringPayment *connect.Client[api.DeactivateRecurringPaymentRequest, api.DeactivateRecurringPaymentResponse]
	deleteRecurringPayment     *connect.Client[api.DeleteRecurringPaymentRequest, api.DeleteRecurringPaymentResponse]
	processDuePayments         *connect.Client[api.ProcessDuePaymentsRequest, api.ProcessDuePaymentsResponse]
	wake                       *connect.Client[api.WakeRequest, api.WakeResponse]
}

func (c *recurringServiceClient) CreateRecurringPayment(ctx context.Context, req *connect.Request[api.CreateRecurringPaymentRequest]) (*connect.Response[api.CreateRecurringPaymentResponse], error) {
	return c.createRecurringPayment.CallUnary(ctx, req)
}

func (c *recurringServiceClient) GetRecurringPayment(ctx context.Context, req *connect.Request[api.GetRecurringPaymentRequest]) (*connect.Response[api.GetRecurringPaymentResponse], error) {
	return c.getRecurringPayment.CallUnary(ctx, req)
}

func (c *recurringServiceClient) ListRecurringPayments(ctx context.Context, req *connect.Request[api.ListRecurringPaymentsRequest]) (*connect.Response[api.ListRecurringPaymentsResponse], error) {
	return c.listRecurringPayments.CallUnary(ctx, req)
}

func (c *recurringServiceClient) UpdateRecurringPayment(ctx context.Context, req *connect.Request[api.UpdateRecurringPaymentRequest]) (*connect.Response[api.UpdateRecurringPaymentResponse], error) {
	return c.updateRecurringPayment.CallUnary(ctx, req)
}

func (c *recurringServiceClient) DeactivateRecurringPayment(ctx context.Context, req *connect.Request[api.DeactivateRecurringPaymentRequest]) (*connect.Response[api.DeactivateRecurringPaymentResponse], error) {
	return c.deactivateRecurringPayment.CallUnary(ctx, req)
}

func (c *recurringServiceClient) DeleteRecurringPayment(ctx context.Context, req *connect.Request[api.DeleteRecurringPaymentRequest]) (*connect.Response[api.DeleteRecurringPaymentResponse], error) {
	return c.deleteRecurringPayment.CallUnary(ctx, req)
}

func (c *recurringServiceClient) ProcessDuePayments(ctx context.Context, req *connect.Request[api.ProcessDuePaymentsRequest]) (*connect.Response[api.ProcessDuePaymentsResponse], error) {
	return c.processDuePayments.CallUnary(ctx, req)
}

func (c *recurringServiceClient) Wake(ctx context.Context, req *connect.Request[api.WakeRequest]) (*connect.Response[api.WakeResponse], error) {
	return c.wake.CallUnary(ctx, req)
}

// RecurringServiceHandler is implemented by the server side of ledgerly.v1.RecurringService.
type RecurringServiceHandler interface {
	CreateRecurringPayment(context.Context, *connect.Request[api.CreateRecurringPaymentRequest]) (*connect.Response[api.CreateRecurringPaymentResponse], error)
	GetRecurringPayment(context.Context, *connect.Request[api.GetRecurringPaymentRequest]) (*connect.Response[api.GetRecurringPaymentResponse], error)
	ListRecurringPayments(context.Context, *connect.Request[api.ListRecurringPaymentsRequest]) (*connect.Response[api.ListRecurringPaymentsResponse], error)
	UpdateRecurringPayment(context.Context, *connect.Request[api.UpdateRecurringPaymentRequest]) (*connect.Response[api.UpdateRecurringPaymentResponse], error)
	DeactivateRecurringPayment(context.Context, *connect.Request[api.DeactivateRecurringPaymentRequest]) (*connect.Response[api.DeactivateRecurringPaymentResponse], error)
	DeleteRecurringPayment(context.Context, *connect.Request[api.DeleteRecurringPaymentRequest]) (*connect.Response[api.DeleteRecurringPaymentResponse], error)
	ProcessDuePayments(context.Context, *connect.Request[api.ProcessDuePaymentsRequest]) (*connect.Response[api.ProcessDuePaymentsResponse], error)
	Wake(context.Context, *connect.Request[api.WakeRequest]) (*connect.Response[api.WakeResponse], error)
}

// NewRecurringServiceHandler builds an HTTP handler from the service
// implementation and returns the path to mount it on.
func NewRecurringServiceHandler(svc RecurringServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + RecurringServiceName + "/", procedureMux{
		RecurringServiceCreateRecurringPaymentProcedure:     connect.NewUnaryHandler(RecurringServiceCreateRecurringPaymentProcedure, svc.CreateRecurringPayment, opts...),
		RecurringServiceGetRecurringPaymentProcedure:        connect.NewUnaryHandler(RecurringServiceGetRecurringPaymentProcedure, svc.GetRecurringPayment, opts...),
		RecurringServiceListRecurringPaymentsProcedure:      connect.NewUnaryHandler(RecurringServiceListRecurringPaymentsProcedure, svc.ListRecurringPayments, opts...),
		RecurringServiceUpdateRecurringPaymentProcedure:     connect.NewUnaryHandler(RecurringServiceUpdateRecurringPaymentProcedure, svc.UpdateRecurringPayment, opts...),
		RecurringServiceDeactivateRecurringPaymentProcedure: connect.NewUnaryHandler(RecurringServiceDeactivateRecurringPaymentProcedure, svc.DeactivateRecurringPayment, opts...),
		RecurringServiceDeleteRecurringPaymentProcedure:     connect.NewUnaryHandler(RecurringServiceDeleteRecurringPaymentProcedure, svc.DeleteRecurringPayment, opts...),
		RecurringServiceProcessDuePaymentsProcedure:         connect.NewUnaryHandler(RecurringServiceProcessDuePaymentsProcedure, svc.ProcessDuePayments, opts...),
		RecurringServiceWakeProcedure:                       connect.NewUnaryHandler(RecurringServiceWakeProcedure, svc.Wake, opts...),
	}
}

// UnimplementedRecurringServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedRecurringServiceHandler struct{}

func (UnimplementedRecurringServiceHandler) CreateRecurringPayment(context.Context, *connect.Request[api.CreateRecurringPaymentRequest]) (*connect.Response[api.CreateRecurringPaymentResponse], error) {
	return nil, unimplemented(RecurringServiceCreateRecurringPaymentProcedure)
}

func (UnimplementedRecurringServiceHandler) GetRecurringPayment(context.Context, *connect.Request[api.GetRecurringPaymentRequest]) (*connect.Response[api.GetRecurringPaymentResponse], error) {
	return nil, unimplemented(RecurringServiceGetRecurringPaymentProcedure)
}

func (UnimplementedRecurringServiceHandler) ListRecurringPayments(context.Context, *connect.Request[api.ListRecurringPaymentsRequest]) (*connect.Response[api.ListRecurringPaymentsResponse], error) {
	return nil, unimplemented(RecurringServiceListRecurringPaymentsProcedure)
}

func (UnimplementedRecurringServiceHandler) UpdateRecurringPayment(context.Context, *connect.Request[api.UpdateRecurringPaymentRequest]) (*connect.Response[api.UpdateRecurringPaymentResponse], error) {
	return nil, unimplemented(RecurringServiceUpdateRecurringPaymentProcedure)
}

func (UnimplementedRecurringServiceHandler) DeactivateRecurringPayment(context.Context, *connect.Request[api.DeactivateRecurringPaymentRequest]) (*connect.Response[api.DeactivateRecurringPaymentResponse], error) {
	return nil, unimplemented(RecurringServiceDeactivateRecurringPaymentProcedure)
}

func (UnimplementedRecurringServiceHandler) DeleteRecurringPayment(context.Context, *connect.Request[api.DeleteRecurringPaymentRequest]) (*connect.Response[api.DeleteRecurringPaymentResponse], error) {
	return nil, unimplemented(RecurringServiceDeleteRecurringPaymentProcedure)
}

func (UnimplementedRecurringServiceHandler) ProcessDuePayments(context.Context, *connect.Request[api.ProcessDuePaymentsRequest]) (*connect.Response[api.ProcessDuePaymentsResponse], error) {
	return nil, unimplemented(RecurringServiceProcessDuePaymentsProcedure)
}

func (UnimplementedRecurringServiceHandler) Wake(context.Context, *connect.Request[api.WakeRequest]) (*connect.Response[api.WakeResponse], error) {
	return nil, unimplemented(RecurringServiceWakeProcedure)
}
