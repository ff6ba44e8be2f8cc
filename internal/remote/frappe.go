package remote

import "context"

// Caller is satisfied by *rpc.Client.
type Caller interface {
	Call(ctx context.Context, method string, params any, out any) error
}

// Frappe implements Backend over the whitelisted frm.api methods.
type Frappe struct {
	rpc Caller
}

var _ Backend = (*Frappe)(nil)

func NewFrappe(c Caller) *Frappe {
	return &Frappe{rpc: c}
}

func call[T any](ctx context.Context, c Caller, method string, params any) (*T, error) {
	var out T
	if err := c.Call(ctx, method, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func byStop(stop string) map[string]any {
	return map[string]any{"stop": stop}
}

func (f *Frappe) GetMyRoutes(ctx context.Context, salesPerson, date string) ([]RouteSummary, error) {
	var out []RouteSummary
	err := f.rpc.Call(ctx, MethodGetMyRoutes, map[string]any{"sales_person": salesPerson, "date": date}, &out)
	return out, err
}

func (f *Frappe) GetRouteExecution(ctx context.Context, route string) (*RouteExecution, error) {
	return call[RouteExecution](ctx, f.rpc, MethodGetRouteExecution, map[string]any{"route": route})
}

func (f *Frappe) UpdateRouteStopStatus(ctx context.Context, upd StopStatusUpdate) (*StopStatusResult, error) {
	return call[StopStatusResult](ctx, f.rpc, MethodUpdateRouteStopStatus, upd)
}

func (f *Frappe) GetVisitPhotos(ctx context.Context, stop string) (*PhotosDoc, error) {
	return call[PhotosDoc](ctx, f.rpc, MethodGetVisitPhotos, byStop(stop))
}

func (f *Frappe) SaveVisitPhotos(ctx context.Context, p PhotosPayload) (*PhotosDoc, error) {
	return call[PhotosDoc](ctx, f.rpc, MethodSaveVisitPhotos, p)
}

func (f *Frappe) SkipActivity(ctx context.Context, s ActivitySkip) error {
	return f.rpc.Call(ctx, MethodSkipActivity, s, nil)
}

func (f *Frappe) GetStockOpname(ctx context.Context, stop string) (*StockOpnameDoc, error) {
	return call[StockOpnameDoc](ctx, f.rpc, MethodGetStockOpname, byStop(stop))
}

func (f *Frappe) SaveStockOpname(ctx context.Context, p StockOpnamePayload) (*StockOpnameDoc, error) {
	return call[StockOpnameDoc](ctx, f.rpc, MethodSaveStockOpname, p)
}

func (f *Frappe) GetVisitOrder(ctx context.Context, stop string) (*OrderDoc, error) {
	return call[OrderDoc](ctx, f.rpc, MethodGetVisitOrder, byStop(stop))
}

func (f *Frappe) CreateOrder(ctx context.Context, p OrderPayload) (*OrderDoc, error) {
	return call[OrderDoc](ctx, f.rpc, MethodCreateOrder, p)
}

func (f *Frappe) GetVisitPayment(ctx context.Context, stop string) (*PaymentDoc, error) {
	return call[PaymentDoc](ctx, f.rpc, MethodGetVisitPayment, byStop(stop))
}

func (f *Frappe) CreatePaymentEntry(ctx context.Context, p PaymentPayload) (*PaymentDoc, error) {
	return call[PaymentDoc](ctx, f.rpc, MethodCreatePaymentEntry, p)
}

func (f *Frappe) GetCompetitorSurvey(ctx context.Context, stop string) (*SurveyDoc, error) {
	return call[SurveyDoc](ctx, f.rpc, MethodGetCompetitorSurvey, byStop(stop))
}

func (f *Frappe) SaveCompetitorSurvey(ctx context.Context, p SurveyPayload) (*SurveyDoc, error) {
	return call[SurveyDoc](ctx, f.rpc, MethodSaveCompetitorSurvey, p)
}

func (f *Frappe) SaveProofOfDelivery(ctx context.Context, p ProofOfDelivery) (*ProofOfDeliveryDoc, error) {
	return call[ProofOfDeliveryDoc](ctx, f.rpc, MethodSaveProofOfDelivery, p)
}

func (f *Frappe) ValidateScan(ctx context.Context, stop, code string) (*ScanResult, error) {
	return call[ScanResult](ctx, f.rpc, MethodValidateScan, map[string]any{"stop": stop, "code": code})
}

func (f *Frappe) StartDelivery(ctx context.Context, assignment string) (*Assignment, error) {
	return call[Assignment](ctx, f.rpc, MethodStartDelivery, map[string]any{"assignment": assignment})
}

func (f *Frappe) AcceptAssignment(ctx context.Context, assignment string) (*Assignment, error) {
	return call[Assignment](ctx, f.rpc, MethodAcceptAssignment, map[string]any{"assignment": assignment})
}

func (f *Frappe) RejectAssignment(ctx context.Context, assignment, reason string) (*Assignment, error) {
	return call[Assignment](ctx, f.rpc, MethodRejectAssignment, map[string]any{"assignment": assignment, "reason": reason})
}
