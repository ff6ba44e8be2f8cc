package remote

import "context"

// Remote method names.
const (
	MethodGetMyRoutes           = "frm.api.route.get_my_routes"
	MethodGetRouteExecution     = "frm.api.route.get_route_execution"
	MethodUpdateRouteStopStatus = "frm.api.route.update_route_stop_status"

	MethodGetVisitPhotos  = "frm.api.visit.get_visit_photos"
	MethodSaveVisitPhotos = "frm.api.visit.save_visit_photos"
	MethodSkipActivity    = "frm.api.visit.skip_activity"

	MethodGetStockOpname  = "frm.api.stock.get_stock_opname"
	MethodSaveStockOpname = "frm.api.stock.save_stock_opname"

	MethodGetVisitOrder = "frm.api.order.get_visit_order"
	MethodCreateOrder   = "frm.api.order.create"

	MethodGetVisitPayment    = "frm.api.payment.get_visit_payment"
	MethodCreatePaymentEntry = "frm.api.payment.create_payment_entry"

	MethodGetCompetitorSurvey  = "frm.api.survey.get_competitor_survey"
	MethodSaveCompetitorSurvey = "frm.api.survey.save_competitor_survey"

	MethodSaveProofOfDelivery = "frm.api.delivery.save_proof_of_delivery"
	MethodValidateScan        = "frm.api.delivery.validate_scan"

	MethodStartDelivery    = "frm.api.delivery_notifications.start_delivery"
	MethodAcceptAssignment = "frm.api.delivery_notifications.accept_assignment"
	MethodRejectAssignment = "frm.api.delivery_notifications.reject_assignment"
)

// Backend is the remote document store, one method per remote method.
// Get* methods return an error wrapping rpc.ErrNotFound when the stop has no
// document for that activity yet.
type Backend interface {
	GetMyRoutes(ctx context.Context, salesPerson, date string) ([]RouteSummary, error)
	GetRouteExecution(ctx context.Context, route string) (*RouteExecution, error)
	UpdateRouteStopStatus(ctx context.Context, upd StopStatusUpdate) (*StopStatusResult, error)

	GetVisitPhotos(ctx context.Context, stop string) (*PhotosDoc, error)
	SaveVisitPhotos(ctx context.Context, p PhotosPayload) (*PhotosDoc, error)
	SkipActivity(ctx context.Context, s ActivitySkip) error

	GetStockOpname(ctx context.Context, stop string) (*StockOpnameDoc, error)
	SaveStockOpname(ctx context.Context, p StockOpnamePayload) (*StockOpnameDoc, error)

	GetVisitOrder(ctx context.Context, stop string) (*OrderDoc, error)
	CreateOrder(ctx context.Context, p OrderPayload) (*OrderDoc, error)

	GetVisitPayment(ctx context.Context, stop string) (*PaymentDoc, error)
	CreatePaymentEntry(ctx context.Context, p PaymentPayload) (*PaymentDoc, error)

	GetCompetitorSurvey(ctx context.Context, stop string) (*SurveyDoc, error)
	SaveCompetitorSurvey(ctx context.Context, p SurveyPayload) (*SurveyDoc, error)

	SaveProofOfDelivery(ctx context.Context, p ProofOfDelivery) (*ProofOfDeliveryDoc, error)
	ValidateScan(ctx context.Context, stop, code string) (*ScanResult, error)

	StartDelivery(ctx context.Context, assignment string) (*Assignment, error)
	AcceptAssignment(ctx context.Context, assignment string) (*Assignment, error)
	RejectAssignment(ctx context.Context, assignment, reason string) (*Assignment, error)
}
