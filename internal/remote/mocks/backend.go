package mocks

import (
	"context"

	"fsa_tracker/internal/remote"

	"github.com/stretchr/testify/mock"
)

// Backend is a mock for remote.Backend.
type Backend struct {
	mock.Mock
}

var _ remote.Backend = (*Backend)(nil)

func (m *Backend) GetMyRoutes(ctx context.Context, salesPerson, date string) ([]remote.RouteSummary, error) {
	args := m.Called(ctx, salesPerson, date)
	if list, ok := args.Get(0).([]remote.RouteSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) GetRouteExecution(ctx context.Context, route string) (*remote.RouteExecution, error) {
	args := m.Called(ctx, route)
	if doc, ok := args.Get(0).(*remote.RouteExecution); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) UpdateRouteStopStatus(ctx context.Context, upd remote.StopStatusUpdate) (*remote.StopStatusResult, error) {
	args := m.Called(ctx, upd)
	if res, ok := args.Get(0).(*remote.StopStatusResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) GetVisitPhotos(ctx context.Context, stop string) (*remote.PhotosDoc, error) {
	args := m.Called(ctx, stop)
	if doc, ok := args.Get(0).(*remote.PhotosDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) SaveVisitPhotos(ctx context.Context, p remote.PhotosPayload) (*remote.PhotosDoc, error) {
	args := m.Called(ctx, p)
	if doc, ok := args.Get(0).(*remote.PhotosDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) SkipActivity(ctx context.Context, s remote.ActivitySkip) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *Backend) GetStockOpname(ctx context.Context, stop string) (*remote.StockOpnameDoc, error) {
	args := m.Called(ctx, stop)
	if doc, ok := args.Get(0).(*remote.StockOpnameDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) SaveStockOpname(ctx context.Context, p remote.StockOpnamePayload) (*remote.StockOpnameDoc, error) {
	args := m.Called(ctx, p)
	if doc, ok := args.Get(0).(*remote.StockOpnameDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) GetVisitOrder(ctx context.Context, stop string) (*remote.OrderDoc, error) {
	args := m.Called(ctx, stop)
	if doc, ok := args.Get(0).(*remote.OrderDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) CreateOrder(ctx context.Context, p remote.OrderPayload) (*remote.OrderDoc, error) {
	args := m.Called(ctx, p)
	if doc, ok := args.Get(0).(*remote.OrderDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) GetVisitPayment(ctx context.Context, stop string) (*remote.PaymentDoc, error) {
	args := m.Called(ctx, stop)
	if doc, ok := args.Get(0).(*remote.PaymentDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) CreatePaymentEntry(ctx context.Context, p remote.PaymentPayload) (*remote.PaymentDoc, error) {
	args := m.Called(ctx, p)
	if doc, ok := args.Get(0).(*remote.PaymentDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) GetCompetitorSurvey(ctx context.Context, stop string) (*remote.SurveyDoc, error) {
	args := m.Called(ctx, stop)
	if doc, ok := args.Get(0).(*remote.SurveyDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) SaveCompetitorSurvey(ctx context.Context, p remote.SurveyPayload) (*remote.SurveyDoc, error) {
	args := m.Called(ctx, p)
	if doc, ok := args.Get(0).(*remote.SurveyDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) SaveProofOfDelivery(ctx context.Context, p remote.ProofOfDelivery) (*remote.ProofOfDeliveryDoc, error) {
	args := m.Called(ctx, p)
	if doc, ok := args.Get(0).(*remote.ProofOfDeliveryDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) ValidateScan(ctx context.Context, stop, code string) (*remote.ScanResult, error) {
	args := m.Called(ctx, stop, code)
	if res, ok := args.Get(0).(*remote.ScanResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) StartDelivery(ctx context.Context, assignment string) (*remote.Assignment, error) {
	args := m.Called(ctx, assignment)
	if a, ok := args.Get(0).(*remote.Assignment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) AcceptAssignment(ctx context.Context, assignment string) (*remote.Assignment, error) {
	args := m.Called(ctx, assignment)
	if a, ok := args.Get(0).(*remote.Assignment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) RejectAssignment(ctx context.Context, assignment, reason string) (*remote.Assignment, error) {
	args := m.Called(ctx, assignment, reason)
	if a, ok := args.Get(0).(*remote.Assignment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
