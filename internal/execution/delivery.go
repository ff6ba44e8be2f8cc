package execution

import (
	"context"
	"fmt"
	"strings"

	"fsa_tracker/internal/device"
	"fsa_tracker/internal/models"
	"fsa_tracker/internal/remote"
	"fsa_tracker/internal/visit"
)

func takesProofOfDelivery(t visit.StopType) bool {
	return t == visit.StopDelivery || t == visit.StopPickup || t == visit.StopTransfer
}

// SaveProofOfDelivery stores the receiver's signature and photo for a
// logistics stop.
func (s *Service) SaveProofOfDelivery(ctx context.Context, actor Actor, routeID, stopID string, p remote.ProofOfDelivery) (*remote.ProofOfDeliveryDoc, error) {
	st, routeDone, err := s.cachedStop(ctx, actor, routeID, stopID)
	if err != nil {
		return nil, err
	}
	if routeDone {
		return nil, visit.ErrRouteCompleted
	}
	if !takesProofOfDelivery(st.Type) {
		return nil, fmt.Errorf("%w: %s", ErrNotDeliveryStop, st.Type)
	}
	if st.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrStopClosed, st.ID, st.Status)
	}

	release, err := s.claim("pod:" + sessionKey(routeID, stopID))
	if err != nil {
		return nil, err
	}
	defer release()

	p.Stop = st.ID
	doc, err := s.backend.SaveProofOfDelivery(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("save proof of delivery: %w", err)
	}
	if doc == nil {
		doc = &remote.ProofOfDeliveryDoc{}
	}

	var fix *visit.Coordinates
	if p.Latitude != 0 || p.Longitude != 0 {
		fix = &visit.Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
	}
	s.record(ctx, actor, models.StopEvent{
		RouteID:    routeID,
		StopID:     stopID,
		Kind:       models.EventProofOfDelivery,
		DocumentID: doc.Name,
		Notes:      p.ReceiverName,
	}, fix)
	return doc, nil
}

// ValidateScan checks a scanned code against the stop's expected items. The
// user's scanner is held for the call, which is bounded by the scan timeout.
func (s *Service) ValidateScan(ctx context.Context, actor Actor, routeID, stopID, code string) (*remote.ScanResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyScan
	}
	st, _, err := s.cachedStop(ctx, actor, routeID, stopID)
	if err != nil {
		return nil, err
	}

	lease, err := s.leases.Acquire(device.KindScanner, actor.owner())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBusy, err)
	}
	defer lease.Release()

	ctx, cancel := context.WithTimeout(ctx, s.scanTimeout)
	defer cancel()
	res, err := s.backend.ValidateScan(ctx, st.ID, code)
	if err != nil {
		return nil, fmt.Errorf("validate scan: %w", err)
	}
	return res, nil
}

func (s *Service) assignment(ctx context.Context, name string, call func(ctx context.Context) (*remote.Assignment, error)) (*remote.Assignment, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNoAssignment
	}
	release, err := s.claim("assignment:" + name)
	if err != nil {
		return nil, err
	}
	defer release()
	a, err := call(ctx)
	if err != nil {
		return nil, fmt.Errorf("assignment %s: %w", name, err)
	}
	return a, nil
}

func (s *Service) StartDelivery(ctx context.Context, name string) (*remote.Assignment, error) {
	return s.assignment(ctx, name, func(ctx context.Context) (*remote.Assignment, error) {
		return s.backend.StartDelivery(ctx, name)
	})
}

func (s *Service) AcceptAssignment(ctx context.Context, name string) (*remote.Assignment, error) {
	return s.assignment(ctx, name, func(ctx context.Context) (*remote.Assignment, error) {
		return s.backend.AcceptAssignment(ctx, name)
	})
}

// RejectAssignment declines an assignment; a reason is required.
func (s *Service) RejectAssignment(ctx context.Context, name, reason string) (*remote.Assignment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.assignment(ctx, name, func(ctx context.Context) (*remote.Assignment, error) {
		return s.backend.RejectAssignment(ctx, name, reason)
	})
}
