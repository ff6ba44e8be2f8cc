package execution

import (
	"context"
	"fmt"
	"strings"

	"fsa_tracker/internal/device"
	"fsa_tracker/internal/models"
	"fsa_tracker/internal/remote"
	"fsa_tracker/internal/visit"

	"github.com/sirupsen/logrus"
)

type saveFunc func(ctx context.Context, st visit.Stop) (*visit.ActivityRecord, error)

// begin checks the stop and opens a two-phase save of key.
func (s *Service) begin(ctx context.Context, actor Actor, routeID, stopID string, key visit.ActivityKey, skip bool) (visit.Stop, *session, visit.CommitToken, error) {
	var tok visit.CommitToken
	st, routeDone, err := s.cachedStop(ctx, actor, routeID, stopID)
	if err != nil {
		return st, nil, tok, err
	}
	if routeDone {
		return st, nil, tok, visit.ErrRouteCompleted
	}
	if st.Status.Terminal() {
		return st, nil, tok, fmt.Errorf("%w: %s is %s", ErrStopClosed, st.ID, st.Status)
	}
	def, ok := s.catalog.For(st.Type).Lookup(key)
	if !ok {
		return st, nil, tok, fmt.Errorf("%w: %s at %s stop", visit.ErrActivityNotOffered, key, st.Type)
	}
	if skip && def.Required {
		return st, nil, tok, fmt.Errorf("%w: %s", visit.ErrRequiredActivity, key)
	}
	sess, err := s.loadedSession(ctx, actor, routeID, stopID)
	if err != nil {
		return st, nil, tok, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if submitting(sess.phase) {
		return st, nil, tok, ErrBusy
	}
	mode := visit.ModeFor(def, sess.ledger.Get(key))
	if skip && !mode.AcceptsSkip() || !skip && !mode.AcceptsSubmission() {
		return st, nil, tok, fmt.Errorf("%w: %s is in %s mode", visit.ErrActivityLocked, key, mode)
	}
	tok, err = sess.ledger.Begin(key)
	if err != nil {
		return st, nil, tok, err
	}
	sess.phase = Submitting{Activity: key}
	return st, sess, tok, nil
}

// commit runs one activity save: Begin, remote save, then Confirm or Revert.
// A failed save leaves the record as it was before.
func (s *Service) commit(ctx context.Context, actor Actor, routeID, stopID string, key visit.ActivityKey, save saveFunc) (*StopView, error) {
	st, sess, tok, err := s.begin(ctx, actor, routeID, stopID, key, false)
	if err != nil {
		return nil, err
	}

	rec, saveErr := save(ctx, st)
	if saveErr == nil && rec == nil {
		rec = &visit.ActivityRecord{Key: key}
	}

	sess.mu.Lock()
	if saveErr != nil {
		if err := sess.ledger.Revert(tok); err != nil {
			logrus.WithError(err).WithField("activity", key).Error("Failed to revert activity save.")
		}
		sess.phase = Failed{Reason: saveErr.Error()}
		sess.mu.Unlock()
		logrus.WithError(saveErr).WithFields(logrus.Fields{
			"route":    routeID,
			"stop":     stopID,
			"activity": key,
		}).Warn("Activity save rejected by remote store.")
		return nil, fmt.Errorf("save %s: %w", key, saveErr)
	}
	confirmed, err := sess.ledger.Confirm(tok, rec.DocumentID, rec.Summary)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.phase = Idle{}
	view := s.viewStop(st, sess.ledger.Records(), sess.phase)
	sess.mu.Unlock()

	s.record(ctx, actor, models.StopEvent{
		RouteID:    routeID,
		StopID:     stopID,
		Kind:       models.EventActivity,
		Activity:   string(key),
		DocumentID: confirmed.DocumentID,
		Notes:      confirmed.Summary,
	}, nil)
	return view, nil
}

// SavePhotos uploads visit photos. The user's camera is held for the upload.
func (s *Service) SavePhotos(ctx context.Context, actor Actor, routeID, stopID string, p remote.PhotosPayload) (*StopView, error) {
	lease, err := s.leases.Acquire(device.KindCamera, actor.owner())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBusy, err)
	}
	defer lease.Release()

	return s.commit(ctx, actor, routeID, stopID, visit.ActivityPhotos, func(ctx context.Context, st visit.Stop) (*visit.ActivityRecord, error) {
		p.Stop = st.ID
		d, err := s.backend.SaveVisitPhotos(ctx, p)
		return recordOf(d, err)
	})
}

func (s *Service) SaveStockOpname(ctx context.Context, actor Actor, routeID, stopID string, p remote.StockOpnamePayload) (*StopView, error) {
	return s.commit(ctx, actor, routeID, stopID, visit.ActivityStockOpname, func(ctx context.Context, st visit.Stop) (*visit.ActivityRecord, error) {
		p.Stop, p.Customer = st.ID, st.Customer
		d, err := s.backend.SaveStockOpname(ctx, p)
		return recordOf(d, err)
	})
}

func (s *Service) CreateOrder(ctx context.Context, actor Actor, routeID, stopID string, p remote.OrderPayload) (*StopView, error) {
	return s.commit(ctx, actor, routeID, stopID, visit.ActivitySalesOrder, func(ctx context.Context, st visit.Stop) (*visit.ActivityRecord, error) {
		p.Stop, p.Customer = st.ID, st.Customer
		d, err := s.backend.CreateOrder(ctx, p)
		return recordOf(d, err)
	})
}

func (s *Service) CreatePayment(ctx context.Context, actor Actor, routeID, stopID string, p remote.PaymentPayload) (*StopView, error) {
	return s.commit(ctx, actor, routeID, stopID, visit.ActivityPayment, func(ctx context.Context, st visit.Stop) (*visit.ActivityRecord, error) {
		p.Stop, p.Customer = st.ID, st.Customer
		d, err := s.backend.CreatePaymentEntry(ctx, p)
		return recordOf(d, err)
	})
}

func (s *Service) SaveSurvey(ctx context.Context, actor Actor, routeID, stopID string, p remote.SurveyPayload) (*StopView, error) {
	return s.commit(ctx, actor, routeID, stopID, visit.ActivitySurvey, func(ctx context.Context, st visit.Stop) (*visit.ActivityRecord, error) {
		p.Stop, p.Customer = st.ID, st.Customer
		d, err := s.backend.SaveCompetitorSurvey(ctx, p)
		return recordOf(d, err)
	})
}

// SkipActivity marks a soft activity as skipped. Required activities cannot
// be skipped, and neither can one that is already completed.
func (s *Service) SkipActivity(ctx context.Context, actor Actor, routeID, stopID string, key visit.ActivityKey, reason string) (*StopView, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, visit.ErrSkipReasonRequired
	}
	st, sess, tok, err := s.begin(ctx, actor, routeID, stopID, key, true)
	if err != nil {
		return nil, err
	}

	skipErr := s.backend.SkipActivity(ctx, remote.ActivitySkip{Stop: st.ID, Activity: string(key), Reason: reason})

	sess.mu.Lock()
	if skipErr != nil {
		if err := sess.ledger.Revert(tok); err != nil {
			logrus.WithError(err).WithField("activity", key).Error("Failed to revert activity skip.")
		}
		sess.phase = Failed{Reason: skipErr.Error()}
		sess.mu.Unlock()
		return nil, fmt.Errorf("skip %s: %w", key, skipErr)
	}
	if _, err := sess.ledger.ConfirmSkip(tok, reason); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.phase = Idle{}
	view := s.viewStop(st, sess.ledger.Records(), sess.phase)
	sess.mu.Unlock()

	s.record(ctx, actor, models.StopEvent{
		RouteID:  routeID,
		StopID:   stopID,
		Kind:     models.EventActivitySkipped,
		Activity: string(key),
		Reason:   reason,
	}, nil)
	return view, nil
}
