package execution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fsa_tracker/internal/device"
	"fsa_tracker/internal/models"
	"fsa_tracker/internal/remote"
	"fsa_tracker/internal/visit"

	"github.com/sirupsen/logrus"
)

// TransitionResult is the stop after a status change and the recomputed route
// projection.
type TransitionResult struct {
	Stop        visit.Stop        `json:"stop"`
	Progress    visit.Progress    `json:"progress"`
	CurrentStop string            `json:"current_stop,omitempty"`
	Gate        *visit.GateResult `json:"gate,omitempty"`
}

type transition struct {
	to    visit.StopStatus
	check func(st *visit.Stop, records visit.Records) error
	apply func(st *visit.Stop, records visit.Records, at time.Time) error
	fix   *visit.Coordinates

	reason visit.SkipReason
	notes  string
}

// run applies a stop status change: local check, remote update, then the
// local change. Nothing changes locally when the remote call fails.
func (s *Service) run(ctx context.Context, actor Actor, routeID, stopID string, t transition) (*TransitionResult, error) {
	st, routeDone, err := s.cachedStop(ctx, actor, routeID, stopID)
	if err != nil {
		return nil, err
	}
	if routeDone {
		return nil, visit.ErrRouteCompleted
	}
	sess, err := s.loadedSession(ctx, actor, routeID, stopID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if submitting(sess.phase) {
		sess.mu.Unlock()
		return nil, ErrBusy
	}
	records := sess.ledger.Records()
	if err := t.check(&st, records); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.phase = Submitting{}
	sess.mu.Unlock()

	upd := remote.StopStatusUpdate{
		Stop:       st.ID,
		Status:     string(t.to),
		SkipReason: string(t.reason),
		Notes:      t.notes,
	}
	if t.fix != nil {
		upd.Latitude, upd.Longitude, upd.Accuracy = t.fix.Latitude, t.fix.Longitude, t.fix.Accuracy
	}
	if _, err := s.backend.UpdateRouteStopStatus(ctx, upd); err != nil {
		sess.mu.Lock()
		sess.phase = Failed{Reason: err.Error()}
		sess.mu.Unlock()
		logrus.WithError(err).WithFields(logrus.Fields{
			"route":  routeID,
			"stop":   stopID,
			"status": t.to,
		}).Warn("Stop status update rejected by remote store.")
		return nil, fmt.Errorf("update stop %s: %w", stopID, err)
	}

	res, from, err := s.applyLocal(routeID, stopID, records, t)

	sess.mu.Lock()
	sess.phase = Idle{}
	sess.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, models.StopEvent{
		RouteID:    routeID,
		StopID:     stopID,
		Kind:       models.EventTransition,
		FromStatus: string(from),
		ToStatus:   string(t.to),
		Reason:     string(t.reason),
		Notes:      t.notes,
	}, t.fix)

	logrus.WithFields(logrus.Fields{
		"route":    routeID,
		"stop":     stopID,
		"from":     from,
		"to":       t.to,
		"progress": res.Progress.Percentage,
	}).Info("Stop status changed.")
	return res, nil
}

func (s *Service) applyLocal(routeID, stopID string, records visit.Records, t transition) (*TransitionResult, visit.StopStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	route, ok := s.routes[routeID]
	if !ok {
		return nil, "", fmt.Errorf("route %s evicted during update", routeID)
	}
	st, err := route.Stop(stopID)
	if err != nil {
		return nil, "", err
	}
	from := st.Status
	// a route reload may already carry the acknowledged status
	if st.Status != t.to {
		if err := t.apply(st, records, s.now()); err != nil {
			return nil, from, err
		}
	}
	res := &TransitionResult{Stop: *st, Progress: route.Progress()}
	if cur := route.CurrentStop(); cur != nil {
		res.CurrentStop = cur.ID
	}
	return res, from, nil
}

// locate resolves the user's position within the locate timeout while holding
// a geolocation lease. Any failure yields nil.
func (s *Service) locate(ctx context.Context, actor Actor) *visit.Coordinates {
	if s.locator == nil {
		return nil
	}
	lease, err := s.leases.Acquire(device.KindGeolocationWatch, actor.owner())
	if err != nil {
		return nil
	}
	defer lease.Release()

	ctx, cancel := context.WithTimeout(ctx, s.locateTimeout)
	defer cancel()

	type result struct {
		fix *visit.Coordinates
		err error
	}
	done := make(chan result, 1)
	go func() {
		fix, err := s.locator.Locate(ctx, actor.UserID)
		done <- result{fix, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if !errors.Is(r.err, device.ErrNoFix) {
				logrus.WithError(r.err).WithField("user_id", actor.UserID).Warn("Location lookup failed.")
			}
			return nil
		}
		return r.fix
	case <-ctx.Done():
		logrus.WithField("user_id", actor.UserID).Warn("Location lookup timed out; starting visit without GPS.")
		return nil
	}
}

// StartVisit moves a pending stop to in_progress. The fix from the request is
// used when given, otherwise the last known location; without either the
// visit still starts with absent coordinates.
func (s *Service) StartVisit(ctx context.Context, actor Actor, routeID, stopID string, fix *visit.Coordinates) (*TransitionResult, error) {
	st, _, err := s.cachedStop(ctx, actor, routeID, stopID)
	if err != nil {
		return nil, err
	}
	if err := st.CanStart(); err != nil {
		return nil, err
	}
	if fix == nil {
		fix = s.locate(ctx, actor)
	}
	return s.run(ctx, actor, routeID, stopID, transition{
		to:  visit.StatusInProgress,
		fix: fix,
		check: func(st *visit.Stop, _ visit.Records) error {
			return st.CanStart()
		},
		apply: func(st *visit.Stop, _ visit.Records, at time.Time) error {
			return st.Start(fix, at)
		},
	})
}

// ArriveAtStop marks a pending stop as reached.
func (s *Service) ArriveAtStop(ctx context.Context, actor Actor, routeID, stopID string, fix *visit.Coordinates) (*TransitionResult, error) {
	return s.run(ctx, actor, routeID, stopID, transition{
		to:  visit.StatusArrived,
		fix: fix,
		check: func(st *visit.Stop, _ visit.Records) error {
			return st.CanArrive()
		},
		apply: func(st *visit.Stop, _ visit.Records, at time.Time) error {
			return st.Arrive(fix, at)
		},
	})
}

// CheckOut completes an active stop once every required activity is completed.
func (s *Service) CheckOut(ctx context.Context, actor Actor, routeID, stopID string) (*TransitionResult, error) {
	var gate visit.GateResult
	res, err := s.run(ctx, actor, routeID, stopID, transition{
		to: visit.StatusCompleted,
		check: func(st *visit.Stop, records visit.Records) error {
			gate = visit.Gate(s.catalog, st.Type, records)
			return st.CanComplete(gate)
		},
		apply: func(st *visit.Stop, records visit.Records, at time.Time) error {
			return st.Complete(visit.Gate(s.catalog, st.Type, records), at)
		},
	})
	if err != nil {
		return nil, err
	}
	res.Gate = &gate
	return res, nil
}

// SkipStop closes a non-terminal stop with a reason from the fixed list.
func (s *Service) SkipStop(ctx context.Context, actor Actor, routeID, stopID, reason, notes string) (*TransitionResult, error) {
	r, err := visit.ParseSkipReason(reason)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, actor, routeID, stopID, transition{
		to:     visit.StatusSkipped,
		reason: r,
		notes:  notes,
		check: func(st *visit.Stop, _ visit.Records) error {
			_, err := st.CanSkip(string(r))
			return err
		},
		apply: func(st *visit.Stop, _ visit.Records, at time.Time) error {
			return st.Skip(string(r), notes, at)
		},
	})
}

// FailStop closes a non-terminal stop as failed.
func (s *Service) FailStop(ctx context.Context, actor Actor, routeID, stopID, notes string) (*TransitionResult, error) {
	return s.run(ctx, actor, routeID, stopID, transition{
		to:    visit.StatusFailed,
		notes: notes,
		check: func(st *visit.Stop, _ visit.Records) error {
			return st.CanFail()
		},
		apply: func(st *visit.Stop, _ visit.Records, at time.Time) error {
			return st.Fail(notes, at)
		},
	})
}
