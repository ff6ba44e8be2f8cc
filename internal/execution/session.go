package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fsa_tracker/internal/rpc"
	"fsa_tracker/internal/visit"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// session is the activity state of one opened stop.
type session struct {
	mu       sync.Mutex
	ledger   *visit.Ledger
	phase    Phase
	loadedAt time.Time
}

func sessionKey(routeID, stopID string) string {
	return routeID + "/" + stopID
}

func (s *Service) session(routeID, stopID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(routeID, stopID)
	sess, ok := s.sessions[key]
	if !ok {
		sess = &session{phase: Idle{}}
		s.sessions[key] = sess
	}
	return sess
}

// ActivityView is one activity as offered at a stop.
type ActivityView struct {
	visit.Definition
	Record  visit.ActivityRecord `json:"record"`
	Mode    visit.Mode           `json:"mode"`
	Summary string               `json:"summary"`
}

// StopView is an opened stop: its status, activities and checkout gate.
type StopView struct {
	Stop          visit.Stop       `json:"stop"`
	DisplayStatus visit.StopStatus `json:"display_status"`
	Activities    []ActivityView   `json:"activities"`
	Gate          visit.GateResult `json:"gate"`
	Phase         PhaseView        `json:"phase"`
}

func (s *Service) viewStop(st visit.Stop, records visit.Records, p Phase) *StopView {
	v := &StopView{
		Stop:          st,
		DisplayStatus: visit.DisplayStatus(st, records),
		Activities:    []ActivityView{},
		Gate:          visit.Gate(s.catalog, st.Type, records),
		Phase:         viewPhase(p),
	}
	for _, d := range s.catalog.For(st.Type) {
		r := records.Get(d.Key)
		v.Activities = append(v.Activities, ActivityView{
			Definition: d,
			Record:     r,
			Mode:       visit.ModeFor(d, r),
			Summary:    r.DisplaySummary(),
		})
	}
	return v
}

// OpenStop rehydrates the stop's activity records from the remote store. The
// activity fetches run concurrently; a missing document means the activity
// has not been done yet.
func (s *Service) OpenStop(ctx context.Context, actor Actor, routeID, stopID string) (*StopView, error) {
	st, _, err := s.cachedStop(ctx, actor, routeID, stopID)
	if err != nil {
		return nil, err
	}
	sess := s.session(routeID, stopID)

	sess.mu.Lock()
	if !submitting(sess.phase) {
		sess.phase = Loading{}
	}
	sess.mu.Unlock()

	records, err := s.rehydrate(ctx, st)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err != nil {
		if !submitting(sess.phase) {
			sess.phase = Failed{Reason: err.Error()}
		}
		return nil, err
	}
	if sess.ledger == nil {
		sess.ledger = visit.NewLedger(records)
	} else {
		sess.ledger.Replace(records)
	}
	sess.loadedAt = s.now()
	if !submitting(sess.phase) {
		sess.phase = Idle{}
	}
	return s.viewStop(st, sess.ledger.Records(), sess.phase), nil
}

func (s *Service) rehydrate(ctx context.Context, st visit.Stop) (visit.Records, error) {
	defs := s.catalog.For(st.Type)
	found := make([]*visit.ActivityRecord, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range defs {
		fetch, ok := s.fetch[d.Key]
		if !ok {
			continue
		}
		g.Go(func() error {
			rec, err := fetch(gctx, st.ID)
			if errors.Is(err, rpc.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetch %s for stop %s: %w", d.Key, st.ID, err)
			}
			found[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := visit.Records{}
	for _, r := range found {
		if r != nil {
			records[r.Key] = *r
		}
	}
	logrus.WithFields(logrus.Fields{
		"stop":    st.ID,
		"fetched": len(defs),
		"found":   len(records),
	}).Debug("Stop activities rehydrated.")
	return records, nil
}

// loadedSession returns the stop's session, rehydrating it on first use.
func (s *Service) loadedSession(ctx context.Context, actor Actor, routeID, stopID string) (*session, error) {
	sess := s.session(routeID, stopID)
	sess.mu.Lock()
	loaded := sess.ledger != nil
	sess.mu.Unlock()
	if !loaded {
		if _, err := s.OpenStop(ctx, actor, routeID, stopID); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// EditActivity opens the form of one activity and reports the mode it opens in.
func (s *Service) EditActivity(ctx context.Context, actor Actor, routeID, stopID string, key visit.ActivityKey) (*ActivityView, error) {
	st, _, err := s.cachedStop(ctx, actor, routeID, stopID)
	if err != nil {
		return nil, err
	}
	def, ok := s.catalog.For(st.Type).Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s at %s stop", visit.ErrActivityNotOffered, key, st.Type)
	}
	sess, err := s.loadedSession(ctx, actor, routeID, stopID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !submitting(sess.phase) {
		sess.phase = Editing{Activity: key}
	}
	r := sess.ledger.Get(key)
	return &ActivityView{
		Definition: def,
		Record:     r,
		Mode:       visit.ModeFor(def, r),
		Summary:    r.DisplaySummary(),
	}, nil
}
