// Package execution runs a field user's route: it loads routes from the remote
// store, keeps one activity session per opened stop, and applies stop status
// changes only after the remote store has acknowledged them.
package execution

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fsa_tracker/internal/device"
	"fsa_tracker/internal/geo"
	"fsa_tracker/internal/models"
	"fsa_tracker/internal/remote"
	"fsa_tracker/internal/repository"
	"fsa_tracker/internal/visit"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLocateTimeout = 10 * time.Second
	DefaultScanTimeout   = 5 * time.Second
)

// Actor is the authenticated field user an operation runs for.
type Actor struct {
	UserID      uint
	SalesPerson string
}

func (a Actor) owner() string {
	return device.UserOwner(a.UserID)
}

// assigned reports whether the route belongs to the actor. A route with a rep
// is only open to that sales person.
func (a Actor) assigned(r *visit.Route) bool {
	return r.Rep == "" || r.Rep == a.SalesPerson
}

type Options struct {
	Catalog       visit.Catalog
	LocateTimeout time.Duration
	ScanTimeout   time.Duration
}

type fetcher func(ctx context.Context, stop string) (*visit.ActivityRecord, error)

type Service struct {
	backend remote.Backend
	journal repository.Journal
	locator device.Locator
	leases  *device.Leases
	catalog visit.Catalog
	fetch   map[visit.ActivityKey]fetcher

	locateTimeout time.Duration
	scanTimeout   time.Duration
	now           func() time.Time

	mu       sync.Mutex
	routes   map[string]*visit.Route
	loadedAt map[string]time.Time
	sessions map[string]*session
	inflight map[string]bool
}

// NewService wires the orchestrator. journal and locator may be nil.
func NewService(b remote.Backend, j repository.Journal, loc device.Locator, leases *device.Leases, opts Options) *Service {
	if opts.Catalog == nil {
		opts.Catalog = visit.DefaultCatalog()
	}
	if opts.LocateTimeout <= 0 {
		opts.LocateTimeout = DefaultLocateTimeout
	}
	if opts.ScanTimeout <= 0 {
		opts.ScanTimeout = DefaultScanTimeout
	}
	if leases == nil {
		leases = device.NewLeases()
	}
	s := &Service{
		backend:       b,
		journal:       j,
		locator:       loc,
		leases:        leases,
		catalog:       opts.Catalog,
		locateTimeout: opts.LocateTimeout,
		scanTimeout:   opts.ScanTimeout,
		now:           time.Now,
		routes:        make(map[string]*visit.Route),
		loadedAt:      make(map[string]time.Time),
		sessions:      make(map[string]*session),
		inflight:      make(map[string]bool),
	}
	s.fetch = map[visit.ActivityKey]fetcher{
		visit.ActivityPhotos: func(ctx context.Context, stop string) (*visit.ActivityRecord, error) {
			d, err := s.backend.GetVisitPhotos(ctx, stop)
			return recordOf(d, err)
		},
		visit.ActivityStockOpname: func(ctx context.Context, stop string) (*visit.ActivityRecord, error) {
			d, err := s.backend.GetStockOpname(ctx, stop)
			return recordOf(d, err)
		},
		visit.ActivityPayment: func(ctx context.Context, stop string) (*visit.ActivityRecord, error) {
			d, err := s.backend.GetVisitPayment(ctx, stop)
			return recordOf(d, err)
		},
		visit.ActivitySalesOrder: func(ctx context.Context, stop string) (*visit.ActivityRecord, error) {
			d, err := s.backend.GetVisitOrder(ctx, stop)
			return recordOf(d, err)
		},
		visit.ActivitySurvey: func(ctx context.Context, stop string) (*visit.ActivityRecord, error) {
			d, err := s.backend.GetCompetitorSurvey(ctx, stop)
			return recordOf(d, err)
		},
	}
	return s
}

// recordOf converts a fetched or saved document; a nil document yields nil.
func recordOf[T any, P interface {
	*T
	remote.ActivityDoc
}](d P, err error) (*visit.ActivityRecord, error) {
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	r := d.Record()
	return &r, nil
}

// Catalog returns the activity definitions in effect.
func (s *Service) Catalog() visit.Catalog {
	return s.catalog
}

// Leases exposes the device lease registry.
func (s *Service) Leases() *device.Leases {
	return s.leases
}

// ListRoutes returns the actor's routes for date (YYYY-MM-DD, empty for today).
func (s *Service) ListRoutes(ctx context.Context, actor Actor, date string) ([]remote.RouteSummary, error) {
	routes, err := s.backend.GetMyRoutes(ctx, actor.SalesPerson, date)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	if routes == nil {
		routes = []remote.RouteSummary{}
	}
	return routes, nil
}

// RouteView is a route with its derived projection.
type RouteView struct {
	Route       visit.Route    `json:"route"`
	Progress    visit.Progress `json:"progress"`
	CurrentStop string         `json:"current_stop,omitempty"`
}

func viewRoute(r *visit.Route) *RouteView {
	v := &RouteView{Route: *r, Progress: r.Progress()}
	v.Route.Stops = append([]visit.Stop(nil), r.Stops...)
	if cur := r.CurrentStop(); cur != nil {
		v.CurrentStop = cur.ID
	}
	return v
}

// LoadRoute fetches the route from the remote store and caches it.
func (s *Service) LoadRoute(ctx context.Context, actor Actor, routeID string) (*RouteView, error) {
	doc, err := s.backend.GetRouteExecution(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("load route %s: %w", routeID, err)
	}
	route, err := doc.ToRoute()
	if err != nil {
		return nil, fmt.Errorf("load route %s: %w", routeID, err)
	}
	if route.ID == "" {
		route.ID = routeID
	}
	if !actor.assigned(&route) {
		return nil, ErrNotAssigned
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[routeID] = &route
	s.loadedAt[routeID] = s.now()
	return viewRoute(&route), nil
}

// cachedStop returns a copy of the stop, loading the route on a cache miss.
func (s *Service) cachedStop(ctx context.Context, actor Actor, routeID, stopID string) (visit.Stop, bool, error) {
	s.mu.Lock()
	route, ok := s.routes[routeID]
	s.mu.Unlock()
	if !ok {
		if _, err := s.LoadRoute(ctx, actor, routeID); err != nil {
			return visit.Stop{}, false, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	route, ok = s.routes[routeID]
	if !ok {
		return visit.Stop{}, false, fmt.Errorf("route %s evicted during load", routeID)
	}
	if !actor.assigned(route) {
		return visit.Stop{}, false, ErrNotAssigned
	}
	st, err := route.Stop(stopID)
	if err != nil {
		return visit.Stop{}, false, fmt.Errorf("%w: %s", err, stopID)
	}
	return *st, route.Completed(), nil
}

// Route returns the cached route, loading it on a miss.
func (s *Service) Route(ctx context.Context, actor Actor, routeID string) (*RouteView, error) {
	s.mu.Lock()
	route, ok := s.routes[routeID]
	if ok {
		if !actor.assigned(route) {
			s.mu.Unlock()
			return nil, ErrNotAssigned
		}
		v := viewRoute(route)
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()
	return s.LoadRoute(ctx, actor, routeID)
}

// EventView is a journaled stop event with its decoded location.
type EventView struct {
	models.StopEvent
	Location *visit.Coordinates `json:"location,omitempty"`
}

// Events lists the journal of a stop, oldest first.
func (s *Service) Events(ctx context.Context, actor Actor, routeID, stopID string) ([]EventView, error) {
	if _, _, err := s.cachedStop(ctx, actor, routeID, stopID); err != nil {
		return nil, err
	}
	if s.journal == nil {
		return []EventView{}, nil
	}
	events, err := s.journal.ForStop(ctx, routeID, stopID)
	if err != nil {
		return nil, fmt.Errorf("stop events: %w", err)
	}
	out := make([]EventView, 0, len(events))
	for _, ev := range events {
		loc, err := geo.PointFromWKB(ev.Location)
		if err != nil {
			logrus.WithError(err).WithField("event_id", ev.EventID).Warn("Unreadable event location.")
		}
		out = append(out, EventView{StopEvent: ev, Location: loc})
	}
	return out, nil
}

// record journals an acknowledged change. Journal failures are logged, never
// returned: the remote store already holds the change.
func (s *Service) record(ctx context.Context, actor Actor, ev models.StopEvent, fix *visit.Coordinates) {
	if s.journal == nil {
		return
	}
	ev.EventID = uuid.NewString()
	ev.UserID = actor.UserID
	ev.OccurredAt = s.now()
	if fix != nil {
		wkb, err := geo.PointWKB(fix)
		if err != nil {
			logrus.WithError(err).Warn("Failed to encode event location.")
		}
		ev.Location = wkb
	}
	if err := s.journal.Record(ctx, &ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"route": ev.RouteID,
			"stop":  ev.StopID,
			"kind":  ev.Kind,
		}).Warn("Failed to journal stop event.")
	}
}

// PruneBefore evicts routes last loaded before cutoff together with their stop
// sessions. An evicted route is fetched again on its next use.
func (s *Service) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var evicted int64
	for id, at := range s.loadedAt {
		if !at.Before(cutoff) {
			continue
		}
		delete(s.routes, id)
		delete(s.loadedAt, id)
		for key := range s.sessions {
			if strings.HasPrefix(key, id+"/") {
				delete(s.sessions, key)
			}
		}
		evicted++
	}
	return evicted, nil
}

// claim marks key in flight; the returned func clears it.
func (s *Service) claim(key string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] {
		return nil, ErrBusy
	}
	s.inflight[key] = true
	return func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}, nil
}
