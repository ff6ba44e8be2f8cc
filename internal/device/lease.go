// Package device tracks exclusive hardware-style resources (camera streams,
// geolocation watches, scanners, live location feeds) held on behalf of a
// user, and guarantees each acquisition is released exactly once.
package device

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindCamera           Kind = "camera"
	KindGeolocationWatch Kind = "geolocation_watch"
	KindLocationFeed     Kind = "location_feed"
	KindScanner          Kind = "scanner"
)

// exclusive kinds allow one open lease per owner.
func (k Kind) exclusive() bool {
	return k == KindCamera || k == KindScanner
}

var ErrInUse = errors.New("device already in use")

// UserOwner is the lease owner name of a user.
func UserOwner(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Counts are per-kind lease totals. Acquired == Released once every lease is closed.
type Counts struct {
	Acquired int `json:"acquired"`
	Released int `json:"released"`
	Active   int `json:"active"`
}

// Leases is the registry of open leases.
type Leases struct {
	mu     sync.Mutex
	next   uint64
	open   map[uint64]*Lease
	counts map[Kind]*Counts
	now    func() time.Time
}

func NewLeases() *Leases {
	return &Leases{
		open:   make(map[uint64]*Lease),
		counts: make(map[Kind]*Counts),
		now:    time.Now,
	}
}

// Lease is one acquisition. Release is safe to call any number of times from
// any goroutine; only the first call has effect.
type Lease struct {
	ID         uint64
	Kind       Kind
	Owner      string
	AcquiredAt time.Time

	once sync.Once
	reg  *Leases
}

// Acquire opens a lease of kind for owner. Exclusive kinds fail with ErrInUse
// while the owner still holds one.
func (l *Leases) Acquire(kind Kind, owner string) (*Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if kind.exclusive() {
		for _, open := range l.open {
			if open.Kind == kind && open.Owner == owner {
				return nil, fmt.Errorf("%w: %s held by %s", ErrInUse, kind, owner)
			}
		}
	}

	l.next++
	lease := &Lease{ID: l.next, Kind: kind, Owner: owner, AcquiredAt: l.now(), reg: l}
	l.open[lease.ID] = lease
	c := l.countsFor(kind)
	c.Acquired++
	c.Active++

	logrus.WithFields(logrus.Fields{
		"lease": lease.ID,
		"kind":  kind,
		"owner": owner,
	}).Debug("Device lease acquired.")
	return lease, nil
}

func (l *Leases) countsFor(kind Kind) *Counts {
	c, ok := l.counts[kind]
	if !ok {
		c = &Counts{}
		l.counts[kind] = c
	}
	return c
}

func (l *Leases) release(lease *Lease) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.open, lease.ID)
	c := l.countsFor(lease.Kind)
	c.Released++
	c.Active--

	logrus.WithFields(logrus.Fields{
		"lease":   lease.ID,
		"kind":    lease.Kind,
		"owner":   lease.Owner,
		"held_ms": l.now().Sub(lease.AcquiredAt).Milliseconds(),
	}).Debug("Device lease released.")
}

// Release returns the lease to the registry.
func (le *Lease) Release() {
	le.once.Do(func() { le.reg.release(le) })
}

// Stats returns a snapshot of the counters per kind.
func (l *Leases) Stats() map[Kind]Counts {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[Kind]Counts, len(l.counts))
	for k, c := range l.counts {
		out[k] = *c
	}
	return out
}

// Held lists the open leases of owner.
func (l *Leases) Held(owner string) []Kind {
	l.mu.Lock()
	defer l.mu.Unlock()
	var kinds []Kind
	for _, open := range l.open {
		if open.Owner == owner {
			kinds = append(kinds, open.Kind)
		}
	}
	return kinds
}
