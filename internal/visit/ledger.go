package visit

import "time"

// CommitToken identifies one in-flight activity save.
type CommitToken struct {
	Key ActivityKey
	seq uint64
}

type pendingCommit struct {
	seq      uint64
	previous ActivityRecord
	existed  bool
}

// Ledger holds the activity records of one stop and applies saves in two
// phases: Begin marks the record pending, then Confirm or Revert settles it.
// A record only becomes completed through Confirm.
type Ledger struct {
	records Records
	pending map[ActivityKey]pendingCommit
	seq     uint64
	now     func() time.Time
}

// NewLedger starts a ledger from rehydrated records.
func NewLedger(records Records) *Ledger {
	if records == nil {
		records = Records{}
	}
	return &Ledger{
		records: records.Clone(),
		pending: make(map[ActivityKey]pendingCommit),
		now:     time.Now,
	}
}

// Records returns a snapshot of the current records.
func (l *Ledger) Records() Records {
	return l.records.Clone()
}

// Get returns the record for key.
func (l *Ledger) Get(key ActivityKey) ActivityRecord {
	return l.records.Get(key)
}

// Begin opens a save for key.
func (l *Ledger) Begin(key ActivityKey) (CommitToken, error) {
	if _, busy := l.pending[key]; busy {
		return CommitToken{}, ErrActivityPending
	}
	prev, existed := l.records[key]
	l.seq++
	l.pending[key] = pendingCommit{seq: l.seq, previous: prev, existed: existed}

	r := l.records.Get(key)
	r.Pending = true
	l.records[key] = r
	return CommitToken{Key: key, seq: l.seq}, nil
}

func (l *Ledger) take(tok CommitToken) (pendingCommit, error) {
	p, ok := l.pending[tok.Key]
	if !ok || p.seq != tok.seq {
		return pendingCommit{}, ErrStaleToken
	}
	delete(l.pending, tok.Key)
	return p, nil
}

// Confirm settles a save acknowledged by the remote store.
func (l *Ledger) Confirm(tok CommitToken, documentID, summary string) (ActivityRecord, error) {
	if _, err := l.take(tok); err != nil {
		return ActivityRecord{}, err
	}
	r := ActivityRecord{
		Key:        tok.Key,
		Completed:  true,
		DocumentID: documentID,
		Summary:    summary,
		UpdatedAt:  l.now(),
	}
	l.records[tok.Key] = r
	return r, nil
}

// ConfirmSkip settles a skip acknowledged by the remote store.
func (l *Ledger) ConfirmSkip(tok CommitToken, reason string) (ActivityRecord, error) {
	if _, err := l.take(tok); err != nil {
		return ActivityRecord{}, err
	}
	r := ActivityRecord{
		Key:        tok.Key,
		Skipped:    true,
		SkipReason: reason,
		UpdatedAt:  l.now(),
	}
	l.records[tok.Key] = r
	return r, nil
}

// Revert restores the record as it was before Begin.
func (l *Ledger) Revert(tok CommitToken) error {
	p, err := l.take(tok)
	if err != nil {
		return err
	}
	if p.existed {
		l.records[tok.Key] = p.previous
	} else {
		delete(l.records, tok.Key)
	}
	return nil
}

// Replace swaps in freshly rehydrated records, keeping in-flight saves pending.
func (l *Ledger) Replace(records Records) {
	next := records.Clone()
	for key, p := range l.pending {
		p.previous, p.existed = next[key]
		l.pending[key] = p
		r := next.Get(key)
		r.Pending = true
		next[key] = r
	}
	l.records = next
}
