package directory

import (
	"sort"
	"sync"

	"modmail/internal/domain"
)

// Directory is a concurrency-safe bidirectional correspondent <-> thread map.
type Directory struct {
	mu              sync.Mutex
	byCorrespondent map[domain.CorrespondentID]domain.ThreadID
	byThread        map[domain.ThreadID]domain.CorrespondentID
}

// New returns an empty Directory.
func New() *Directory {
	return &Directory{
		byCorrespondent: make(map[domain.CorrespondentID]domain.ThreadID),
		byThread:        make(map[domain.ThreadID]domain.CorrespondentID),
	}
}

// LookupThread returns the thread owned by correspondent, if any.
func (d *Directory) LookupThread(correspondent domain.CorrespondentID) (domain.ThreadID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	thread, ok := d.byCorrespondent[correspondent]
	return thread, ok
}

// LookupCorrespondent returns the correspondent that owns thread, if any.
func (d *Directory) LookupCorrespondent(thread domain.ThreadID) (domain.CorrespondentID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	correspondent, ok := d.byThread[thread]
	return correspondent, ok
}

// Insert links correspondent and thread. Any pair previously holding either
// key is evicted first, which is how a stale thread gets superseded.
func (d *Directory) Insert(correspondent domain.CorrespondentID, thread domain.ThreadID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	insertLocked(d.byCorrespondent, d.byThread, correspondent, thread)
}

// RemoveByThread drops both entries of the pair holding thread and returns
// the correspondent that owned it. No-op if the thread is not tracked.
func (d *Directory) RemoveByThread(thread domain.ThreadID) (domain.CorrespondentID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	correspondent, ok := d.byThread[thread]
	if !ok {
		return "", false
	}
	delete(d.byThread, thread)
	delete(d.byCorrespondent, correspondent)
	return correspondent, true
}

// ReplaceAll discards the current content and installs sessions in one step.
// The new maps are built before the lock is taken; later sessions win when
// two share a key.
func (d *Directory) ReplaceAll(sessions []domain.Session) {
	byCorrespondent := make(map[domain.CorrespondentID]domain.ThreadID, len(sessions))
	byThread := make(map[domain.ThreadID]domain.CorrespondentID, len(sessions))
	for _, s := range sessions {
		insertLocked(byCorrespondent, byThread, s.Correspondent, s.Thread)
	}

	d.mu.Lock()
	d.byCorrespondent = byCorrespondent
	d.byThread = byThread
	d.mu.Unlock()
}

// Snapshot returns a copy of all sessions ordered by correspondent.
func (d *Directory) Snapshot() []domain.Session {
	d.mu.Lock()
	out := make([]domain.Session, 0, len(d.byCorrespondent))
	for correspondent, thread := range d.byCorrespondent {
		out = append(out, domain.Session{Correspondent: correspondent, Thread: thread})
	}
	d.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Correspondent < out[j].Correspondent })
	return out
}

// Len returns the number of open sessions.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.byCorrespondent)
}

func insertLocked(
	byCorrespondent map[domain.CorrespondentID]domain.ThreadID,
	byThread map[domain.ThreadID]domain.CorrespondentID,
	correspondent domain.CorrespondentID,
	thread domain.ThreadID,
) {
	if oldThread, ok := byCorrespondent[correspondent]; ok {
		delete(byThread, oldThread)
	}
	if oldCorrespondent, ok := byThread[thread]; ok {
		delete(byCorrespondent, oldCorrespondent)
	}
	byCorrespondent[correspondent] = thread
	byThread[thread] = correspondent
}

// Compile-time assertion that Directory implements domain.Directory.
var _ domain.Directory = (*Directory)(nil)
