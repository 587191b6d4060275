package flow

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// UploadStatus is the state of the latest upload for a slot.
type UploadStatus string

const (
	UploadIdle      UploadStatus = "idle"
	UploadUploading UploadStatus = "uploading"
	UploadSuccess   UploadStatus = "success"
	UploadError     UploadStatus = "error"
)

const (
	defaultTrackerTTL = 24 * time.Hour
	sweepInterval     = 10 * time.Minute
)

// UploadToken identifies one upload attempt for a slot. Only the holder of
// the newest token for a slot can record a result.
type UploadToken uint64

type slotState struct {
	status UploadStatus
	token  UploadToken
}

type leadUploads struct {
	slots   map[string]slotState
	touched time.Time
}

// Tracker records per-slot upload state for each lead so a second device
// can follow progress. Uploads are independent: a failure for one slot does
// not touch another, and nothing is retried. Leads untouched for the TTL
// are dropped so abandoned flows do not accumulate.
type Tracker struct {
	mu        sync.Mutex
	leads     map[uuid.UUID]*leadUploads
	next      UploadToken
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		leads: make(map[uuid.UUID]*leadUploads),
		ttl:   defaultTrackerTTL,
		now:   time.Now,
	}
}

// Begin marks a new upload for the slot and returns its token. A re-pick
// restarts from uploading and supersedes any upload still in flight.
func (t *Tracker) Begin(leadID uuid.UUID, slot string) UploadToken {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.sweep(now)

	lead, ok := t.leads[leadID]
	if !ok {
		lead = &leadUploads{slots: make(map[string]slotState)}
		t.leads[leadID] = lead
	}
	t.next++
	lead.slots[slot] = slotState{status: UploadUploading, token: t.next}
	lead.touched = now
	return t.next
}

// Finish records the result of the upload holding token. A result from a
// superseded upload is ignored and Finish reports false.
func (t *Tracker) Finish(leadID uuid.UUID, slot string, token UploadToken, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	lead, ok := t.leads[leadID]
	if !ok {
		return false
	}
	state, ok := lead.slots[slot]
	if !ok || state.token != token {
		return false
	}
	state.status = UploadSuccess
	if err != nil {
		state.status = UploadError
	}
	lead.slots[slot] = state
	lead.touched = t.now()
	return true
}

func (t *Tracker) Status(leadID uuid.UUID, slot string) UploadStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if lead, ok := t.leads[leadID]; ok {
		if s, ok := lead.slots[slot]; ok {
			return s.status
		}
	}
	return UploadIdle
}

// Snapshot copies the slot states for a lead.
func (t *Tracker) Snapshot(leadID uuid.UUID) map[string]UploadStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	lead, ok := t.leads[leadID]
	if !ok {
		return map[string]UploadStatus{}
	}
	out := make(map[string]UploadStatus, len(lead.slots))
	for slot, s := range lead.slots {
		out[slot] = s.status
	}
	return out
}

// Forget drops a lead once its flow is complete.
func (t *Tracker) Forget(leadID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.leads, leadID)
}

// sweep runs under t.mu.
func (t *Tracker) sweep(now time.Time) {
	if now.Sub(t.lastSweep) < sweepInterval {
		return
	}
	t.lastSweep = now
	for id, lead := range t.leads {
		if now.Sub(lead.touched) > t.ttl {
			delete(t.leads, id)
		}
	}
}
