package chat

import (
	"sync"
	"time"

	"github.com/holica49/led-rental-chatbot-sub000/entity"
)

// Session is the per-user conversation state. One session exists per
// opaque user id; handlers mutate it, the engine serializes access for
// the duration of a turn.
type Session struct {
	mu sync.Mutex

	UserID         string
	Step           StepID
	Service        string
	Data           entity.IntakeData
	EquipmentCount int
	CurrentIdx     int
	History        []Snapshot
	LastActivity   time.Time
}

// Snapshot is one restorable (step, data) pair for back navigation.
// Data is deep-copied so later mutations of the live session cannot
// alias into history.
type Snapshot struct {
	Step           StepID
	Service        string
	Data           entity.IntakeData
	EquipmentCount int
	CurrentIdx     int
}

func NewSession(userID string, now time.Time) *Session {
	return &Session{
		UserID:       userID,
		LastActivity: now,
	}
}

// Lock serializes one turn's read-mutate-write for this session.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Snapshot captures the restorable state before a transition.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Step:           s.Step,
		Service:        s.Service,
		Data:           s.Data.Clone(),
		EquipmentCount: s.EquipmentCount,
		CurrentIdx:     s.CurrentIdx,
	}
}

// Restore rewinds the session to a snapshot.
func (s *Session) Restore(snap Snapshot) {
	s.Step = snap.Step
	s.Service = snap.Service
	s.Data = snap.Data.Clone()
	s.EquipmentCount = snap.EquipmentCount
	s.CurrentIdx = snap.CurrentIdx
}

// PushHistory appends a snapshot to the back-navigation stack.
func (s *Session) PushHistory(snap Snapshot) {
	s.History = append(s.History, snap)
}

// PopHistory removes and returns the most recent snapshot.
func (s *Session) PopHistory() (Snapshot, bool) {
	if len(s.History) == 0 {
		return Snapshot{}, false
	}
	snap := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	return snap, true
}

// CurrentSpec returns the equipment spec under the loop cursor, or nil
// when the cursor does not point at an appended entry yet.
func (s *Session) CurrentSpec() *entity.EquipmentSpec {
	i := s.CurrentIdx - 1
	if i < 0 || i >= len(s.Data.LedSpecs) {
		return nil
	}
	return &s.Data.LedSpecs[i]
}

// Touch refreshes the eviction clock.
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}
