package invitation

import (
	"errors"
	"sync"
	"time"

	"github.com/eatwhat/eatwhat/internal/match"
	"github.com/google/uuid"
)

// Invitation statuses relevant to the matching flow.
const (
	StatusAIMatching = "ai_matching"
	StatusSelecting  = "selecting"
	StatusConfirmed  = "confirmed"
)

var (
	ErrNotFound     = errors.New("invitation not found")
	ErrNotSelecting = errors.New("invitation is not in the selecting phase")
	ErrBadCandidate = errors.New("candidate index is out of range")
)

// Invitation is a scheduled meeting between a host and a guest pending venue
// selection.
type Invitation struct {
	ID            string                `json:"id"`
	HostID        string                `json:"hostId"`
	GuestID       string                `json:"guestId"`
	Status        string                `json:"status"`
	Result        *match.Recommendation `json:"aiResult,omitempty"`
	HostSelected  *int                  `json:"hostSelected"`
	GuestSelected *int                  `json:"guestSelected"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// Status is the wire shape reported to clients polling an invitation.
type Status struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	HostSelected  *int   `json:"hostSelected"`
	GuestSelected *int   `json:"guestSelected"`
}

// Store keeps invitations in memory. Durable persistence is out of scope;
// the store exists so the selection flow has a place to converge.
type Store struct {
	mu          sync.RWMutex
	invitations map[string]*Invitation
}

func NewStore() *Store {
	return &Store{invitations: make(map[string]*Invitation)}
}

// Create registers a new invitation in the ai_matching phase.
func (s *Store) Create(hostID, guestID string) *Invitation {
	inv := &Invitation{
		ID:        uuid.NewString(),
		HostID:    hostID,
		GuestID:   guestID,
		Status:    StatusAIMatching,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.invitations[inv.ID] = inv
	s.mu.Unlock()

	return inv
}

// AttachResult stores the validated recommendation and moves the invitation
// into the selecting phase.
func (s *Store) AttachResult(id string, rec *match.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[id]
	if !ok {
		return ErrNotFound
	}

	inv.Result = rec
	inv.Status = StatusSelecting
	return nil
}

// Select records one party's candidate choice. The invitation is confirmed
// once host and guest have picked the same candidate index.
func (s *Store) Select(id, userID string, candidateIndex int) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if inv.Status != StatusSelecting {
		return nil, ErrNotSelecting
	}
	if inv.Result == nil || candidateIndex < 0 || candidateIndex >= len(inv.Result.Candidates) {
		return nil, ErrBadCandidate
	}

	index := candidateIndex
	switch userID {
	case inv.HostID:
		inv.HostSelected = &index
	case inv.GuestID:
		inv.GuestSelected = &index
	default:
		return nil, ErrNotFound
	}

	if inv.HostSelected != nil && inv.GuestSelected != nil && *inv.HostSelected == *inv.GuestSelected {
		inv.Status = StatusConfirmed
	}

	return statusOf(inv), nil
}

// Get returns the invitation with the given id.
func (s *Store) Get(id string) (*Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invitations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return inv, nil
}

// StatusOf reports the polling view of an invitation.
func (s *Store) StatusOf(id string) (*Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invitations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return statusOf(inv), nil
}

func statusOf(inv *Invitation) *Status {
	return &Status{
		ID:            inv.ID,
		Status:        inv.Status,
		HostSelected:  inv.HostSelected,
		GuestSelected: inv.GuestSelected,
	}
}
