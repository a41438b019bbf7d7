package session

import "sync"

// Step identifies the conversation stage a user is in. Stages are strictly
// sequential; the engine never skips ahead.
type Step string

const (
	StepUnstarted            Step = "unstarted"
	StepAwaitingStartAck     Step = "awaiting_start_ack"
	StepAwaitingPassword     Step = "awaiting_password"
	StepAwaitingPolicyAck    Step = "awaiting_policy_ack"
	StepAwaitingRulesAck     Step = "awaiting_rules_ack"
	StepAwaitingName         Step = "awaiting_name"
	StepAwaitingPhoto        Step = "awaiting_photo"
	StepAwaitingConfirmation Step = "awaiting_confirmation"
)

// Session is the per-user conversation state. It lives only in the bot
// process memory; loss on restart is accepted behaviour.
type Session struct {
	Step        Step
	Username    string // diagnostic only
	DisplayName string
	// PhotoPath is the downloaded photo owned by this session. At most one
	// live path per session; cleared on submit, /start, or "change".
	PhotoPath string
}

// New returns an empty session.
func New() *Session {
	return &Session{Step: StepUnstarted}
}

// Store abstracts session persistence so the in-memory implementation can
// later be swapped for an external one without touching the engine.
type Store interface {
	// Get returns the session for the user, creating an empty one if absent.
	Get(userID int64) *Session
	// Put saves the session for the user.
	Put(userID int64, s *Session)
	// Clear removes the session for the user.
	Clear(userID int64)
}

// MemoryStore is a mutex-guarded in-process Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

// Get returns the stored session or a fresh empty one.
func (s *MemoryStore) Get(userID int64) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess
	}
	return New()
}

// Put saves the session for the user.
func (s *MemoryStore) Put(userID int64, sess *Session) {
	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()
}

// Clear removes the session for the user.
func (s *MemoryStore) Clear(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}
