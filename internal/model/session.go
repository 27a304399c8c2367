package model

import "time"

// Phase is the dialogue lifecycle phase of a session.
type Phase string

const (
	PhaseCollecting  Phase = "COLLECTING"
	PhaseConfirming  Phase = "CONFIRMING"
	PhaseCalculating Phase = "CALCULATING"
	PhaseDone        Phase = "DONE"
)

// ConfirmationStatus tracks the user's answer to the summary confirmation.
type ConfirmationStatus int

const (
	ConfirmationUnset ConfirmationStatus = iota
	ConfirmationAccepted
	ConfirmationRejected
)

// PendingChoice is an active numbered menu. The next user answer must be a
// 1-based index into Options; the chosen option's exact text is stored.
type PendingChoice struct {
	SlotName string
	Options  []string
	// Multi allows a comma-separated list of indices (used for the
	// incomplete-components question).
	Multi bool
}

// SectionRecord is one collected building section. Either Length and Width
// are set, or Area is supplied directly (area-based categories).
type SectionRecord struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Area   float64 `json:"area,omitempty"`
}

// SectionState is the explicit cursor for the section sub-protocol. It is
// entered when the section-dimensions slot is asked and exited when Index
// reaches the declared section count.
type SectionState struct {
	Index         int
	AwaitingWidth bool
	Records       []SectionRecord
}

// Message is one role-tagged turn of the session transcript.
type Message struct {
	Role      string    `json:"role"` // "assistant" or "user"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionState holds everything one valuation dialogue owns. It is mutated
// only by the dialogue state machine and is never shared between sessions.
//
// Slot values are one of: string (raw trimmed text or a chosen option),
// bool, float64, []string (multi-choice), or []SectionRecord.
type SessionState struct {
	ID           string
	Phase        Phase
	Slots        map[string]any
	AskedOrder   []string
	Pending      *PendingChoice
	Section      *SectionState
	Confirmation ConfirmationStatus
	Transcript   []Message
	CreatedAt    time.Time
}

// NewSessionState returns a fresh session in the collecting phase.
func NewSessionState(id string) *SessionState {
	return &SessionState{
		ID:        id,
		Phase:     PhaseCollecting,
		Slots:     map[string]any{},
		CreatedAt: time.Now(),
	}
}

// Reset clears all dialogue state for a new valuation round, keeping the
// session identity and transcript.
func (s *SessionState) Reset() {
	s.Phase = PhaseCollecting
	s.Slots = map[string]any{}
	s.AskedOrder = nil
	s.Pending = nil
	s.Section = nil
	s.Confirmation = ConfirmationUnset
}

// HasSlot reports whether a slot has been answered.
func (s *SessionState) HasSlot(name string) bool {
	_, ok := s.Slots[name]
	return ok
}

// MarkAsked appends a slot name to the asked order, once.
func (s *SessionState) MarkAsked(name string) {
	for _, a := range s.AskedOrder {
		if a == name {
			return
		}
	}
	s.AskedOrder = append(s.AskedOrder, name)
}

// LastAskedMissing returns the most recently asked slot that has no answer
// yet, which is the slot the next user message is binding to.
func (s *SessionState) LastAskedMissing() (string, bool) {
	for i := len(s.AskedOrder) - 1; i >= 0; i-- {
		if !s.HasSlot(s.AskedOrder[i]) {
			return s.AskedOrder[i], true
		}
	}
	return "", false
}

// AppendMessage appends one transcript turn.
func (s *SessionState) AppendMessage(role, content string) {
	s.Transcript = append(s.Transcript, Message{Role: role, Content: content, Timestamp: time.Now()})
}
