// Package session owns per-conversation state: status, detection outcome,
// stage, persona, accumulated intelligence and history. All mutation goes
// through methods that uphold the state-machine invariants.
package session

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/scambait/plugin/ai"
	"github.com/hrygo/scambait/plugin/ai/engage"
	"github.com/hrygo/scambait/plugin/ai/intel"
	"github.com/hrygo/scambait/plugin/ai/language"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
	StatusArchived Status = "archived"
)

// ErrComplete is returned for mutations on a finished session.
var ErrComplete = errors.New("session is complete")

// ErrNotFound is returned when a session id has no stored session.
var ErrNotFound = errors.New("session not found")

// Message is one history entry.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the state of one conversation, keyed by the caller-supplied
// id.
type Session struct {
	ID            string                  `json:"id"`
	Status        Status                  `json:"status"`
	ScamDetected  bool                    `json:"scam_detected"`
	DetectionMode language.Mode           `json:"detection_mode"`
	Language      string                  `json:"language"`
	Category      string                  `json:"category"`
	Confidence    float64                 `json:"confidence"`
	Stage         engage.Stage            `json:"stage,omitempty"`
	PersonaID     string                  `json:"persona_id,omitempty"`
	TurnCount     int                     `json:"turn_count"`
	Intel         map[intel.Kind][]string `json:"extracted_intel"`
	History       []Message               `json:"history"`
	StartTime     time.Time               `json:"start_time"`
	EndTime       *time.Time              `json:"end_time,omitempty"`
	RedFlags      []string                `json:"red_flags"`
	Reasoning     string                  `json:"reasoning,omitempty"`
	Reported      bool                    `json:"reported"`
}

// New creates an active session for a conversation id.
func New(id string) *Session {
	s := &Session{
		ID:        id,
		Status:    StatusActive,
		StartTime: time.Now(),
		Intel:     map[intel.Kind][]string{},
		History:   []Message{},
		RedFlags:  []string{},
	}
	for _, k := range intel.Kinds() {
		s.Intel[k] = []string{}
	}
	return s
}

// IsComplete reports whether the session refuses further turns.
func (s *Session) IsComplete() bool {
	return s.Status != StatusActive
}

// NextTurn increments the turn counter and returns the new count.
func (s *Session) NextTurn() int {
	s.TurnCount++
	return s.TurnCount
}

// MarkDetected records the first engage/probe decision: detection outcome,
// persona and stage. The scam flag, mode, category and persona are
// set-once and keep their first values on later calls.
func (s *Session) MarkDetected(mode language.Mode, lang, category string, confidence float64, redFlags []string, reasoning string, stages engage.StageConfig) {
	if !s.ScamDetected {
		s.ScamDetected = true
		s.DetectionMode = mode
		s.Language = lang
		s.Category = category
		s.PersonaID = engage.SelectPersona(category).ID
	}
	s.Confidence = confidence
	s.Reasoning = reasoning
	s.MergeRedFlags(redFlags)
	s.Stage = stages.StageFor(s.TurnCount)
}

// AdvanceStage recomputes the stage from the current turn count. It never
// moves backward because StageFor is monotone and TurnCount only grows.
func (s *Session) AdvanceStage(stages engage.StageConfig) {
	if !s.ScamDetected {
		return
	}
	s.Stage = stages.StageFor(s.TurnCount)
}

// MergeIntel inserts newly extracted values, deduplicating per kind.
// It returns how many values were actually new.
func (s *Session) MergeIntel(r intel.Result) int {
	if s.Intel == nil {
		s.Intel = map[intel.Kind][]string{}
	}
	added := 0
	for kind, values := range r {
		existing := s.Intel[kind]
		seen := make(map[string]bool, len(existing))
		for _, v := range existing {
			seen[v] = true
		}
		for _, v := range values {
			if !seen[v] {
				seen[v] = true
				existing = append(existing, v)
				added++
			}
		}
		s.Intel[kind] = existing
	}
	return added
}

// MergeRedFlags appends new red flags, keeping earlier ones.
func (s *Session) MergeRedFlags(flags []string) {
	seen := make(map[string]bool, len(s.RedFlags))
	for _, f := range s.RedFlags {
		seen[f] = true
	}
	for _, f := range flags {
		if f != "" && !seen[f] {
			seen[f] = true
			s.RedFlags = append(s.RedFlags, f)
		}
	}
}

// AppendExchange records the scammer message and, when non-empty, the
// agent reply.
func (s *Session) AppendExchange(sender, text, reply string, at time.Time) {
	if at.IsZero() {
		at = time.Now()
	}
	if sender == "" {
		sender = "scammer"
	}
	s.History = append(s.History, Message{Sender: sender, Text: text, Timestamp: at})
	if reply != "" {
		s.History = append(s.History, Message{Sender: "agent", Text: reply, Timestamp: time.Now()})
	}
}

// LastReply returns the most recent agent utterance.
func (s *Session) LastReply() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Sender == "agent" {
			return s.History[i].Text
		}
	}
	return ""
}

// ChatHistory converts stored history into LLM messages, scammer as user
// and agent as assistant.
func (s *Session) ChatHistory() []ai.Message {
	out := make([]ai.Message, 0, len(s.History))
	for _, m := range s.History {
		role := "user"
		if m.Sender == "agent" {
			role = "assistant"
		}
		out = append(out, ai.Message{Role: role, Content: m.Text})
	}
	return out
}

// Complete freezes the session. Further turns get a session-ended answer.
func (s *Session) Complete() {
	if s.Status != StatusActive {
		return
	}
	now := time.Now()
	s.Status = StatusComplete
	s.EndTime = &now
	if s.ScamDetected {
		s.Stage = engage.StageTermination
	}
}

// Duration is the wall time from first message to finalization, or to now
// for active sessions.
func (s *Session) Duration() time.Duration {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// Persona resolves the frozen persona traits.
func (s *Session) Persona() engage.Persona {
	return engage.PersonaByID(s.PersonaID)
}
