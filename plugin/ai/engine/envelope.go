package engine

import (
	"time"

	"github.com/hrygo/scambait/plugin/ai/report"
	"github.com/hrygo/scambait/plugin/ai/session"
)

// Action is the per-turn outcome reported to the caller.
type Action string

const (
	ActionEngage       Action = "engage"
	ActionProbe        Action = "probe"
	ActionIgnore       Action = "ignore"
	ActionContinue     Action = "continue"
	ActionSessionEnded Action = "session_ended"
)

// InboundMessage is one scammer message as received from the channel
// integration.
type InboundMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ParsedTimestamp parses the wire timestamp, zero when absent or invalid.
func (m InboundMessage) ParsedTimestamp() time.Time {
	if m.Timestamp == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, m.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HistoryEntry is a prior exchange supplied by the caller when a session
// begins mid-conversation.
type HistoryEntry struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// TurnRequest is the per-turn request envelope.
type TurnRequest struct {
	SessionID           string            `json:"sessionId"`
	Message             InboundMessage    `json:"message"`
	ConversationHistory []HistoryEntry    `json:"conversationHistory"`
	Metadata            map[string]string `json:"metadata"`
}

// Metrics summarizes engagement progress for the caller.
type Metrics struct {
	EngagementDurationSeconds int `json:"engagementDurationSeconds"`
	TotalMessagesExchanged    int `json:"totalMessagesExchanged"`
}

// TurnResponse is the per-turn response envelope. ExtractedIntelligence
// always carries every kind as a key, possibly empty.
type TurnResponse struct {
	Status                string              `json:"status"`
	ScamDetected          bool                `json:"scamDetected"`
	Reply                 *string             `json:"reply"`
	Action                Action              `json:"action"`
	ExtractedIntelligence report.Intelligence `json:"extractedIntelligence"`
	EngagementMetrics     Metrics             `json:"engagementMetrics"`
	AgentNotes            string              `json:"agentNotes"`
}

func envelope(s *session.Session, action Action, reply string) *TurnResponse {
	var replyPtr *string
	if reply != "" {
		replyPtr = &reply
	}
	notes := ""
	if s.ScamDetected {
		notes = "engaging as " + s.PersonaID + " in " + string(s.Stage) + " stage"
	}
	return &TurnResponse{
		Status:                "success",
		ScamDetected:          s.ScamDetected,
		Reply:                 replyPtr,
		Action:                action,
		ExtractedIntelligence: report.IntelligenceFromKinds(s.Intel),
		EngagementMetrics: Metrics{
			EngagementDurationSeconds: int(s.Duration() / time.Second),
			TotalMessagesExchanged:    s.TurnCount * 2,
		},
		AgentNotes: notes,
	}
}

func endedResponse(s *session.Session) *TurnResponse {
	resp := envelope(s, ActionSessionEnded, "")
	resp.AgentNotes = "session already ended"
	return resp
}

// MalformedResponse is the rejection envelope for requests that fail
// pre-screening. All intelligence keys are present and empty.
func MalformedResponse() *TurnResponse {
	return &TurnResponse{
		Status:                "error",
		Action:                ActionIgnore,
		ExtractedIntelligence: report.IntelligenceFromKinds(nil),
		AgentNotes:            "malformed request",
	}
}

func errorResponse(notes string) *TurnResponse {
	return &TurnResponse{
		Status:                "error",
		Action:                ActionIgnore,
		ExtractedIntelligence: report.IntelligenceFromKinds(nil),
		AgentNotes:            notes,
	}
}
