// Package report assembles the final engagement report for a completed
// session and delivers it to the external evaluator callback.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/scambait/plugin/ai/engage"
	"github.com/hrygo/scambait/plugin/ai/intel"
	"github.com/hrygo/scambait/plugin/ai/session"
)

// Intelligence is the externally visible shape of extracted intelligence.
// Every field is always present, possibly as an empty array.
type Intelligence struct {
	PhoneNumbers            []string `json:"phoneNumbers"`
	BankAccounts            []string `json:"bankAccounts"`
	UPIIDs                  []string `json:"upiIds"`
	PhishingLinks           []string `json:"phishingLinks"`
	SuspiciousKeywords      []string `json:"suspiciousKeywords"`
	IFSCCodes               []string `json:"ifscCodes"`
	CaseNumbers             []string `json:"caseNumbers"`
	VideoCallPlatforms      []string `json:"videoCallPlatforms"`
	ImpersonatedAuthorities []string `json:"impersonatedAuthorities"`
	MeetingIDs              []string `json:"meetingIds"`
}

// IntelligenceFromKinds maps internal intel kinds to the external shape.
// Unset kinds come out as empty arrays, never null.
func IntelligenceFromKinds(m map[intel.Kind][]string) Intelligence {
	get := func(k intel.Kind) []string {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
		return []string{}
	}
	return Intelligence{
		PhoneNumbers:            get(intel.KindPhoneNumber),
		BankAccounts:            get(intel.KindBankAccount),
		UPIIDs:                  get(intel.KindUPIID),
		PhishingLinks:           get(intel.KindURL),
		SuspiciousKeywords:      get(intel.KindKeyword),
		IFSCCodes:               get(intel.KindIFSCCode),
		CaseNumbers:             get(intel.KindCaseNumber),
		VideoCallPlatforms:      get(intel.KindVideoPlatform),
		ImpersonatedAuthorities: get(intel.KindImpersonatedAuthority),
		MeetingIDs:              get(intel.KindMeetingID),
	}
}

// Count is the total number of extracted values across all kinds.
func (i Intelligence) Count() int {
	n := 0
	for _, vs := range [][]string{
		i.PhoneNumbers, i.BankAccounts, i.UPIIDs, i.PhishingLinks,
		i.SuspiciousKeywords, i.IFSCCodes, i.CaseNumbers,
		i.VideoCallPlatforms, i.ImpersonatedAuthorities, i.MeetingIDs,
	} {
		n += len(vs)
	}
	return n
}

// Report is the payload posted to the evaluator callback on finalization.
type Report struct {
	ReportID               string       `json:"reportId"`
	SessionID              string       `json:"sessionId"`
	ScamDetected           bool         `json:"scamDetected"`
	TotalMessagesExchanged int          `json:"totalMessagesExchanged"`
	ExtractedIntelligence  Intelligence `json:"extractedIntelligence"`
	AgentNotes             string       `json:"agentNotes"`

	// Supplementary analysis, ignored by evaluators that only read the
	// required fields.
	ScamCategory              string   `json:"scamCategory,omitempty"`
	Confidence                float64  `json:"confidence,omitempty"`
	PersonaUsed               string   `json:"personaUsed,omitempty"`
	RedFlags                  []string `json:"redFlags,omitempty"`
	EngagementDurationSeconds int      `json:"engagementDurationSeconds"`
	StopReason                string   `json:"stopReason,omitempty"`
	GeneratedAt               string   `json:"generatedAt"`
}

// Build assembles the final report from a completed session.
func Build(s *session.Session, stopReason string) Report {
	intelOut := IntelligenceFromKinds(s.Intel)
	return Report{
		ReportID:                  shortuuid.New(),
		SessionID:                 s.ID,
		ScamDetected:              s.ScamDetected,
		TotalMessagesExchanged:    s.TurnCount * 2,
		ExtractedIntelligence:     intelOut,
		AgentNotes:                agentNotes(s, intelOut, stopReason),
		ScamCategory:              s.Category,
		Confidence:                s.Confidence,
		PersonaUsed:               s.PersonaID,
		RedFlags:                  s.RedFlags,
		EngagementDurationSeconds: int(s.Duration() / time.Second),
		StopReason:                stopReason,
		GeneratedAt:               time.Now().UTC().Format(time.RFC3339),
	}
}

func agentNotes(s *session.Session, out Intelligence, stopReason string) string {
	if !s.ScamDetected {
		return fmt.Sprintf("Session %s ended after %d turns with no scam detected.", s.ID, s.TurnCount)
	}

	progress := engage.TrackProgress(s.Intel, s.Category)
	parts := []string{
		fmt.Sprintf("Engaged a suspected %s scam for %d turns using the %q persona.",
			strings.ReplaceAll(s.Category, "_", " "), s.TurnCount, s.PersonaID),
		fmt.Sprintf("Extracted %d intelligence items covering %.0f%% of the extraction goals for this category.",
			out.Count(), progress.Percent),
	}
	if len(s.RedFlags) > 0 {
		n := len(s.RedFlags)
		sample := s.RedFlags
		if n > 3 {
			sample = sample[:3]
		}
		parts = append(parts, fmt.Sprintf("Observed %d red flags including: %s.", n, strings.Join(sample, ", ")))
	}
	if len(progress.Missing) > 0 {
		missing := make([]string, 0, len(progress.Missing))
		for _, k := range progress.Missing {
			missing = append(missing, string(k))
		}
		parts = append(parts, fmt.Sprintf("Not obtained: %s.", strings.Join(missing, ", ")))
	}
	if stopReason != "" {
		parts = append(parts, fmt.Sprintf("Engagement stopped: %s.", stopReason))
	}
	return strings.Join(parts, " ")
}
