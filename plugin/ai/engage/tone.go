package engage

import (
	"strings"
	"unicode"
)

// Tone classifies the scammer's manner in their latest message.
type Tone string

const (
	ToneAggressive Tone = "aggressive"
	TonePatient    Tone = "patient"
	ToneFrustrated Tone = "frustrated"
	ToneNeutral    Tone = "neutral"
)

var aggressiveKeywords = []string{
	"immediately", "now", "urgent", "hurry", "fast", "quick",
	"arrest", "jail", "police", "court", "warrant", "legal action",
	"block", "freeze", "suspend", "cancel", "terminate",
	"last chance", "final warning", "no time", "right now",
	"dont waste time", "stop wasting", "do it now",
}

var patientKeywords = []string{
	"take your time", "no rush", "when you can", "whenever",
	"please", "kindly", "request", "would you", "could you",
	"understand", "help you", "assist", "guide", "explain",
}

var frustratedKeywords = []string{
	"why", "what are you doing", "i told you", "already said",
	"listen", "pay attention", "understand?", "got it?",
	"how many times", "again", "repeat", "stupid", "idiot",
}

var paymentKeywords = []string{
	"upi", "gpay", "phonepe", "paytm", "bhim",
	"@", "account", "transfer", "send", "pay",
	"bank", "ifsc", "neft", "rtgs", "imps",
}

var threatKeywords = []string{
	"arrest", "jail", "police", "court", "warrant",
	"legal action", "case", "fir", "complaint",
	"block", "freeze", "suspend", "terminate",
}

var urgencyKeywords = []string{
	"immediately", "right now", "urgent", "hurry",
	"last chance", "final", "only", "today", "now or",
}

func countHits(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func anyHit(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// AnalyzeTone classifies the scammer's tone by keyword hits, shouting
// (caps ratio) and exclamation marks.
func AnalyzeTone(message string) Tone {
	lower := strings.ToLower(message)

	aggressive := countHits(lower, aggressiveKeywords)
	patient := countHits(lower, patientKeywords)
	frustrated := countHits(lower, frustratedKeywords)

	if capsRatio(message) > 0.5 {
		aggressive += 2
	}
	if strings.Count(message, "!") >= 2 {
		aggressive++
	}

	switch {
	case frustrated >= 2:
		return ToneFrustrated
	case aggressive >= 2:
		return ToneAggressive
	case patient >= 2:
		return TonePatient
	case aggressive > patient:
		return ToneAggressive
	case patient > aggressive:
		return TonePatient
	default:
		return ToneNeutral
	}
}

// DetectThreat reports whether the message threatens consequences.
func DetectThreat(message string) bool {
	return anyHit(strings.ToLower(message), threatKeywords)
}

// DetectUrgency reports whether the message manufactures time pressure.
func DetectUrgency(message string) bool {
	return anyHit(strings.ToLower(message), urgencyKeywords)
}

// DetectPaymentRequest reports whether the message asks for or mentions a
// payment channel.
func DetectPaymentRequest(message string) bool {
	return anyHit(strings.ToLower(message), paymentKeywords)
}

// SummarizeExchange condenses the latest scammer message into a short
// analysis line for the reply prompt.
func SummarizeExchange(message string) string {
	var parts []string

	if DetectPaymentRequest(message) {
		parts = append(parts, "Scammer is talking about payment")
	}
	if DetectThreat(message) {
		parts = append(parts, "Scammer is making threats")
	}
	if DetectUrgency(message) {
		parts = append(parts, "Scammer is creating urgency")
	}

	switch AnalyzeTone(message) {
	case ToneAggressive:
		parts = append(parts, "Scammer sounds aggressive/demanding")
	case ToneFrustrated:
		parts = append(parts, "Scammer seems frustrated with you")
	case TonePatient:
		parts = append(parts, "Scammer is being patient/polite")
	}

	if len(parts) == 0 {
		parts = append(parts, "Scammer is continuing the conversation")
	}
	return strings.Join(parts, ". ") + "."
}

func capsRatio(message string) float64 {
	if message == "" {
		return 0
	}
	upper := 0
	for _, r := range message {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(len([]rune(message)))
}
