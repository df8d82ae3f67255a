// Package judge turns a message plus retrieved evidence into a structured
// scam verdict. The judge never fails a turn: LLM or parse failures degrade
// to a deterministic keyword heuristic with capped confidence.
package judge

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/hrygo/scambait/plugin/ai"
	"github.com/hrygo/scambait/plugin/ai/evidence"
	"github.com/hrygo/scambait/plugin/ai/intel"
	"github.com/hrygo/scambait/plugin/ai/language"
	"github.com/hrygo/scambait/plugin/ai/timeout"
)

// fallbackMaxConfidence keeps degraded verdicts below every engage
// threshold so a keyword match alone can never trigger engagement.
const fallbackMaxConfidence = 0.45

// Verdict is the structured judgment for one message.
type Verdict struct {
	IsScam               bool     `json:"is_scam"`
	Confidence           float64  `json:"confidence"`
	Category             string   `json:"primary_category"`
	Reasoning            string   `json:"reasoning"`
	MatchedPatterns      []string `json:"matched_patterns"`
	RedFlags             []string `json:"red_flags"`
	LegitimacyIndicators []string `json:"legitimacy_indicators"`

	// Fallback marks a verdict produced by the keyword heuristic.
	Fallback bool `json:"-"`
}

// Judge asks the LLM for a verdict on a message.
type Judge struct {
	llm       ai.LLMService
	extractor *intel.Extractor
}

// NewJudge creates a Judge. A nil llm always takes the fallback path.
func NewJudge(llm ai.LLMService, extractor *intel.Extractor) *Judge {
	if extractor == nil {
		extractor = intel.NewExtractor()
	}
	return &Judge{llm: llm, extractor: extractor}
}

// Judge produces a verdict for text in the given detection mode. Evidence
// is only used in normal mode; strict mode judges on the message alone with
// a higher bar. The returned verdict is always usable.
func (j *Judge) Judge(ctx context.Context, text, lang string, mode language.Mode, patterns []evidence.Pattern) Verdict {
	if j.llm == nil {
		return j.fallbackVerdict(text)
	}

	var prompt string
	if mode == language.ModeStrict {
		prompt = buildStrictModePrompt(text, lang)
	} else {
		prompt = buildNormalModePrompt(text, evidence.FormatContext(patterns))
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout.JudgeTimeout)
	defer cancel()

	raw, err := j.llm.Chat(callCtx, []ai.Message{
		ai.SystemPrompt("You are a scam detection expert for India. Respond with a single JSON object and nothing else."),
		ai.UserMessage(prompt),
	})
	if err != nil {
		slog.Warn("judge LLM call failed, using keyword fallback",
			slog.String("error", err.Error()))
		return j.fallbackVerdict(text)
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		slog.Warn("judge response unparseable, using keyword fallback",
			slog.String("raw", truncate(raw, timeout.MaxTruncateLength)),
			slog.String("error", err.Error()))
		return j.fallbackVerdict(text)
	}
	return verdict
}

// fallbackVerdict scores the message by suspicious-keyword count. Two or
// more hits read as a likely scam, but confidence stays capped so the
// decision engine lands on ignore and waits for a working judge.
func (j *Judge) fallbackVerdict(text string) Verdict {
	hits := j.extractor.KeywordHits(text)
	confidence := 0.15 * float64(len(hits))
	if confidence > fallbackMaxConfidence {
		confidence = fallbackMaxConfidence
	}

	return Verdict{
		IsScam:               len(hits) >= 2,
		Confidence:           confidence,
		Category:             "",
		Reasoning:            "Judge unavailable; verdict from suspicious-keyword count.",
		MatchedPatterns:      []string{},
		RedFlags:             hits,
		LegitimacyIndicators: []string{},
		Fallback:             true,
	}
}

// parseVerdict decodes the judge's JSON, tolerating markdown code fences
// and surrounding prose.
func parseVerdict(raw string) (Verdict, error) {
	cleaned := extractJSON(raw)

	var v Verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return Verdict{}, err
	}

	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 1 {
		v.Confidence = 1
	}
	if v.MatchedPatterns == nil {
		v.MatchedPatterns = []string{}
	}
	if v.RedFlags == nil {
		v.RedFlags = []string{}
	}
	if v.LegitimacyIndicators == nil {
		v.LegitimacyIndicators = []string{}
	}
	if v.Reasoning == "" {
		v.Reasoning = "No reasoning provided"
	}
	return v, nil
}

// extractJSON strips markdown fences and trims to the outermost JSON
// object.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
