package engage

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hrygo/scambait/plugin/ai"
	"github.com/hrygo/scambait/plugin/ai/intel"
	"github.com/hrygo/scambait/plugin/ai/timeout"
)

// maxReplyWords caps the reply length; real chat answers stay short.
const maxReplyWords = 40

// ReplyRequest carries everything the generator conditions on for one
// turn.
type ReplyRequest struct {
	Persona       Persona
	Stage         Stage
	Category      string
	Reasoning     string
	RedFlags      []string
	History       []ai.Message
	LatestMessage string
	Intel         map[intel.Kind][]string
	TurnCount     int

	// LastReply is the previous agent reply; the new reply must differ.
	LastReply string
}

// Generator produces the next in-character utterance.
type Generator struct {
	llm ai.LLMService
}

// NewGenerator creates a Generator. A nil llm always produces fallback
// replies.
func NewGenerator(llm ai.LLMService) *Generator {
	return &Generator{llm: llm}
}

// Generate returns the reply for this turn. It never fails: LLM errors and
// empty outputs degrade to a tone-aware stalling line.
func (g *Generator) Generate(ctx context.Context, req ReplyRequest) string {
	tone := AnalyzeTone(req.LatestMessage)

	if g.llm == nil {
		return g.distinct(FallbackReply(tone, DetectThreat(req.LatestMessage)), req)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout.ReplyTimeout)
	defer cancel()

	raw, err := g.llm.Chat(callCtx, []ai.Message{
		ai.SystemPrompt(replySystemPrompt),
		ai.UserMessage(buildReplyPrompt(req, tone)),
	})
	if err != nil {
		slog.Warn("reply generation failed, using fallback",
			slog.String("error", err.Error()),
			slog.String("intel", intelSnapshot(req.Intel)))
		return g.distinct(FallbackReply(tone, DetectThreat(req.LatestMessage)), req)
	}

	reply := scrubReply(raw)
	if reply == "" {
		reply = FallbackReply(tone, DetectThreat(req.LatestMessage))
	}
	return g.distinct(reply, req)
}

// distinct ensures no two consecutive agent replies are identical.
func (g *Generator) distinct(reply string, req ReplyRequest) string {
	if req.LastReply == "" || reply != req.LastReply {
		return reply
	}
	return stallingExcuses[req.TurnCount%len(stallingExcuses)]
}

// FallbackReply is the safe stalling answer when generation is
// unavailable, picked by the scammer's manner.
func FallbackReply(tone Tone, threatened bool) string {
	switch {
	case tone == ToneAggressive || tone == ToneFrustrated:
		return "ok ok im trying plz wait"
	case threatened:
		return "im scared what do i do"
	default:
		return "umm wait let me understand"
	}
}

// scrubReply cleans raw LLM output into a plausible chat message: strips
// role prefixes and quoting, then trims to the word cap at a sentence
// break when possible.
func scrubReply(raw string) string {
	reply := strings.TrimSpace(raw)
	reply = strings.ReplaceAll(reply, `"`, "")
	reply = strings.Trim(reply, "'` ")

	lower := strings.ToLower(reply)
	for _, prefix := range []string{"response:", "reply:", "you:", "agent:", "me:"} {
		if strings.HasPrefix(lower, prefix) {
			reply = strings.TrimSpace(reply[len(prefix):])
			break
		}
	}

	words := strings.Fields(reply)
	if len(words) <= maxReplyWords {
		return strings.Join(words, " ")
	}

	// Trim at sentence boundaries first.
	var kept []string
	count := 0
	for _, sentence := range strings.Split(reply, ".") {
		n := len(strings.Fields(sentence))
		if n == 0 {
			continue
		}
		if count+n > maxReplyWords {
			break
		}
		kept = append(kept, strings.TrimSpace(sentence))
		count += n
	}
	if len(kept) > 0 {
		return strings.Join(kept, ". ") + "."
	}
	return strings.Join(words[:maxReplyWords], " ") + "..."
}
