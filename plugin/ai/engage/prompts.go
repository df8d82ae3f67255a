package engage

import (
	"fmt"
	"strings"

	"github.com/hrygo/scambait/plugin/ai"
	"github.com/hrygo/scambait/plugin/ai/intel"
)

// historyWindow is how many recent messages go into the reply prompt,
// five exchanges either way.
const historyWindow = 10

const replySystemPrompt = "You are playing a real person in a chat. Never reveal you are an AI, " +
	"a bot, or part of any investigation. Stay fully in character."

func buildReplyPrompt(req ReplyRequest, tone Tone) string {
	brief := stageBriefs[req.Stage]
	goal := TrackProgress(req.Intel, req.Category).NextGoal()
	strategy := ExtractionStrategy(goal, tone, req.Stage, req.TurnCount)

	var b strings.Builder
	b.WriteString("You are a REAL PERSON (not AI/bot) being contacted by someone suspicious.\n")
	b.WriteString("REACT NATURALLY to what they just said. Don't be generic.\n\n")

	b.WriteString("=== YOUR CHARACTER ===\n")
	fmt.Fprintf(&b, "%s\n", req.Persona.Character)
	fmt.Fprintf(&b, "Fear level: %s\n", req.Persona.FearLevel)
	fmt.Fprintf(&b, "Tech skills: %s\n", req.Persona.TechSavviness)
	fmt.Fprintf(&b, "Compliance: %s\n", req.Persona.Compliance)
	fmt.Fprintf(&b, "Reaction style: %s\n\n", req.Persona.Style)

	b.WriteString("=== WHAT'S HAPPENING ===\n")
	fmt.Fprintf(&b, "Someone is contacting you about: %s\n", scamContext(req))
	fmt.Fprintf(&b, "Conversation phase: %s - %s\n", req.Stage, brief.behavior)
	fmt.Fprintf(&b, "Phase goal: %s\n\n", brief.goal)

	b.WriteString("=== RECENT CONVERSATION ===\n")
	b.WriteString(formatHistory(req.History))
	b.WriteString("\n\n=== WHAT THEY JUST SAID ===\n")
	fmt.Fprintf(&b, "%q\n", truncateRunes(req.LatestMessage, 300))
	fmt.Fprintf(&b, "Analysis: %s\n\n", SummarizeExchange(req.LatestMessage))

	b.WriteString("=== YOUR STRATEGIC GOAL (be subtle!) ===\n")
	b.WriteString(strategy)
	b.WriteString("\n\n=== HOW TO RESPOND ===\n")
	b.WriteString("1. REACT to what they JUST SAID - acknowledge their message.\n")
	b.WriteString("2. If they gave payment info - say you will try, or ask for clarification.\n")
	b.WriteString("3. If they're threatening - show fear but ask questions.\n")
	b.WriteString("4. If they're offering something - show interest and ask for details.\n")
	b.WriteString("5. Don't repeat your earlier replies word for word.\n\n")

	b.WriteString("=== RESPOND NOW ===\n")
	b.WriteString("Write a natural response (5-30 words). No quotation marks. Just your reply:")
	return b.String()
}

func scamContext(req ReplyRequest) string {
	var parts []string
	if req.Reasoning != "" {
		parts = append(parts, truncateRunes(req.Reasoning, 100))
	}
	if req.Category != "" && req.Category != "default" {
		parts = append(parts, "Appears to be: "+req.Category)
	}
	if len(req.RedFlags) > 0 {
		flags := req.RedFlags
		if len(flags) > 3 {
			flags = flags[:3]
		}
		parts = append(parts, "Red flags: "+strings.Join(flags, ", "))
	}
	if len(parts) == 0 {
		return "Suspicious contact - someone trying to get money or information from you"
	}
	return strings.Join(parts, " | ")
}

func formatHistory(history []ai.Message) string {
	if len(history) == 0 {
		return "(This is the start of the conversation)"
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	lines := make([]string, 0, len(history))
	for _, m := range history {
		who := "THEM"
		if m.Role == "assistant" {
			who = "YOU"
		}
		lines = append(lines, who+": "+truncateRunes(m.Content, 200))
	}
	return strings.Join(lines, "\n")
}

// intelSnapshot summarizes what has been harvested, for logging and agent
// notes.
func intelSnapshot(extracted map[intel.Kind][]string) string {
	var parts []string
	for _, k := range intel.Kinds() {
		if n := len(extracted[k]); n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", k, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
