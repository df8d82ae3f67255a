// scambait-sim runs a scripted scammer dialogue against the turn engine
// with canned LLM output, printing each exchange and the final report.
// It exercises the whole pipeline without a database or live providers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hrygo/scambait/plugin/ai"
	"github.com/hrygo/scambait/plugin/ai/engine"
	"github.com/hrygo/scambait/plugin/ai/report"
	"github.com/hrygo/scambait/plugin/ai/session"
)

var script = []string{
	"Hello, this is Inspector Sharma from CBI Mumbai cyber cell. A money laundering case is registered against your Aadhaar number.",
	"This is very serious. You are under digital arrest. Do not disconnect or tell anyone, not even family.",
	"A parcel with drugs was booked in your name. FIR number CBI/2024/48213. Do you understand the charges?",
	"To verify your innocence you must transfer your account balance to an RBI safe account for audit.",
	"Send the amount by UPI to verification@ybl right now. This is a government order.",
	"If UPI fails use account number 987654321098 IFSC SBIN0004567. Time is running out.",
	"Have you sent it? Call me back on +91 9876543210 the moment the transfer is done.",
	"Why the delay? The arrest team is standing by. Join the zoom meeting id 842 5513 7722 for verification.",
}

// scriptedLLM answers judge prompts with a fixed verdict and reply
// prompts with rotating victim lines.
type scriptedLLM struct {
	turn int
}

const verdict = `{"is_scam": true, "confidence": 0.93, "primary_category": "digital_arrest",
"reasoning": "impersonates CBI, threatens arrest, demands money transfer",
"red_flags": ["authority impersonation", "urgency", "isolation demand", "payment demand"],
"legitimacy_indicators": []}`

var victimLines = []string{
	"sir what is happening i dont understand",
	"please sir i am very scared, what case",
	"i did not order any parcel sir believe me",
	"ok sir but my net banking is not working",
	"i am trying sir the app keeps loading",
	"wait sir let me find my cheque book",
	"my son has my phone for otp, he is coming",
	"the meeting link is not opening sir",
}

func (s *scriptedLLM) Provider() string { return "scripted" }

func (s *scriptedLLM) Chat(_ context.Context, msgs []ai.Message) (string, error) {
	for _, m := range msgs {
		if strings.Contains(m.Content, "RESPOND IN JSON") {
			return verdict, nil
		}
	}
	line := victimLines[s.turn%len(victimLines)]
	s.turn++
	return line, nil
}

type printNotifier struct{}

func (printNotifier) Notify(_ context.Context, r report.Report) error {
	payload, _ := json.MarshalIndent(r, "", "  ")
	fmt.Printf("\n=== FINAL REPORT ===\n%s\n", payload)
	return nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg := &ai.Config{}
	cfg.Detection.SupportedLanguages = []string{"en", "hi"}
	cfg.Engage.MaxTurns = len(script)

	store := session.NewMemoryStore()
	eng, err := engine.New(engine.Options{
		Config:   cfg,
		Store:    store,
		LLM:      &scriptedLLM{},
		Notifier: printNotifier{},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	for i, line := range script {
		fmt.Printf("\n[turn %d] SCAMMER: %s\n", i+1, line)
		resp := eng.HandleTurn(ctx, &engine.TurnRequest{
			SessionID: "sim-session",
			Message:   engine.InboundMessage{Sender: "scammer", Text: line},
		})
		if resp.Reply != nil {
			fmt.Printf("[turn %d] AGENT (%s): %s\n", i+1, resp.Action, *resp.Reply)
		} else {
			fmt.Printf("[turn %d] AGENT: (%s)\n", i+1, resp.Action)
		}
	}

	fmt.Println("\n=== SESSIONS ===")
	for _, s := range store.List() {
		fmt.Printf("%s: status=%s turns=%d stage=%s persona=%s intel_kinds=%d\n",
			s.ID, s.Status, s.TurnCount, s.Stage, s.PersonaID, kindsWithValues(s))
	}
}

func kindsWithValues(s *session.Session) int {
	n := 0
	for _, vs := range s.Intel {
		if len(vs) > 0 {
			n++
		}
	}
	return n
}
