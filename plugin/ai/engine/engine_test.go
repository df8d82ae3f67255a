package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/scambait/plugin/ai"
	"github.com/hrygo/scambait/plugin/ai/report"
	"github.com/hrygo/scambait/plugin/ai/session"
)

// stubLLM answers judge calls with a fixed verdict and reply calls with
// numbered utterances so consecutive replies differ.
type stubLLM struct {
	verdict string
	replies int
	fail    bool
}

func (s *stubLLM) Provider() string { return "stub" }

func (s *stubLLM) Chat(_ context.Context, msgs []ai.Message) (string, error) {
	if s.fail {
		return "", fmt.Errorf("provider down")
	}
	for _, m := range msgs {
		if strings.Contains(m.Content, "RESPOND IN JSON") {
			return s.verdict, nil
		}
	}
	s.replies++
	return fmt.Sprintf("ok wait i am checking number %d", s.replies), nil
}

type stubNotifier struct {
	mu      sync.Mutex
	calls   int
	lastRpt report.Report
}

func (n *stubNotifier) Notify(_ context.Context, r report.Report) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.lastRpt = r
	return nil
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

const scamVerdict = `{"is_scam": true, "confidence": 0.95, "primary_category": "digital_arrest",
"reasoning": "claims CBI case and demands immediate contact",
"red_flags": ["authority impersonation", "urgency", "threat of arrest"],
"legitimacy_indicators": []}`

const cleanVerdict = `{"is_scam": false, "confidence": 0.1, "primary_category": "",
"reasoning": "routine delivery notification", "red_flags": [], "legitimacy_indicators": ["known sender"]}`

func newTestEngine(t *testing.T, llm ai.LLMService, maxTurns int) (*Engine, *stubNotifier) {
	t.Helper()
	cfg := &ai.Config{}
	cfg.Detection.SupportedLanguages = []string{"en", "hi"}
	cfg.Engage.MaxTurns = maxTurns

	notifier := &stubNotifier{}
	e, err := New(Options{Config: cfg, LLM: llm, Notifier: notifier})
	require.NoError(t, err)
	return e, notifier
}

func turn(id, text string) *TurnRequest {
	return &TurnRequest{
		SessionID: id,
		Message:   InboundMessage{Sender: "scammer", Text: text},
	}
}

func TestDigitalArrestEngagement(t *testing.T) {
	e, _ := newTestEngine(t, &stubLLM{verdict: scamVerdict}, 20)

	resp := e.HandleTurn(context.Background(),
		turn("sess-1", "CBI Officer. Money laundering case. Call 9876543210 immediately."))

	assert.Equal(t, "success", resp.Status)
	assert.True(t, resp.ScamDetected)
	assert.Equal(t, ActionEngage, resp.Action)
	require.NotNil(t, resp.Reply)
	assert.NotEmpty(t, *resp.Reply)
	assert.Contains(t, resp.ExtractedIntelligence.PhoneNumbers, "9876543210")
	assert.Equal(t, 2, resp.EngagementMetrics.TotalMessagesExchanged)
	assert.Contains(t, resp.AgentNotes, "panicked_victim")
	assert.Contains(t, resp.AgentNotes, "engagement")
}

func TestIgnoreStillCountsTurns(t *testing.T) {
	e, _ := newTestEngine(t, &stubLLM{verdict: cleanVerdict}, 20)
	ctx := context.Background()

	resp := e.HandleTurn(ctx, turn("sess-1", "your parcel is out for delivery today"))
	assert.False(t, resp.ScamDetected)
	assert.Equal(t, ActionIgnore, resp.Action)
	assert.Nil(t, resp.Reply)

	resp = e.HandleTurn(ctx, turn("sess-1", "thanks, see you then"))
	assert.Equal(t, ActionIgnore, resp.Action)
	assert.Equal(t, 4, resp.EngagementMetrics.TotalMessagesExchanged)
}

func TestMalformedRequest(t *testing.T) {
	e, _ := newTestEngine(t, &stubLLM{verdict: scamVerdict}, 20)
	ctx := context.Background()

	for _, req := range []*TurnRequest{
		nil,
		turn("", "hello"),
		turn("sess-1", ""),
		turn("sess-1", "   "),
	} {
		resp := e.HandleTurn(ctx, req)
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, ActionIgnore, resp.Action)
		assert.NotNil(t, resp.ExtractedIntelligence.PhoneNumbers)
	}

	// Malformed turns must not create session state.
	s, err := e.store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestLLMFailureStillEngagesViaFallback(t *testing.T) {
	e, _ := newTestEngine(t, &stubLLM{fail: true}, 20)

	// The keyword fallback caps confidence below every engage threshold,
	// so a down provider can never trigger engagement.
	resp := e.HandleTurn(context.Background(),
		turn("sess-1", "this is CBI, pay fine now or arrest warrant will be issued, urgent"))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, ActionIgnore, resp.Action)
}

func TestStopAtMaxTurnsReportsOnce(t *testing.T) {
	e, notifier := newTestEngine(t, &stubLLM{verdict: scamVerdict}, 3)
	ctx := context.Background()

	e.HandleTurn(ctx, turn("sess-1", "CBI case registered against you, call 9876543210"))
	e.HandleTurn(ctx, turn("sess-1", "send rs 50000 to officer@paytm now"))
	resp := e.HandleTurn(ctx, turn("sess-1", "do it fast or police will come"))

	assert.Equal(t, 1, notifier.count())
	assert.Contains(t, resp.AgentNotes, "digital arrest")

	rpt := notifier.lastRpt
	assert.Equal(t, "sess-1", rpt.SessionID)
	assert.True(t, rpt.ScamDetected)
	assert.Equal(t, 6, rpt.TotalMessagesExchanged)
	assert.Contains(t, rpt.ExtractedIntelligence.PhoneNumbers, "9876543210")
	assert.Contains(t, rpt.ExtractedIntelligence.UPIIDs, "officer@paytm")

	// A message after finalization gets a closed signal, mutates nothing
	// and never re-emits the report.
	resp = e.HandleTurn(ctx, turn("sess-1", "hello? are you there"))
	assert.Equal(t, ActionSessionEnded, resp.Action)
	assert.Nil(t, resp.Reply)
	assert.Equal(t, 6, resp.EngagementMetrics.TotalMessagesExchanged)
	assert.Equal(t, 1, notifier.count())
}

func TestConsecutiveRepliesDiffer(t *testing.T) {
	e, _ := newTestEngine(t, &stubLLM{verdict: scamVerdict}, 20)
	ctx := context.Background()

	first := e.HandleTurn(ctx, turn("sess-1", "you are under digital arrest, stay on line"))
	second := e.HandleTurn(ctx, turn("sess-1", "do not disconnect, this is serious"))
	require.NotNil(t, first.Reply)
	require.NotNil(t, second.Reply)
	assert.NotEqual(t, *first.Reply, *second.Reply)
	assert.Equal(t, ActionContinue, second.Action)
}

func TestEndSessionOverride(t *testing.T) {
	e, notifier := newTestEngine(t, &stubLLM{verdict: scamVerdict}, 20)
	ctx := context.Background()

	e.HandleTurn(ctx, turn("sess-1", "CBI officer here, money laundering case against your aadhaar"))

	rpt, err := e.EndSession(ctx, "sess-1", "operator requested shutdown")
	require.NoError(t, err)
	assert.True(t, rpt.ScamDetected)
	assert.Equal(t, "operator requested shutdown", rpt.StopReason)
	assert.Equal(t, 1, notifier.count())

	_, err = e.EndSession(ctx, "sess-1", "")
	assert.ErrorIs(t, err, session.ErrComplete)

	_, err = e.EndSession(ctx, "nope", "")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestConcurrentSameSessionNoLostTurns(t *testing.T) {
	e, _ := newTestEngine(t, &stubLLM{verdict: cleanVerdict}, 100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.HandleTurn(ctx, turn("sess-1", fmt.Sprintf("message number %d", i)))
		}(i)
	}
	wg.Wait()

	s, err := e.store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 10, s.TurnCount)
}
