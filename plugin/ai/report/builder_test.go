package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/scambait/plugin/ai/engage"
	"github.com/hrygo/scambait/plugin/ai/intel"
	"github.com/hrygo/scambait/plugin/ai/language"
	"github.com/hrygo/scambait/plugin/ai/session"
)

func TestIntelligenceAlwaysHasAllKeys(t *testing.T) {
	out := IntelligenceFromKinds(nil)
	data, err := json.Marshal(out)
	require.NoError(t, err)

	var m map[string][]string
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{
		"phoneNumbers", "bankAccounts", "upiIds", "phishingLinks",
		"suspiciousKeywords", "ifscCodes", "caseNumbers",
		"videoCallPlatforms", "impersonatedAuthorities", "meetingIds",
	} {
		v, ok := m[key]
		assert.True(t, ok, "missing key %s", key)
		assert.NotNil(t, v, "key %s must be an array, not null", key)
	}
}

func detectedSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New("sess-report")
	for i := 0; i < 6; i++ {
		s.NextTurn()
	}
	s.MarkDetected(language.ModeNormal, "en", "digital_arrest", 0.92,
		[]string{"authority impersonation", "urgency", "payment demand", "isolation"},
		"claims a CBI case and demands money", engage.DefaultStageConfig())
	s.MergeIntel(intel.Result{
		intel.KindPhoneNumber: {"9876543210"},
		intel.KindUPIID:       {"officer@paytm"},
	})
	return s
}

func TestBuildReport(t *testing.T) {
	s := detectedSession(t)
	s.Complete()

	r := Build(s, "extraction goals satisfied")
	assert.NotEmpty(t, r.ReportID)
	assert.Equal(t, "sess-report", r.SessionID)
	assert.True(t, r.ScamDetected)
	assert.Equal(t, 12, r.TotalMessagesExchanged)
	assert.Equal(t, []string{"9876543210"}, r.ExtractedIntelligence.PhoneNumbers)
	assert.Equal(t, []string{"officer@paytm"}, r.ExtractedIntelligence.UPIIDs)
	assert.Equal(t, 2, r.ExtractedIntelligence.Count())
	assert.Equal(t, "panicked_victim", r.PersonaUsed)
	assert.Contains(t, r.AgentNotes, "digital arrest")
	assert.Contains(t, r.AgentNotes, "6 turns")
	assert.Contains(t, r.AgentNotes, "extraction goals satisfied")
}

func TestBuildReportNoScam(t *testing.T) {
	s := session.New("sess-clean")
	s.NextTurn()
	s.Complete()

	r := Build(s, "")
	assert.False(t, r.ScamDetected)
	assert.Equal(t, 2, r.TotalMessagesExchanged)
	assert.Contains(t, r.AgentNotes, "no scam detected")
	assert.Equal(t, 0, r.ExtractedIntelligence.Count())
}

func TestCallbackNotifierPosts(t *testing.T) {
	var got Report
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotKey = req.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := detectedSession(t)
	s.Complete()
	r := Build(s, "max turns reached")

	n := NewCallbackNotifier(srv.URL, "secret-key")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, n.Notify(ctx, r))

	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "sess-report", got.SessionID)
	assert.True(t, got.ScamDetected)
	assert.Equal(t, []string{"officer@paytm"}, got.ExtractedIntelligence.UPIIDs)
}

func TestCallbackNotifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewCallbackNotifier(srv.URL, "")
	err := n.Notify(context.Background(), Report{SessionID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCallbackNotifierNoURLIsNoop(t *testing.T) {
	n := NewCallbackNotifier("", "")
	assert.NoError(t, n.Notify(context.Background(), Report{SessionID: "x"}))
}
