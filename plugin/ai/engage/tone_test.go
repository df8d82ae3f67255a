package engage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeTone(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Tone
	}{
		{"aggressive threats", "Pay immediately or police will arrest you right now", ToneAggressive},
		{"shouting", "SEND THE MONEY TO THIS ACCOUNT TODAY", ToneAggressive},
		{"exclamations", "Last chance!! Do it now!!", ToneAggressive},
		{"patient", "Please take your time, I will guide you kindly through the steps", TonePatient},
		{"frustrated", "I told you already, how many times do I repeat? Listen carefully", ToneFrustrated},
		{"neutral", "The verification takes two minutes", ToneNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeTone(tt.message))
		})
	}
}

func TestDetectors(t *testing.T) {
	assert.True(t, DetectThreat("we will freeze your account and file an FIR"))
	assert.False(t, DetectThreat("good morning, how are you"))

	assert.True(t, DetectUrgency("do this immediately, final notice"))
	assert.False(t, DetectUrgency("whenever convenient"))

	assert.True(t, DetectPaymentRequest("send 5000 to my paytm"))
	assert.False(t, DetectPaymentRequest("nice weather today"))
}

func TestSummarizeExchange(t *testing.T) {
	s := SummarizeExchange("Pay the fine NOW or go to jail!!")
	assert.Contains(t, s, "threats")
	assert.Contains(t, s, "urgency")

	s = SummarizeExchange("hello")
	assert.Equal(t, "Scammer is continuing the conversation.", s)
}
