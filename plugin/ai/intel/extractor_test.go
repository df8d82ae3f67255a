package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAllKindsAlwaysPresent(t *testing.T) {
	x := NewExtractor()
	r := x.Extract("hello there")

	require.Len(t, r, len(Kinds()))
	for _, k := range Kinds() {
		v, ok := r[k]
		assert.True(t, ok, "kind %s missing", k)
		assert.NotNil(t, v, "kind %s is nil", k)
	}
}

func TestExtractPhoneNumbers(t *testing.T) {
	x := NewExtractor()

	tests := []struct {
		name   string
		text   string
		phones []string
		banks  []string
	}{
		{
			name:   "bare mobile",
			text:   "Call 9876543210 immediately.",
			phones: []string{"9876543210"},
			banks:  []string{},
		},
		{
			name:   "country code prefix",
			text:   "contact +91-9876543210 now",
			phones: []string{"+91-9876543210"},
			banks:  []string{},
		},
		{
			name:   "long run is a bank account",
			text:   "transfer to 123456789012",
			phones: []string{},
			banks:  []string{"123456789012"},
		},
		{
			name:   "ten digits with low lead is a bank account",
			text:   "account 1234567890",
			phones: []string{},
			banks:  []string{"1234567890"},
		},
		{
			name:   "duplicate phone counted once",
			text:   "9876543210 or 9876543210",
			phones: []string{"9876543210"},
			banks:  []string{},
		},
		{
			name:   "phone and account side by side",
			text:   "call 9876543210, pay into 987654321098765",
			phones: []string{"9876543210"},
			banks:  []string{"987654321098765"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := x.Extract(tt.text)
			assert.Equal(t, tt.phones, r[KindPhoneNumber])
			assert.Equal(t, tt.banks, r[KindBankAccount])
		})
	}
}

func TestExtractUPIIDs(t *testing.T) {
	x := NewExtractor()

	r := x.Extract("send money to victim123@paytm right now")
	assert.Equal(t, []string{"victim123@paytm"}, r[KindUPIID])

	// Email addresses have a dotted domain and are not UPI handles.
	r = x.Extract("write to support@gmail.com")
	assert.Empty(t, r[KindUPIID])

	r = x.Extract("pay scammer@okaxis or scammer@okaxis")
	assert.Equal(t, []string{"scammer@okaxis"}, r[KindUPIID])
}

func TestExtractURLs(t *testing.T) {
	x := NewExtractor()

	r := x.Extract("click https://kyc-update.fake/verify or www.fake-bank.in now")
	assert.Contains(t, r[KindURL], "https://kyc-update.fake/verify")
	assert.Contains(t, r[KindURL], "www.fake-bank.in")

	r = x.Extract("visit secure-pay.xyz.")
	assert.Equal(t, []string{"secure-pay.xyz"}, r[KindURL], "trailing punctuation is trimmed")
}

func TestExtractIFSCAndCaseNumbers(t *testing.T) {
	x := NewExtractor()

	r := x.Extract("IFSC SBIN0001234, Case No: CBI/2024/1234")
	assert.Equal(t, []string{"SBIN0001234"}, r[KindIFSCCode])
	assert.Equal(t, []string{"CBI/2024/1234"}, r[KindCaseNumber])

	// Prose after a case keyword has no digits and is not a reference.
	r = x.Extract("there is a case against you")
	assert.Empty(t, r[KindCaseNumber])
}

func TestExtractMeetingIDs(t *testing.T) {
	x := NewExtractor()

	r := x.Extract("Join Zoom, Meeting ID: 123-456-7890")
	assert.Equal(t, []string{"123-456-7890"}, r[KindMeetingID])
	assert.Equal(t, []string{"Zoom"}, r[KindVideoPlatform])
}

func TestExtractKeywordsAndAuthorities(t *testing.T) {
	x := NewExtractor()

	r := x.Extract("CBI Officer. Money laundering case. Verify your KYC urgently!")
	assert.Contains(t, r[KindKeyword], "CBI")
	assert.Contains(t, r[KindKeyword], "money laundering")
	assert.Contains(t, r[KindKeyword], "KYC")
	assert.Contains(t, r[KindKeyword], "urgent")
	assert.Contains(t, r[KindImpersonatedAuthority], "CBI")

	// Lowercase "needed" must not count as the ED acronym.
	r = x.Extract("your help is needed")
	assert.NotContains(t, r[KindKeyword], "ED")
	assert.NotContains(t, r[KindImpersonatedAuthority], "Enforcement Directorate")
}

func TestExtractNoisyText(t *testing.T) {
	x := NewExtractor()

	r := x.Extract("🚨🚨 अभी कॉल करें 9876543210 😱 Zoom पर आओ")
	assert.Equal(t, []string{"9876543210"}, r[KindPhoneNumber])
	assert.Equal(t, []string{"Zoom"}, r[KindVideoPlatform])
}

func TestKeywordHits(t *testing.T) {
	x := NewExtractor()

	hits := x.KeywordHits("Pay the fine or face arrest, this is urgent")
	assert.ElementsMatch(t, []string{"urgent", "arrest", "payment", "fine"}, hits)
}
