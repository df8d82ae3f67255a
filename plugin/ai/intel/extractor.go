// Package intel extracts identifying data from scammer messages using
// pattern matching. Extraction is pure and per-message; the session layer
// merges results across turns.
package intel

import (
	"regexp"
	"strings"
)

// Kind is a category of identifying data.
type Kind string

const (
	KindPhoneNumber           Kind = "phone_number"
	KindUPIID                 Kind = "upi_id"
	KindBankAccount           Kind = "bank_account"
	KindURL                   Kind = "url"
	KindIFSCCode              Kind = "ifsc_code"
	KindCaseNumber            Kind = "case_number"
	KindKeyword               Kind = "keyword"
	KindVideoPlatform         Kind = "video_platform"
	KindImpersonatedAuthority Kind = "impersonated_authority"
	KindMeetingID             Kind = "meeting_id"
)

// Kinds returns every extraction kind in a fixed order.
func Kinds() []Kind {
	return []Kind{
		KindPhoneNumber,
		KindUPIID,
		KindBankAccount,
		KindURL,
		KindIFSCCode,
		KindCaseNumber,
		KindKeyword,
		KindVideoPlatform,
		KindImpersonatedAuthority,
		KindMeetingID,
	}
}

// Result maps each kind to the unique values found, in order of first
// appearance. Every kind is present; unmatched kinds carry an empty slice.
type Result map[Kind][]string

// NewResult returns a Result with every kind initialized to an empty slice.
func NewResult() Result {
	r := make(Result, len(Kinds()))
	for _, k := range Kinds() {
		r[k] = []string{}
	}
	return r
}

var (
	prefixedPhoneRe = regexp.MustCompile(`\+91[-\s]?[6-9][0-9]{9}`)
	digitRunRe      = regexp.MustCompile(`[0-9]{9,18}`)
	upiRe           = regexp.MustCompile(`[0-9A-Za-z._\-]+@[A-Za-z]{2,}`)
	urlRe           = regexp.MustCompile(`https?://\S+|www\.\S+|[a-zA-Z0-9\-]+(?:\.[a-zA-Z0-9\-]+)*\.[a-zA-Z]{2,}(?:/\S*)?`)
	ifscRe          = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)
	caseRe          = regexp.MustCompile(`(?i)\b(?:case|fir|ref|complaint)(?:\s+(?:no|number|id))?[\s:.#]*([A-Za-z0-9/\-]+)`)
	meetingRe       = regexp.MustCompile(`(?i)\bmeeting\s*id[\s:]*([0-9][0-9\s\-]*)`)
)

// keywordPattern pairs the canonical keyword with its match expression.
// Short acronyms are matched case-sensitively so that "needed" does not
// count as "ED".
type keywordPattern struct {
	canonical string
	re        *regexp.Regexp
}

var keywordVocabulary = []keywordPattern{
	{"urgent", regexp.MustCompile(`(?i)\burgent(?:ly)?\b`)},
	{"arrest", regexp.MustCompile(`(?i)\barrest(?:ed|ing)?\b`)},
	{"police", regexp.MustCompile(`(?i)\bpolice\b`)},
	{"CBI", regexp.MustCompile(`\bCBI\b`)},
	{"ED", regexp.MustCompile(`\bED\b`)},
	{"NCB", regexp.MustCompile(`\bNCB\b`)},
	{"income tax", regexp.MustCompile(`(?i)\bincome\s+tax\b`)},
	{"money laundering", regexp.MustCompile(`(?i)\bmoney\s+launder(?:ing|er)?\b`)},
	{"investigation", regexp.MustCompile(`(?i)\binvestigat(?:ion|ing|or)\b`)},
	{"video call", regexp.MustCompile(`(?i)\bvideo\s+call\b`)},
	{"payment", regexp.MustCompile(`(?i)\bpay(?:ment|ments)?\b`)},
	{"UPI", regexp.MustCompile(`\bUPI\b`)},
	{"bank", regexp.MustCompile(`(?i)\bbank(?:ing)?\b`)},
	{"account", regexp.MustCompile(`(?i)\baccount\b`)},
	{"KYC", regexp.MustCompile(`\bKYC\b`)},
	{"OTP", regexp.MustCompile(`\bOTP\b`)},
	{"CVV", regexp.MustCompile(`\bCVV\b`)},
	{"expired", regexp.MustCompile(`(?i)\bexpired?\b`)},
	{"blocked", regexp.MustCompile(`(?i)\bblock(?:ed)?\b`)},
	{"verify", regexp.MustCompile(`(?i)\bverif(?:y|ied|ication)\b`)},
	{"suspended", regexp.MustCompile(`(?i)\bsuspend(?:ed)?\b`)},
	{"lottery", regexp.MustCompile(`(?i)\blottery\b`)},
	{"prize", regexp.MustCompile(`(?i)\bprize\b`)},
	{"refund", regexp.MustCompile(`(?i)\brefund\b`)},
	{"processing fee", regexp.MustCompile(`(?i)\bprocessing\s+fee\b`)},
	{"fine", regexp.MustCompile(`(?i)\bfine\b`)},
	{"legal action", regexp.MustCompile(`(?i)\blegal\s+action\b`)},
}

var videoPlatformPatterns = []keywordPattern{
	{"Zoom", regexp.MustCompile(`(?i)\bzoom\b`)},
	{"WhatsApp", regexp.MustCompile(`(?i)\bwhatsapp\b`)},
	{"Google Meet", regexp.MustCompile(`(?i)\bgoogle\s+meet\b`)},
	{"Microsoft Teams", regexp.MustCompile(`(?i)\bteams\b`)},
	{"Skype", regexp.MustCompile(`(?i)\bskype\b`)},
}

var authorityPatterns = []keywordPattern{
	{"CBI", regexp.MustCompile(`\bCBI\b`)},
	{"Enforcement Directorate", regexp.MustCompile(`\bED\b|(?i)\benforcement\s+directorate\b`)},
	{"Income Tax Department", regexp.MustCompile(`(?i)\bincome\s+tax\b`)},
	{"Police", regexp.MustCompile(`(?i)\bpolice\b`)},
	{"NCB", regexp.MustCompile(`\bNCB\b`)},
	{"RBI", regexp.MustCompile(`\bRBI\b`)},
	{"TRAI", regexp.MustCompile(`\bTRAI\b`)},
	{"Customs", regexp.MustCompile(`(?i)\bcustoms\b`)},
}

// Extractor extracts intelligence from raw message text.
type Extractor struct{}

// NewExtractor creates an Extractor. All patterns are package-level compiled
// so the zero value is usable too.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns every match found in text, grouped by kind and
// deduplicated within this call. It never returns nil slices and never
// fails on noisy input.
func (x *Extractor) Extract(text string) Result {
	r := NewResult()
	if strings.TrimSpace(text) == "" {
		return r
	}

	phones, banks := extractNumbers(text)
	r[KindPhoneNumber] = phones
	r[KindBankAccount] = banks
	r[KindUPIID] = extractUPIIDs(text)
	r[KindURL] = extractURLs(text)
	r[KindIFSCCode] = dedup(ifscRe.FindAllString(text, -1))
	r[KindCaseNumber] = extractCaseNumbers(text)
	r[KindMeetingID] = extractMeetingIDs(text)
	r[KindKeyword] = matchVocabulary(keywordVocabulary, text)
	r[KindVideoPlatform] = matchVocabulary(videoPlatformPatterns, text)
	r[KindImpersonatedAuthority] = matchVocabulary(authorityPatterns, text)
	return r
}

// KeywordHits returns the suspicious keywords present in text. The judge's
// degraded verdict reuses the same vocabulary as extraction.
func (x *Extractor) KeywordHits(text string) []string {
	return matchVocabulary(keywordVocabulary, text)
}

// extractNumbers splits digit runs into phone numbers and bank accounts.
// A bare 10-digit run with a 6-9 lead is an Indian mobile number; any other
// run of 9 to 18 digits is treated as an account number.
func extractNumbers(text string) (phones, banks []string) {
	phones = []string{}
	banks = []string{}

	type span struct{ start, end int }
	var claimed []span
	overlap := func(start, end int) bool {
		for _, s := range claimed {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}

	seenPhone := map[string]bool{}
	addPhone := func(v string) {
		if !seenPhone[v] {
			seenPhone[v] = true
			phones = append(phones, v)
		}
	}

	for _, loc := range prefixedPhoneRe.FindAllStringIndex(text, -1) {
		claimed = append(claimed, span{loc[0], loc[1]})
		addPhone(text[loc[0]:loc[1]])
	}

	seenBank := map[string]bool{}
	for _, loc := range digitRunRe.FindAllStringIndex(text, -1) {
		if overlap(loc[0], loc[1]) {
			continue
		}
		// Skip runs embedded in a longer digit sequence.
		if loc[0] > 0 && isDigit(text[loc[0]-1]) {
			continue
		}
		if loc[1] < len(text) && isDigit(text[loc[1]]) {
			continue
		}
		v := text[loc[0]:loc[1]]
		if len(v) == 10 && v[0] >= '6' && v[0] <= '9' {
			addPhone(v)
			continue
		}
		if !seenBank[v] {
			seenBank[v] = true
			banks = append(banks, v)
		}
	}
	return phones, banks
}

// extractUPIIDs matches local@handle identifiers. UPI handles are short
// alphabetic tokens with no dot, which separates them from email addresses.
func extractUPIIDs(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, loc := range upiRe.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && text[loc[0]-1] == '@' {
			continue
		}
		if loc[1] < len(text) {
			next := text[loc[1]]
			if next == '.' || next == '@' || isWordByte(next) {
				continue
			}
		}
		v := text[loc[0]:loc[1]]
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func extractURLs(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, loc := range urlRe.FindAllStringIndex(text, -1) {
		// A bare domain directly after '@' is an email or UPI host.
		if loc[0] > 0 && text[loc[0]-1] == '@' {
			continue
		}
		v := strings.TrimRight(text[loc[0]:loc[1]], ".,;:!?)")
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func extractCaseNumbers(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, m := range caseRe.FindAllStringSubmatch(text, -1) {
		v := strings.TrimRight(m[1], "/-")
		// A reference without digits is just prose ("case against you").
		if !containsDigit(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func extractMeetingIDs(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, m := range meetingRe.FindAllStringSubmatch(text, -1) {
		v := strings.TrimSpace(strings.TrimRight(m[1], " -"))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func matchVocabulary(vocab []keywordPattern, text string) []string {
	out := []string{}
	for _, kp := range vocab {
		if kp.re.MatchString(text) {
			out = append(out, kp.canonical)
		}
	}
	return out
}

func dedup(values []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || isDigit(b) ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
