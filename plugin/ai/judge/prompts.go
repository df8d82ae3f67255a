package judge

import "fmt"

func buildNormalModePrompt(messageText, evidenceContext string) string {
	return fmt.Sprintf(`INCOMING MESSAGE:
"%s"

%s

ANALYSIS FRAMEWORK:
1. Pattern Matching: Does it match known scam patterns from the knowledge base?
2. Legitimacy Indicators: Official domains, toll-free numbers, transaction IDs?
3. Scam Indicators: Threats, urgency, fake domains, personal contacts?
4. Context: Could there be a legitimate explanation?

RESPOND IN JSON:
{
  "is_scam": true/false,
  "confidence": 0.0-1.0,
  "primary_category": "category_name" or null,
  "reasoning": "2-3 sentence explanation",
  "matched_patterns": ["pattern1", "pattern2"],
  "red_flags": ["flag1", "flag2"],
  "legitimacy_indicators": ["indicator1"] or []
}

Be thorough but concise. Focus on evidence from the knowledge base matches.`, messageText, evidenceContext)
}

// The strict-mode prompt carries no knowledge-base context because the
// pattern corpus does not cover this language. It demands multiple
// independent indicators and prefers missing a scam over a false accusal.
func buildStrictModePrompt(messageText, lang string) string {
	return fmt.Sprintf(`INCOMING MESSAGE (language: %s):
"%s"

No knowledge-base context is available for this language, so judge the
message on its own content with extra caution.

STRICT CRITERIA:
1. Require MULTIPLE independent scam indicators (threats, urgency, payment
   demands, authority impersonation, credential requests).
2. A single suspicious element is NOT enough to classify as scam.
3. When uncertain, prefer classifying as NOT a scam (false negatives are
   acceptable, false positives are not).

RESPOND IN JSON:
{
  "is_scam": true/false,
  "confidence": 0.0-1.0,
  "primary_category": "category_name" or null,
  "reasoning": "2-3 sentence explanation",
  "matched_patterns": [],
  "red_flags": ["flag1", "flag2"],
  "legitimacy_indicators": ["indicator1"] or []
}

List every independent red flag you see; the count matters.`, lang, messageText)
}
