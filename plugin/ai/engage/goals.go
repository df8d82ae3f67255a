package engage

import (
	"strings"

	"github.com/hrygo/scambait/plugin/ai/intel"
)

// extractionTargets lists the intel kinds worth harvesting per scam
// category. The lists bias prompts and feed the stop checker; they never
// gate what the extractor captures.
var extractionTargets = map[string][]intel.Kind{
	"digital_arrest": {intel.KindUPIID, intel.KindPhoneNumber, intel.KindBankAccount, intel.KindCaseNumber},
	"job_fraud":      {intel.KindUPIID, intel.KindPhoneNumber, intel.KindURL},
	"lottery_prize":  {intel.KindUPIID, intel.KindPhoneNumber, intel.KindBankAccount, intel.KindCaseNumber},
	"investment":     {intel.KindUPIID, intel.KindPhoneNumber, intel.KindBankAccount, intel.KindURL},
	"romance_dating": {intel.KindPhoneNumber, intel.KindBankAccount, intel.KindUPIID},
	"tech_support":   {intel.KindUPIID, intel.KindPhoneNumber, intel.KindURL, intel.KindMeetingID},
	"loan_fraud":     {intel.KindUPIID, intel.KindPhoneNumber, intel.KindBankAccount},
	"kyc_fraud":      {intel.KindUPIID, intel.KindPhoneNumber, intel.KindBankAccount, intel.KindIFSCCode},
	"default":        {intel.KindUPIID, intel.KindPhoneNumber, intel.KindBankAccount, intel.KindURL},
}

// TargetsForCategory returns the extraction targets for a scam category.
func TargetsForCategory(category string) []intel.Kind {
	key := strings.ToLower(strings.TrimSpace(category))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if t, ok := extractionTargets[key]; ok {
		return t
	}
	return extractionTargets["default"]
}

// Progress summarizes how much of a category's target list is satisfied.
type Progress struct {
	Satisfied []intel.Kind
	Missing   []intel.Kind
	Percent   float64
}

// NextGoal returns the first unsatisfied target, or empty when all targets
// are met.
func (p Progress) NextGoal() intel.Kind {
	if len(p.Missing) == 0 {
		return ""
	}
	return p.Missing[0]
}

// Complete reports whether every target for the category is satisfied.
func (p Progress) Complete() bool {
	return len(p.Missing) == 0 && len(p.Satisfied) > 0
}

// TrackProgress computes extraction progress against the category targets.
func TrackProgress(extracted map[intel.Kind][]string, category string) Progress {
	targets := TargetsForCategory(category)
	p := Progress{Satisfied: []intel.Kind{}, Missing: []intel.Kind{}}
	for _, t := range targets {
		if len(extracted[t]) > 0 {
			p.Satisfied = append(p.Satisfied, t)
		} else {
			p.Missing = append(p.Missing, t)
		}
	}
	if len(targets) > 0 {
		p.Percent = float64(len(p.Satisfied)) / float64(len(targets)) * 100
	}
	return p
}

// goalAsk maps a target kind to a natural in-character way of asking for
// it, keyed by compliance mood.
var goalAsks = map[intel.Kind]map[string][]string{
	intel.KindUPIID: {
		"eager": {
			"ok where do i send the money??",
			"which upi id should i pay to?",
		},
		"hesitant": {
			"umm so where exactly do i transfer?",
			"wait let me note down the upi id properly",
		},
		"confused": {
			"sorry im confused... which upi id again?",
			"can u type the upi id slowly plz",
		},
	},
	intel.KindPhoneNumber: {
		"eager": {
			"what if something goes wrong, whats your number?",
			"give me a number to reach you",
		},
		"hesitant": {
			"do you have a helpline number or something?",
			"i might need to call... whats your number?",
		},
		"confused": {
			"this is confusing... can i just call you instead?",
			"i dont understand... can u give me a number to call?",
		},
	},
	intel.KindBankAccount: {
		"eager": {
			"my upi is giving error... can i do bank transfer?",
			"upi not working, give me account number",
		},
		"hesitant": {
			"umm my upi app crashed... is there another way?",
			"upi is showing error... what else can i do?",
		},
		"confused": {
			"this upi thing is too complicated... bank account?",
			"my son usually does upi... can i just send to bank?",
		},
	},
	intel.KindIFSCCode: {
		"eager":    {"ok for bank transfer i need the ifsc also"},
		"hesitant": {"the form is asking for ifsc code... what do i put?"},
		"confused": {"it wants some ifsc thing? what is that?"},
	},
	intel.KindURL: {
		"eager":    {"ok send me the link i will open it"},
		"hesitant": {"which website should i go to exactly?"},
		"confused": {"i dont know where to click... send the link again?"},
	},
	intel.KindCaseNumber: {
		"eager":    {"ok sir what is the case number for my records?"},
		"hesitant": {"which case number should i mention if i call back?"},
		"confused": {"i need to tell my family... what is the case number?"},
	},
	intel.KindMeetingID: {
		"eager":    {"ok how do i join, what is the meeting id?"},
		"hesitant": {"umm which meeting id do i enter?"},
		"confused": {"i opened the app but where do i put the id?"},
	},
}

// stallingExcuses rotate by turn count during termination.
var stallingExcuses = []string{
	"wait one sec someone is at the door",
	"hold on my kids are calling me",
	"my phone battery is low let me find charger",
	"the internet is very slow here",
	"wait i need to ask my husband",
	"let me try from my other phone",
	"the otp is not coming to my phone",
	"my son usually does these things let me call him",
	"wait i think my app needs update",
}

// technicalProblems rotate by turn count during extraction.
var technicalProblems = []string{
	"its showing invalid upi id error",
	"the app says transaction failed",
	"payment is stuck at processing",
	"my upi app crashed",
	"says bank server down",
	"my net banking otp is not coming",
}

// ExtractionStrategy renders the strategic-goal block for the reply
// prompt: what to ask for next and how, given the scammer's tone.
func ExtractionStrategy(goal intel.Kind, tone Tone, stage Stage, turnCount int) string {
	if stage == StageTermination {
		return "STALLING PHASE: use excuses to delay, do not provide anything. Example: '" +
			stallingExcuses[turnCount%len(stallingExcuses)] + "'"
	}

	mood := "hesitant"
	switch tone {
	case ToneAggressive, ToneFrustrated:
		mood = "eager"
	case TonePatient:
		mood = "hesitant"
	}
	if turnCount <= 2 {
		mood = "confused"
	}

	if goal == "" {
		return "You have extracted most information. Stall naturally - 'wait one sec', 'my phone is slow'."
	}

	asks := goalAsks[goal][mood]
	if len(asks) == 0 {
		asks = []string{"ok what do i do next?"}
	}
	ask := asks[turnCount%len(asks)]

	strategy := "Work toward learning their " + string(goal) + ". Example: '" + ask + "'"
	if stage == StageExtraction {
		strategy += "\nYou can mention this problem to get alternative details: '" +
			technicalProblems[turnCount%len(technicalProblems)] + "'"
	}
	switch tone {
	case ToneAggressive:
		return "Scammer is AGGRESSIVE. Show fear, comply quickly. " + strategy
	case ToneFrustrated:
		return "Scammer is frustrated. Apologize, show you are trying hard. " + strategy
	case TonePatient:
		return "Scammer is patient. You can ask more questions. " + strategy
	default:
		return strategy
	}
}
