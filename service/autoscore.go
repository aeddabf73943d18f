package service

import (
	"math"
	"strings"

	"github.com/joshuadevelopsgames/LECRM-dev/model"
)

// ScoreResult is the transient outcome of scoring one account against a
// template. The batch orchestrator turns it into a persisted
// ScorecardResponse.
type ScoreResult struct {
	TotalScore      float64                  `json:"total_score"`
	NormalizedScore int                      `json:"normalized_score"`
	Responses       []model.QuestionResponse `json:"responses"`
	SectionScores   map[string]float64       `json:"section_scores"`
	IsPass          bool                     `json:"is_pass"`
}

// accountFacts are the derived values the question rules read.
type accountFacts struct {
	account       *model.Account
	estimates     []*model.Estimate
	totalRevenue  float64
	jobsitesCount int
}

// scoreRule pairs a question-text predicate with a responder. Rules are
// evaluated in order and the first match wins, so a question mentioning
// both "winter maintenance" and e.g. "snow contract" is answered by
// whichever rule appears first. Do not reorder.
type scoreRule struct {
	matches func(question string) bool
	answer  func(f *accountFacts) (int, string)
}

// anyOf reports whether the question contains any of the given phrases.
func anyOf(phrases ...string) func(string) bool {
	return func(question string) bool {
		for _, p := range phrases {
			if strings.Contains(question, p) {
				return true
			}
		}
		return false
	}
}

// inServiceRegion checks the account address against the Calgary &
// Surrounding service area.
func inServiceRegion(account *model.Account) bool {
	city := strings.ToLower(account.City)
	state := strings.ToLower(account.State)
	address := strings.ToLower(account.Address1)

	return strings.Contains(city, "calgary") ||
		strings.Contains(state, "ab") ||
		strings.Contains(state, "alberta") ||
		strings.Contains(address, "calgary")
}

// anyProjectContains reports whether any estimate's project name
// contains one of the keywords.
func anyProjectContains(estimates []*model.Estimate, keywords ...string) bool {
	for _, est := range estimates {
		name := strings.ToLower(est.ProjectName)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
	}
	return false
}

func yesNo(yes bool) (int, string) {
	if yes {
		return 1, "Yes"
	}
	return 0, "No"
}

// scoreRules maps known question phrasings to answers derived from
// account facts. This is a fixed phrase table, not semantic matching;
// the order encodes precedence between overlapping phrases (e.g.
// "summer maintenance" before "winter", "building quality" before
// "buildings and properties size" is irrelevant but "relationship"
// alone must come after "decision maker").
var scoreRules = []scoreRule{
	{
		matches: anyOf("client operations region", "operations region"),
		answer: func(f *accountFacts) (int, string) {
			if inServiceRegion(f.account) {
				return 2, "Calgary/Surrounding"
			}
			return 0, "Other"
		},
	},
	{
		matches: anyOf("can someone introduce us", "introduction"),
		answer: func(f *accountFacts) (int, string) {
			// Relationship data not available from the exports
			return yesNo(false)
		},
	},
	{
		matches: anyOf("has corporate events", "corporate events"),
		answer: func(f *accountFacts) (int, string) {
			tags := strings.ToLower(strings.Join(f.account.Tags, " "))
			notes := strings.ToLower(f.account.Notes)
			return yesNo(strings.Contains(tags, "event") || strings.Contains(notes, "event"))
		},
	},
	{
		matches: anyOf("inside our bubble", "bubble"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(false)
		},
	},
	{
		matches: anyOf("located in service area", "calgary & surrounding", "service area"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(inServiceRegion(f.account))
		},
	},
	{
		matches: anyOf("annual budget", "budget"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(f.totalRevenue > 0 && f.totalRevenue < 200000)
		},
	},
	{
		matches: anyOf("multiple properties"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(f.jobsitesCount > 1)
		},
	},
	{
		matches: anyOf("sites between 2-24 acres", "2-24 acres"),
		answer: func(f *accountFacts) (int, string) {
			// No acreage in the exports; any jobsite counts as valid
			return yesNo(f.jobsitesCount > 0)
		},
	},
	{
		matches: anyOf("close to existing properties", "close to existing"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(false)
		},
	},
	{
		matches: anyOf("summer maintenance"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(anyProjectContains(f.estimates, "summer", "maintenance"))
		},
	},
	{
		matches: anyOf("winter maintenance", "winter"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(anyProjectContains(f.estimates, "winter", "snow"))
		},
	},
	{
		matches: anyOf("3-year snow contract", "3 year"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(false)
		},
	},
	{
		matches: anyOf("uses summer landscape maintenance", "summer landscape"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(anyProjectContains(f.estimates, "summer", "landscape"))
		},
	},
	{
		matches: anyOf("decision maker identified", "decision maker"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(false)
		},
	},
	{
		matches: anyOf("relationship opportunity", "relationship"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(false)
		},
	},
	{
		matches: anyOf("procurement via rfp", "rfp"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(false)
		},
	},
	{
		matches: anyOf("building quality"),
		answer: func(f *accountFacts) (int, string) {
			return 1, "Good"
		},
	},
	{
		matches: anyOf("aesthetics"),
		answer: func(f *accountFacts) (int, string) {
			return 1, "Good"
		},
	},
	{
		matches: anyOf("buildings and properties size", "properties size"),
		answer: func(f *accountFacts) (int, string) {
			switch {
			case f.jobsitesCount >= 2:
				return 5, "Large"
			case f.jobsitesCount == 1:
				return 3, "Medium"
			default:
				return 1, "Small"
			}
		},
	},
	{
		matches: anyOf("exceeds 15% of revenue"),
		answer: func(f *accountFacts) (int, string) {
			return yesNo(false)
		},
	},
	{
		matches: anyOf("industry"),
		answer: func(f *accountFacts) (int, string) {
			accountType := strings.ToLower(f.account.AccountType)
			if strings.Contains(accountType, "retail") || strings.Contains(accountType, "industrial") {
				return 4, "Retail, Industrial"
			}
			return 0, "Other"
		},
	},
}

// AutoScoreAccount scores an account against a scorecard template by
// mapping each question's text onto facts from the account's estimates
// and jobsites. Returns nil when the template has no questions. Calling
// it twice with the same inputs produces identical output.
func AutoScoreAccount(account *model.Account, estimates []*model.Estimate, jobsites []*model.Jobsite, template *model.ScorecardTemplate) *ScoreResult {
	if template == nil || len(template.Questions) == 0 {
		return nil
	}

	var totalRevenue float64
	for _, est := range estimates {
		if est.Status == model.EstimateStatusWon {
			totalRevenue += estimateRevenue(est)
		}
	}

	facts := &accountFacts{
		account:       account,
		estimates:     estimates,
		totalRevenue:  totalRevenue,
		jobsitesCount: len(jobsites),
	}

	responses := make([]model.QuestionResponse, 0, len(template.Questions))
	sectionScores := make(map[string]float64)
	totalScore := 0.0

	for _, question := range template.Questions {
		answer, answerText := answerQuestion(question.QuestionText, facts)

		section := question.Section
		if section == "" {
			section = "Other"
		}

		weightedScore := float64(answer) * question.Weight
		totalScore += weightedScore
		sectionScores[section] += weightedScore

		responses = append(responses, model.QuestionResponse{
			QuestionText:  question.QuestionText,
			Answer:        answer,
			AnswerText:    answerText,
			Weight:        question.Weight,
			WeightedScore: weightedScore,
			Section:       section,
		})
	}

	normalized := 0
	if template.TotalPossibleScore > 0 {
		normalized = int(math.Round(totalScore / template.TotalPossibleScore * 100))
	}

	passThreshold := template.PassThreshold
	if passThreshold == 0 {
		passThreshold = 70
	}

	return &ScoreResult{
		TotalScore:      totalScore,
		NormalizedScore: normalized,
		Responses:       responses,
		SectionScores:   sectionScores,
		IsPass:          normalized >= passThreshold,
	}
}

// answerQuestion runs the rule table against a question, first match
// wins. Unrecognized questions answer 0 / "N/A".
func answerQuestion(questionText string, facts *accountFacts) (int, string) {
	question := strings.ToLower(questionText)
	for _, rule := range scoreRules {
		if rule.matches(question) {
			return rule.answer(facts)
		}
	}
	return 0, "N/A"
}
