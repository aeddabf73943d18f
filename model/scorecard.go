package model

import "time"

// ScorecardTemplate defines an ICP rubric: an ordered list of weighted
// questions grouped into sections. Templates are read-only inputs to
// scoring and are never mutated by the scoring pipeline.
type ScorecardTemplate struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Questions          []ScorecardQuestion `json:"questions"`
	TotalPossibleScore float64             `json:"total_possible_score"`
	PassThreshold      int                 `json:"pass_threshold,omitempty"`
	IsPrimary          bool                `json:"is_primary"`
}

type ScorecardQuestion struct {
	QuestionText string  `json:"question_text"`
	Weight       float64 `json:"weight"`
	Section      string  `json:"section,omitempty"`
	AnswerType   string  `json:"answer_type,omitempty"` // yes_no, scale
}

// AnswerType constants
const (
	AnswerTypeYesNo = "yes_no"
	AnswerTypeScale = "scale"
)

// QuestionResponse is one answered question within a scorecard response.
type QuestionResponse struct {
	QuestionText  string  `json:"question_text"`
	Answer        int     `json:"answer"`
	AnswerText    string  `json:"answer_text"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"`
	Section       string  `json:"section"`
}

// ScorecardResponse is a completed scorecard for an account. A fresh one
// is produced each scoring run; re-scoring replaces the prior primary.
type ScorecardResponse struct {
	ID              string             `json:"id"`
	AccountID       string             `json:"account_id"`
	TemplateID      string             `json:"template_id"`
	TemplateName    string             `json:"template_name,omitempty"`
	Responses       []QuestionResponse `json:"responses"`
	SectionScores   map[string]float64 `json:"section_scores"`
	TotalScore      float64            `json:"total_score"`
	NormalizedScore int                `json:"normalized_score"`
	IsPass          bool               `json:"is_pass"`
	ScorecardDate   string             `json:"scorecard_date,omitempty"` // YYYY-MM-DD
	CompletedBy     string             `json:"completed_by,omitempty"`
	CompletedDate   time.Time          `json:"completed_date"`
	ScorecardType   string             `json:"scorecard_type,omitempty"` // auto, manual
	IsPrimary       bool               `json:"is_primary"`
}

// ScorecardType constants
const (
	ScorecardTypeAuto   = "auto"
	ScorecardTypeManual = "manual"
)
