package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Test struct {
	BaseUUIDModel
	CampaignID string `gorm:"type:varchar(64);not null;index" json:"campaignId"`
	Stage      Stage  `gorm:"type:varchar(16);not null"       json:"stage"`
	Name       string `gorm:"type:varchar(255);not null"      json:"name"`
	TestType   string `gorm:"type:varchar(64)"                json:"testType"`

	// Score >= PassingThreshold passes the stage; 0 auto-passes.
	PassingThreshold int `gorm:"not null;default:0" json:"passingThreshold"`
	// 0 means untimed.
	TimeLimitMinutes int `gorm:"not null;default:0" json:"timeLimitMinutes"`

	Questions []Question `gorm:"foreignKey:TestID" json:"questions,omitempty"`
}

type Question struct {
	BaseUUIDModel
	TestID string `gorm:"type:varchar(64);not null;index" json:"testId"`
	Text   string `gorm:"type:text;not null"              json:"text"`

	AnswerType    AnswerType    `gorm:"type:varchar(16);not null" json:"answerType"`
	AlgorithmType AlgorithmType `gorm:"type:varchar(32);not null" json:"algorithmType"`

	// Maximum score the question can award.
	Points int `gorm:"not null;default:0" json:"points"`

	// 1-based position inside the test. For AH_POINTS questions this also
	// selects the EQ section (OrderNumber - 1).
	OrderNumber int `gorm:"not null;default:1" json:"orderNumber"`

	// A critical question graded to 0 rejects the candidate outright,
	// regardless of the aggregate stage score.
	IsCritical bool `gorm:"not null;default:false" json:"isCritical"`

	AlgorithmParams AlgorithmParams `gorm:"type:text" json:"algorithmParams"`
}

// AlgorithmParams carries only the parameters the question's algorithm needs.
// Raw values are kept as strings so numeric answer types can use decimal
// notation (comma or dot) and DATE questions can use calendar dates; the
// grader parses them against the answer type. Validated at creation time so
// grading never has to branch on malformed input.
type AlgorithmParams struct {
	Min     *string `json:"min,omitempty"`
	Max     *string `json:"max,omitempty"`
	Correct *string `json:"correct,omitempty"`
	Rubric  string  `json:"rubric,omitempty"`
}

func (p AlgorithmParams) Value() (driver.Value, error) {
	raw, err := json.Marshal(p)
	return string(raw), err
}

func (p *AlgorithmParams) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = AlgorithmParams{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("unsupported algorithm params column type %T", value)
}

// Validate checks that the params match what the question's algorithm
// requires. Called when a question is created or edited, never at grading.
func (q *Question) Validate() error {
	p := q.AlgorithmParams
	switch q.AlgorithmType {
	case AlgorithmNone:
		return nil
	case AlgorithmExactMatch:
		if p.Correct == nil {
			return fmt.Errorf("question %s: EXACT_MATCH requires a correct value", q.ID)
		}
	case AlgorithmRange:
		if p.Min == nil || p.Max == nil {
			return fmt.Errorf("question %s: RANGE requires min and max", q.ID)
		}
	case AlgorithmLeftSided:
		if p.Min == nil || p.Correct == nil {
			return fmt.Errorf("question %s: LEFT_SIDED requires min and correct", q.ID)
		}
	case AlgorithmRightSided:
		if p.Max == nil || p.Correct == nil {
			return fmt.Errorf("question %s: RIGHT_SIDED requires max and correct", q.ID)
		}
	case AlgorithmCenter:
		if p.Min == nil || p.Max == nil || p.Correct == nil {
			return fmt.Errorf("question %s: CENTER requires min, max and correct", q.ID)
		}
	case AlgorithmEvaluationAI:
		if q.AnswerType != AnswerText {
			return fmt.Errorf("question %s: EVALUATION_BY_AI only grades TEXT answers", q.ID)
		}
	default:
		return fmt.Errorf("question %s: unknown algorithm type %q", q.ID, q.AlgorithmType)
	}
	if q.Points < 0 {
		return fmt.Errorf("question %s: points must be non-negative", q.ID)
	}
	return nil
}
