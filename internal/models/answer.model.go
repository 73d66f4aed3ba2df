package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Answer struct {
	BaseUUIDModel
	CandidateID string   `gorm:"type:varchar(64);not null;index:idx_answers_candidate_stage" json:"candidateId"`
	QuestionID  string   `gorm:"type:varchar(64);not null;index"                              json:"questionId"`
	Question    Question `gorm:"foreignKey:QuestionID"                                        json:"question,omitempty"`

	// Stage the answer was submitted under, so a question reused across
	// stages is scored per stage.
	Stage Stage `gorm:"type:varchar(16);not null;index:idx_answers_candidate_stage" json:"stage"`

	TextValue    *string         `gorm:"type:text"         json:"textValue"`
	BoolValue    *bool           `json:"boolValue"`
	NumericValue *float64        `json:"numericValue"`
	DateValue    *time.Time      `json:"dateValue"`
	LetterValue  *string         `gorm:"type:varchar(8)"   json:"letterValue"`
	PointsByOption PointsByOption `gorm:"type:text"        json:"pointsByOption"`

	// Written back by the stage score calculator, the only mutator after
	// creation. Nil until the answer has been graded.
	Score         *int    `json:"score"`
	AIExplanation *string `gorm:"type:text" json:"aiExplanation"`
}

// Empty reports whether the answer carries no value of any type.
func (a *Answer) Empty() bool {
	return a.TextValue == nil &&
		a.BoolValue == nil &&
		a.NumericValue == nil &&
		a.DateValue == nil &&
		a.LetterValue == nil &&
		len(a.PointsByOption) == 0
}

// PointsByOption maps option letters a-h to the points a candidate assigned
// them on an AH_POINTS question.
type PointsByOption map[string]float64

func (p PointsByOption) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	raw, err := json.Marshal(p)
	return string(raw), err
}

func (p *PointsByOption) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("unsupported points column type %T", value)
}
