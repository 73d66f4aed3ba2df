package models

type Candidate struct {
	BaseUUIDModel
	CampaignID string   `gorm:"type:varchar(64);not null;index"   json:"campaignId"`
	Campaign   Campaign `gorm:"foreignKey:CampaignID"             json:"campaign,omitempty"`

	FirstName string  `gorm:"type:varchar(255)"                 json:"firstName"`
	LastName  string  `gorm:"type:varchar(255)"                 json:"lastName"`
	Email     string  `gorm:"type:varchar(255);not null;index"  json:"email"`
	Phone     *string `gorm:"type:varchar(64)"                  json:"phone"`

	RecruitmentStatus RecruitmentStatus `gorm:"type:varchar(32);not null;index" json:"recruitmentStatus"`

	// Per-stage scores. Nil means the stage has not been computed yet, which
	// is distinct from a computed score of 0.
	Po1Score  *int `json:"po1Score"`
	Po2Score  *int `json:"po2Score"`
	Po25Score *int `json:"po25Score"`
	Po3Score  *int `json:"po3Score"`

	TotalScore *float64 `json:"totalScore"`
}

// StageScore returns the stored score for a pipeline stage.
func (c *Candidate) StageScore(stage Stage) *int {
	switch stage {
	case StagePO1:
		return c.Po1Score
	case StagePO2:
		return c.Po2Score
	case StagePO25:
		return c.Po25Score
	case StagePO3:
		return c.Po3Score
	}
	return nil
}

// SetStageScore stores a computed score for a pipeline stage.
func (c *Candidate) SetStageScore(stage Stage, score int) {
	switch stage {
	case StagePO1:
		c.Po1Score = &score
	case StagePO2:
		c.Po2Score = &score
	case StagePO25:
		c.Po25Score = &score
	case StagePO3:
		c.Po3Score = &score
	}
}

// NextPendingStage derives the first configured stage that has no score yet.
// This derivation, not a stored field, is the source of truth for where a
// rejected candidate resumes after recalculation: a stage with a recorded
// score is one the candidate has already been evaluated on, so the pipeline
// picks up at the first stage still lacking one. Returns PO4 when every
// configured stage is scored.
func (c *Candidate) NextPendingStage(campaign *Campaign) Stage {
	for _, stage := range PipelineStages {
		if campaign.TestID(stage) == nil {
			continue
		}
		if c.StageScore(stage) == nil {
			return stage
		}
	}
	return StagePO4
}

// ScoreMap collects the non-nil stage scores keyed by stage.
func (c *Candidate) ScoreMap() map[Stage]int {
	scores := make(map[Stage]int, len(PipelineStages))
	for _, stage := range PipelineStages {
		if s := c.StageScore(stage); s != nil {
			scores[stage] = *s
		}
	}
	return scores
}
