package models

type Campaign struct {
	BaseUUIDModel
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	IsActive bool   `gorm:"not null;default:true"      json:"isActive"`

	Po1TestID  *string `gorm:"type:varchar(64)" json:"po1TestId"`
	Po2TestID  *string `gorm:"type:varchar(64)" json:"po2TestId"`
	Po25TestID *string `gorm:"type:varchar(64)" json:"po25TestId"`
	Po3TestID  *string `gorm:"type:varchar(64)" json:"po3TestId"`

	// Composite weights per stage. A stage may be configured with weight 0,
	// which scores it but excludes it from the composite.
	Po1Weight  int `gorm:"not null;default:0" json:"po1Weight"`
	Po2Weight  int `gorm:"not null;default:0" json:"po2Weight"`
	Po25Weight int `gorm:"not null;default:0" json:"po25Weight"`
	Po3Weight  int `gorm:"not null;default:0" json:"po3Weight"`

	Po2TokenExpiryDays  int `gorm:"not null;default:7" json:"po2TokenExpiryDays"`
	Po25TokenExpiryDays int `gorm:"not null;default:7" json:"po25TokenExpiryDays"`
	Po3TokenExpiryDays  int `gorm:"not null;default:7" json:"po3TokenExpiryDays"`

	InterviewEmailSubject string `gorm:"type:varchar(255)" json:"interviewEmailSubject"`
	InterviewEmailContent string `gorm:"type:text"         json:"interviewEmailContent"`
}

// TestID returns the configured test for a stage, nil when the stage is not
// part of this campaign.
func (c *Campaign) TestID(stage Stage) *string {
	switch stage {
	case StagePO1:
		return c.Po1TestID
	case StagePO2:
		return c.Po2TestID
	case StagePO25:
		return c.Po25TestID
	case StagePO3:
		return c.Po3TestID
	}
	return nil
}

// Weight returns the composite weight configured for a stage.
func (c *Campaign) Weight(stage Stage) int {
	switch stage {
	case StagePO1:
		return c.Po1Weight
	case StagePO2:
		return c.Po2Weight
	case StagePO25:
		return c.Po25Weight
	case StagePO3:
		return c.Po3Weight
	}
	return 0
}

// WeightMap collects all stage weights for the composite calculator.
func (c *Campaign) WeightMap() map[Stage]int {
	return map[Stage]int{
		StagePO1:  c.Po1Weight,
		StagePO2:  c.Po2Weight,
		StagePO25: c.Po25Weight,
		StagePO3:  c.Po3Weight,
	}
}

// TokenExpiryDays returns the token lifetime for a token-gated stage.
func (c *Campaign) TokenExpiryDays(stage Stage) int {
	switch stage {
	case StagePO2:
		return c.Po2TokenExpiryDays
	case StagePO25:
		return c.Po25TokenExpiryDays
	case StagePO3:
		return c.Po3TokenExpiryDays
	}
	return 0
}
