package models

import "time"

// AccessToken is the single-use credential mailed to a candidate when they
// advance into a token-gated stage (PO2, PO2_5, PO3). At most one unused,
// unexpired token exists per candidate and stage; the partial unique index
// enforcing that lives in the SQL migrations.
type AccessToken struct {
	BaseUUIDModel
	CandidateID string `gorm:"type:varchar(64);not null;index" json:"candidateId"`
	Stage       Stage  `gorm:"type:varchar(16);not null"       json:"stage"`

	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null"                               json:"expiresAt"`
	IsUsed    bool      `gorm:"not null;default:false"                 json:"isUsed"`

	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *AccessToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
