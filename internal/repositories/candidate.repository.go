package repositories

import (
	"context"
	"errors"
	"recruiter/internal/database"
	"recruiter/internal/logger"
	. "recruiter/internal/models"
	"recruiter/internal/services"

	"gorm.io/gorm"
)

type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*Candidate, error)
	GetPendingByCampaign(ctx context.Context, campaignID string) ([]*Candidate, error)
	GetByCampaign(ctx context.Context, campaignID string) ([]*Candidate, error)
	Create(ctx context.Context, candidate *Candidate) error
	Update(ctx context.Context, candidate *Candidate) error
}

type candidateRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCandidate(db database.DB) CandidateRepository {
	return &candidateRepository{
		db:  db,
		log: logger.New("candidateRepository"),
	}
}

func (r *candidateRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *candidateRepository) GetByID(ctx context.Context, id string) (*Candidate, error) {
	log := r.log.Function("GetByID")

	var candidate Candidate
	if err := r.getDB(ctx).First(&candidate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get candidate by id", err, "id", id)
	}

	return &candidate, nil
}

// GetPendingByCampaign returns the candidates a sweep still has work for:
// anyone not in a terminal status. REJECTED is included because a re-grade
// may clear the threshold that rejected them.
func (r *candidateRepository) GetPendingByCampaign(ctx context.Context, campaignID string) ([]*Candidate, error) {
	log := r.log.Function("GetPendingByCampaign")

	var candidates []*Candidate
	err := r.getDB(ctx).
		Where("campaign_id = ?", campaignID).
		Where("recruitment_status NOT IN ?", []RecruitmentStatus{StatusRejectedCritical, StatusAccepted}).
		Order("created_at ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, log.Err("failed to get pending candidates", err, "campaignID", campaignID)
	}

	return candidates, nil
}

func (r *candidateRepository) GetByCampaign(ctx context.Context, campaignID string) ([]*Candidate, error) {
	log := r.log.Function("GetByCampaign")

	var candidates []*Candidate
	err := r.getDB(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, log.Err("failed to get candidates by campaign", err, "campaignID", campaignID)
	}

	return candidates, nil
}

func (r *candidateRepository) Create(ctx context.Context, candidate *Candidate) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(candidate).Error; err != nil {
		return log.Err("failed to create candidate", err, "email", candidate.Email)
	}

	return nil
}

func (r *candidateRepository) Update(ctx context.Context, candidate *Candidate) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(candidate).Error; err != nil {
		return log.Err("failed to update candidate", err, "candidateID", candidate.ID)
	}

	return nil
}
