package repositories

import (
	"context"
	"recruiter/internal/database"
	"recruiter/internal/logger"
	. "recruiter/internal/models"
	"recruiter/internal/services"

	"gorm.io/gorm"
)

type AnswerRepository interface {
	GetByCandidateAndStage(ctx context.Context, candidateID string, stage Stage) ([]Answer, error)
	CreateBatch(ctx context.Context, answers []Answer) error
	// UpdateScore writes the per-answer grade, the only mutation an answer
	// sees after creation.
	UpdateScore(ctx context.Context, answerID string, score int, explanation *string) error
}

type answerRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAnswer(db database.DB) AnswerRepository {
	return &answerRepository{
		db:  db,
		log: logger.New("answerRepository"),
	}
}

func (r *answerRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *answerRepository) GetByCandidateAndStage(ctx context.Context, candidateID string, stage Stage) ([]Answer, error) {
	log := r.log.Function("GetByCandidateAndStage")

	var answers []Answer
	err := r.getDB(ctx).
		Where("candidate_id = ? AND stage = ?", candidateID, stage).
		Order("created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, log.Err("failed to get answers", err, "candidateID", candidateID, "stage", stage)
	}

	return answers, nil
}

func (r *answerRepository) CreateBatch(ctx context.Context, answers []Answer) error {
	log := r.log.Function("CreateBatch")

	if len(answers) == 0 {
		return nil
	}

	if err := r.getDB(ctx).Create(&answers).Error; err != nil {
		return log.Err("failed to create answers", err, "count", len(answers))
	}

	return nil
}

func (r *answerRepository) UpdateScore(ctx context.Context, answerID string, score int, explanation *string) error {
	log := r.log.Function("UpdateScore")

	updates := map[string]any{"score": score}
	if explanation != nil {
		updates["ai_explanation"] = *explanation
	}

	if err := r.getDB(ctx).Model(&Answer{}).Where("id = ?", answerID).Updates(updates).Error; err != nil {
		return log.Err("failed to update answer score", err, "answerID", answerID)
	}

	return nil
}
