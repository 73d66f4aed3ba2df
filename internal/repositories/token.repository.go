package repositories

import (
	"context"
	"errors"
	"recruiter/internal/database"
	"recruiter/internal/logger"
	. "recruiter/internal/models"
	"recruiter/internal/services"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrTokenNotFound means no token row matches the presented string.
	ErrTokenNotFound = errors.New("access token not found")
	// ErrTokenConsumed means the token was already used or has expired.
	ErrTokenConsumed = errors.New("access token already used or expired")
)

type TokenRepository interface {
	Create(ctx context.Context, token *AccessToken) error
	GetByToken(ctx context.Context, token string) (*AccessToken, error)
	// Consume atomically marks an unused, unexpired token used and records
	// StartedAt. The guarded UPDATE means two racing requests cannot both
	// succeed.
	Consume(ctx context.Context, token string, now time.Time) (*AccessToken, error)
	MarkCompleted(ctx context.Context, tokenID string, now time.Time) error
	// RevokeActive expires any unused token for the candidate and stage so
	// a regenerated token is the only live one.
	RevokeActive(ctx context.Context, candidateID string, stage Stage) error
}

type tokenRepository struct {
	db  database.DB
	log logger.Logger
}

func NewToken(db database.DB) TokenRepository {
	return &tokenRepository{
		db:  db,
		log: logger.New("tokenRepository"),
	}
}

func (r *tokenRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *tokenRepository) Create(ctx context.Context, token *AccessToken) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(token).Error; err != nil {
		return log.Err("failed to create access token", err,
			"candidateID", token.CandidateID, "stage", token.Stage)
	}

	return nil
}

func (r *tokenRepository) GetByToken(ctx context.Context, token string) (*AccessToken, error) {
	log := r.log.Function("GetByToken")

	var record AccessToken
	if err := r.getDB(ctx).First(&record, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, log.Err("failed to get access token", err)
	}

	return &record, nil
}

func (r *tokenRepository) Consume(ctx context.Context, token string, now time.Time) (*AccessToken, error) {
	log := r.log.Function("Consume")

	result := r.getDB(ctx).Model(&AccessToken{}).
		Where("token = ? AND is_used = ? AND expires_at >= ?", token, false, now).
		Updates(map[string]any{"is_used": true, "started_at": now})
	if result.Error != nil {
		return nil, log.Err("failed to consume access token", result.Error)
	}

	if result.RowsAffected == 0 {
		// Distinguish "never existed" from "used/expired" for the caller.
		if _, err := r.GetByToken(ctx, token); errors.Is(err, ErrTokenNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, ErrTokenConsumed
	}

	return r.GetByToken(ctx, token)
}

func (r *tokenRepository) MarkCompleted(ctx context.Context, tokenID string, now time.Time) error {
	log := r.log.Function("MarkCompleted")

	err := r.getDB(ctx).Model(&AccessToken{}).
		Where("id = ?", tokenID).
		Update("completed_at", now).Error
	if err != nil {
		return log.Err("failed to mark token completed", err, "tokenID", tokenID)
	}

	return nil
}

func (r *tokenRepository) RevokeActive(ctx context.Context, candidateID string, stage Stage) error {
	log := r.log.Function("RevokeActive")

	err := r.getDB(ctx).Model(&AccessToken{}).
		Where("candidate_id = ? AND stage = ? AND is_used = ?", candidateID, stage, false).
		Update("is_used", true).Error
	if err != nil {
		return log.Err("failed to revoke active tokens", err,
			"candidateID", candidateID, "stage", stage)
	}

	return nil
}
