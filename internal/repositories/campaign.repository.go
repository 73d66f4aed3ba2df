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

const campaignCacheExpiry = 15 * time.Minute

type CampaignRepository interface {
	GetByID(ctx context.Context, id string) (*Campaign, error)
	Create(ctx context.Context, campaign *Campaign) error
	Update(ctx context.Context, campaign *Campaign) error
}

type campaignRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCampaign(db database.DB) CampaignRepository {
	return &campaignRepository{
		db:  db,
		log: logger.New("campaignRepository"),
	}
}

func (r *campaignRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// GetByID is cache-aside: campaigns are read on every scoring pass and
// edited rarely.
func (r *campaignRepository) GetByID(ctx context.Context, id string) (*Campaign, error) {
	log := r.log.Function("GetByID")

	var campaign Campaign
	found, err := database.NewCacheBuilder(r.db.Cache.Campaign, id).
		WithContext(ctx).
		Get(&campaign)
	if err != nil {
		log.Warn("failed to read campaign cache", "campaignID", id, "error", err)
	}
	if found {
		return &campaign, nil
	}

	if err := r.getDB(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get campaign by id", err, "id", id)
	}

	if err := r.addToCache(ctx, &campaign); err != nil {
		log.Warn("failed to add campaign to cache", "campaignID", id, "error", err)
	}

	return &campaign, nil
}

func (r *campaignRepository) Create(ctx context.Context, campaign *Campaign) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(campaign).Error; err != nil {
		return log.Err("failed to create campaign", err, "name", campaign.Name)
	}

	return nil
}

func (r *campaignRepository) Update(ctx context.Context, campaign *Campaign) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(campaign).Error; err != nil {
		return log.Err("failed to update campaign", err, "campaignID", campaign.ID)
	}

	if err := database.NewCacheBuilder(r.db.Cache.Campaign, campaign.ID).Delete(); err != nil {
		log.Warn("failed to invalidate campaign cache", "campaignID", campaign.ID, "error", err)
	}

	return nil
}

func (r *campaignRepository) addToCache(ctx context.Context, campaign *Campaign) error {
	return database.NewCacheBuilder(r.db.Cache.Campaign, campaign.ID).
		WithStruct(campaign).
		WithTTL(campaignCacheExpiry).
		WithContext(ctx).
		Set()
}
