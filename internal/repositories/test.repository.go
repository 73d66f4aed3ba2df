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

const testCacheExpiry = 15 * time.Minute

type TestRepository interface {
	// GetByID loads the test with its questions ordered by OrderNumber.
	GetByID(ctx context.Context, id string) (*Test, error)
	Create(ctx context.Context, test *Test) error
	Update(ctx context.Context, test *Test) error
}

type testRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTest(db database.DB) TestRepository {
	return &testRepository{
		db:  db,
		log: logger.New("testRepository"),
	}
}

func (r *testRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *testRepository) GetByID(ctx context.Context, id string) (*Test, error) {
	log := r.log.Function("GetByID")

	var test Test
	found, err := database.NewCacheBuilder(r.db.Cache.Test, id).
		WithContext(ctx).
		Get(&test)
	if err != nil {
		log.Warn("failed to read test cache", "testID", id, "error", err)
	}
	if found {
		return &test, nil
	}

	err = r.getDB(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_number ASC")
		}).
		First(&test, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get test by id", err, "id", id)
	}

	if err := r.addToCache(ctx, &test); err != nil {
		log.Warn("failed to add test to cache", "testID", id, "error", err)
	}

	return &test, nil
}

func (r *testRepository) Create(ctx context.Context, test *Test) error {
	log := r.log.Function("Create")

	for i := range test.Questions {
		if err := test.Questions[i].Validate(); err != nil {
			return log.Err("invalid question", err, "testID", test.ID)
		}
	}

	if err := r.getDB(ctx).Create(test).Error; err != nil {
		return log.Err("failed to create test", err, "name", test.Name)
	}

	return nil
}

func (r *testRepository) Update(ctx context.Context, test *Test) error {
	log := r.log.Function("Update")

	for i := range test.Questions {
		if err := test.Questions[i].Validate(); err != nil {
			return log.Err("invalid question", err, "testID", test.ID)
		}
	}

	if err := r.getDB(ctx).Save(test).Error; err != nil {
		return log.Err("failed to update test", err, "testID", test.ID)
	}

	if err := database.NewCacheBuilder(r.db.Cache.Test, test.ID).Delete(); err != nil {
		log.Warn("failed to invalidate test cache", "testID", test.ID, "error", err)
	}

	return nil
}

func (r *testRepository) addToCache(ctx context.Context, test *Test) error {
	return database.NewCacheBuilder(r.db.Cache.Test, test.ID).
		WithStruct(test).
		WithTTL(testCacheExpiry).
		WithContext(ctx).
		Set()
}
