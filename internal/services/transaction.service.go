package services

import (
	"context"
	"recruiter/internal/logger"

	"gorm.io/gorm"
)

type txContextKey struct{}

// Transactor runs a function inside one database transaction. Repositories
// pick the transaction up from the context, so everything a pass writes
// commits or rolls back together.
type Transactor interface {
	Execute(ctx context.Context, fn func(txCtx context.Context) error) error
}

type TransactionService struct {
	sql *gorm.DB
	log logger.Logger
}

func NewTransactionService(sql *gorm.DB) *TransactionService {
	return &TransactionService{
		sql: sql,
		log: logger.New("TransactionService"),
	}
}

func (s *TransactionService) Execute(ctx context.Context, fn func(txCtx context.Context) error) error {
	log := s.log.Function("Execute")

	return s.sql.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txContextKey{}, tx)
		if err := fn(txCtx); err != nil {
			log.Er("transaction rolled back", err)
			return err
		}
		return nil
	})
}

// GetTransaction returns the transaction carried by ctx, if any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx, ok
}
