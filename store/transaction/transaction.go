package transaction

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type transactionStore struct {
	db *db.DB
}

// New new transaction store
func New(db *db.DB) core.TransactionStore {
	return &transactionStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transaction{})

		if err := tx.AutoMigrate(core.Transaction{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transactionStore) Create(ctx context.Context, tx *db.DB, transaction *core.Transaction) error {
	return tx.Update().Where("trace_id = ?", transaction.TraceID).FirstOrCreate(transaction).Error
}

func (s *transactionStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	var transaction core.Transaction
	err := s.db.View().Where("trace_id = ?", traceID).First(&transaction).Error
	if store.IsErrNotFound(err) {
		return &core.Transaction{}, nil
	}

	return &transaction, err
}

func (s *transactionStore) ListByUser(ctx context.Context, userID string, fromID int64, limit int) ([]*core.Transaction, error) {
	var transactions []*core.Transaction
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	if err := s.db.View().
		Where("user_id = ? AND id > ?", userID, fromID).
		Order("id ASC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}
