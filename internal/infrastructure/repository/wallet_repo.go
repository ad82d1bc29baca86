package repository

import (
	"context"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// applyCoinDelta mutates the balance with a single conditional UPDATE and
// writes the audit row in the same transaction. Debits (delta < 0) that
// would take the balance negative touch zero rows and abort.
func applyCoinDelta(tx *gorm.DB, userID uuid.UUID, delta int, reason string) (int, error) {
	query := tx.Model(&domain.User{}).Where("id = ?", userID)
	if delta < 0 {
		query = query.Where("coin_balance >= ?", -delta)
	}
	res := query.UpdateColumn("coin_balance", gorm.Expr("coin_balance + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		if delta < 0 {
			return 0, domain.ErrInsufficientBalance
		}
		return 0, domain.ErrNotFound
	}

	var user domain.User
	if err := tx.Select("coin_balance").First(&user, "id = ?", userID).Error; err != nil {
		return 0, err
	}

	record := domain.CoinTransaction{
		ID:           uuid.New(),
		UserID:       userID,
		Amount:       delta,
		Reason:       reason,
		BalanceAfter: user.CoinBalance,
	}
	if err := tx.Create(&record).Error; err != nil {
		return 0, err
	}
	return user.CoinBalance, nil
}

func (r *WalletRepository) Credit(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	var newBalance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		newBalance, err = applyCoinDelta(tx, userID, amount, reason)
		return err
	})
	return newBalance, err
}

func (r *WalletRepository) Debit(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	var newBalance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		newBalance, err = applyCoinDelta(tx, userID, -amount, reason)
		return err
	})
	return newBalance, err
}

func (r *WalletRepository) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Select("coin_balance").First(&user, "id = ?", userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return user.CoinBalance, nil
}

// HasTransaction reports whether a ledger row with the given reason exists
// for the user. Used to keep once-only grants once-only.
func (r *WalletRepository) HasTransaction(ctx context.Context, userID uuid.UUID, reason string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CoinTransaction{}).
		Where("user_id = ? AND reason = ?", userID, reason).
		Count(&count).Error
	return count > 0, err
}

func (r *WalletRepository) Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.CoinTransaction, error) {
	var list []domain.CoinTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
