package usecase

import (
	"context"
	"fmt"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
)

type WalletUseCase struct {
	wallet WalletStore
}

func NewWalletUseCase(wallet WalletStore) *WalletUseCase {
	return &WalletUseCase{wallet: wallet}
}

func (uc *WalletUseCase) Credit(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	balance, err := uc.wallet.Credit(ctx, userID, amount, reason)
	if err != nil {
		return 0, fmt.Errorf("credit coins: %w", err)
	}
	return balance, nil
}

func (uc *WalletUseCase) Debit(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	balance, err := uc.wallet.Debit(ctx, userID, amount, reason)
	if err != nil {
		return 0, fmt.Errorf("debit coins: %w", err)
	}
	return balance, nil
}

func (uc *WalletUseCase) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	return uc.wallet.Balance(ctx, userID)
}

func (uc *WalletUseCase) Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.CoinTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.wallet.Transactions(ctx, userID, limit, offset)
}
