package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
)

// In-memory fakes for the storage ports. They emulate the same invariants
// the SQL enforces: conditional debits, unique unlock windows, single live
// subscription, keyed usage counters.

type fakeWallet struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int
	txns     []domain.CoinTransaction
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{balances: map[uuid.UUID]int{}}
}

func (w *fakeWallet) apply(userID uuid.UUID, delta int, reason string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	bal := w.balances[userID]
	if delta < 0 && bal+delta < 0 {
		return 0, domain.ErrInsufficientBalance
	}
	bal += delta
	w.balances[userID] = bal
	w.txns = append(w.txns, domain.CoinTransaction{
		ID: uuid.New(), UserID: userID, Amount: delta, Reason: reason, BalanceAfter: bal,
	})
	return bal, nil
}

func (w *fakeWallet) Credit(_ context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	return w.apply(userID, amount, reason)
}

func (w *fakeWallet) Debit(_ context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	return w.apply(userID, -amount, reason)
}

func (w *fakeWallet) Balance(_ context.Context, userID uuid.UUID) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balances[userID], nil
}

func (w *fakeWallet) HasTransaction(_ context.Context, userID uuid.UUID, reason string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.txns {
		if t.UserID == userID && t.Reason == reason {
			return true, nil
		}
	}
	return false, nil
}

func (w *fakeWallet) Transactions(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.CoinTransaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []domain.CoinTransaction
	for _, t := range w.txns {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[uuid.UUID]*domain.User{}}
}

func (s *fakeUsers) Ensure(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	u := &domain.User{ID: id}
	s.users[id] = u
	copied := *u
	return &copied, nil
}

func (s *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUsers) UpdateProfile(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	for key, val := range updates {
		switch key {
		case "birth_date":
			t := val.(time.Time)
			u.BirthDate = &t
		case "birth_time":
			u.BirthTime = val.(string)
		case "birth_place":
			u.BirthPlace = val.(string)
		case "gender":
			u.Gender = val.(string)
		case "mbti":
			u.MBTI = val.(string)
		case "profession":
			u.Profession = val.(string)
		case "current_status":
			u.CurrentStatus = val.(string)
		case "wishes":
			u.Wishes = val.(string)
		}
	}
	return nil
}

type fakeUnlocks struct {
	mu     sync.Mutex
	wallet *fakeWallet
	assets []domain.TimeAssetUnlock
}

func newFakeUnlocks(wallet *fakeWallet) *fakeUnlocks {
	return &fakeUnlocks{wallet: wallet}
}

func (s *fakeUnlocks) Exists(_ context.Context, userID uuid.UUID, dimension string, periodStart, periodEnd time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(userID, dimension, periodStart, periodEnd), nil
}

func (s *fakeUnlocks) find(userID uuid.UUID, dimension string, periodStart, periodEnd time.Time) bool {
	for _, a := range s.assets {
		if a.UserID == userID && a.Dimension == dimension &&
			a.PeriodStart.Equal(periodStart) && a.PeriodEnd.Equal(periodEnd) {
			return true
		}
	}
	return false
}

func (s *fakeUnlocks) Unlock(_ context.Context, asset *domain.TimeAssetUnlock) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(asset.UserID, asset.Dimension, asset.PeriodStart, asset.PeriodEnd) {
		return 0, domain.ErrAlreadyUnlocked
	}
	newBalance, err := s.wallet.apply(asset.UserID, -asset.CostCoins, domain.ReasonTimeAssetUnlock)
	if err != nil {
		return 0, err
	}
	asset.ID = uuid.New()
	s.assets = append(s.assets, *asset)
	return newBalance, nil
}

func (s *fakeUnlocks) List(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.TimeAssetUnlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TimeAssetUnlock
	for i := len(s.assets) - 1; i >= 0; i-- {
		if s.assets[i].UserID == userID {
			out = append(out, s.assets[i])
		}
	}
	return out, nil
}

type fakeSubs struct {
	mu     sync.Mutex
	subs   []*domain.Subscription
	orders map[uuid.UUID]*domain.PaymentOrder
}

func newFakeSubs() *fakeSubs {
	return &fakeSubs{orders: map[uuid.UUID]*domain.PaymentOrder{}}
}

func (s *fakeSubs) live(userID uuid.UUID) *domain.Subscription {
	for i := len(s.subs) - 1; i >= 0; i-- {
		sub := s.subs[i]
		if sub.UserID == userID &&
			(sub.Status == domain.SubscriptionPending || sub.Status == domain.SubscriptionActive) {
			return sub
		}
	}
	return nil
}

func (s *fakeSubs) Current(_ context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub := s.live(userID); sub != nil {
		copied := *sub
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (s *fakeSubs) CreateWithOrder(_ context.Context, sub *domain.Subscription, order *domain.PaymentOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live(sub.UserID) != nil {
		return domain.ErrSubscriptionExists
	}
	stored := *sub
	s.subs = append(s.subs, &stored)
	order.SubscriptionID = sub.ID
	storedOrder := *order
	s.orders[order.ID] = &storedOrder
	return nil
}

func (s *fakeSubs) Cancel(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := s.live(userID)
	if sub == nil {
		return domain.ErrNotFound
	}
	sub.Status = domain.SubscriptionCancelled
	return nil
}

func (s *fakeSubs) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var swept int64
	for _, sub := range s.subs {
		if sub.Status == domain.SubscriptionActive && sub.ExpiresAt != nil && sub.ExpiresAt.Before(now) {
			sub.Status = domain.SubscriptionExpired
			swept++
		}
	}
	return swept, nil
}

func (s *fakeSubs) GetOrder(_ context.Context, orderID uuid.UUID) (*domain.PaymentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *fakeSubs) ConfirmOrder(_ context.Context, orderID uuid.UUID, now time.Time) (*domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.Status != domain.OrderPending {
		return nil, domain.ErrNotFound
	}
	order.Status = domain.OrderPaid
	for _, sub := range s.subs {
		if sub.ID == order.SubscriptionID {
			// Only a still-pending subscription activates; a late callback
			// after cancel fails the order instead of resurrecting the row.
			if sub.Status != domain.SubscriptionPending {
				order.Status = domain.OrderFailed
				return nil, domain.ErrNotFound
			}
			duration := 30 * 24 * time.Hour
			if sub.IsYearly {
				duration = 365 * 24 * time.Hour
			}
			expires := now.Add(duration)
			sub.Status = domain.SubscriptionActive
			sub.StartedAt = &now
			sub.ExpiresAt = &expires
			copied := *sub
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeUsage struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeUsage() *fakeUsage {
	return &fakeUsage{counts: map[string]int{}}
}

func usageKey(userID uuid.UUID, feature, date string) string {
	return userID.String() + "|" + feature + "|" + date
}

func (s *fakeUsage) Increment(_ context.Context, userID uuid.UUID, feature, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := usageKey(userID, feature, date)
	s.counts[key]++
	return s.counts[key], nil
}

func (s *fakeUsage) Get(_ context.Context, userID uuid.UUID, feature, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[usageKey(userID, feature, date)], nil
}

type noopStatusCache struct{}

func (noopStatusCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) { return false, nil }
func (noopStatusCache) Set(_ context.Context, _ string, _ interface{}) error         { return nil }
func (noopStatusCache) Invalidate(_ context.Context, _ string) error                 { return nil }
