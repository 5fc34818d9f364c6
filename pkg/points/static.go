package points

import (
	"context"
	"sync"

	kferrors "github.com/kitforge/kitforge/pkg/errors"
)

// Static is an in-memory Service for development, testing, and offline
// use. Deductions succeed while the balance covers them.
type Static struct {
	mu      sync.Mutex
	user    *User
	balance int

	// Deductions records every successful deduction's reason, in order.
	Deductions []string
}

// NewStatic creates a static service with the given starting balance.
// A nil user means not signed in.
func NewStatic(user *User, balance int) *Static {
	return &Static{user: user, balance: balance}
}

// Me returns the configured user or an UNAUTHORIZED error.
func (s *Static) Me(ctx context.Context) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, kferrors.New(kferrors.ErrCodeUnauthorized, "not signed in")
	}
	u := *s.user
	return &u, nil
}

// Balance returns the remaining balance.
func (s *Static) Balance(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance, nil
}

// Deduct removes points when the balance covers the amount; otherwise it
// reports Success=false without touching the balance.
func (s *Static) Deduct(ctx context.Context, amount int, reason string) (*DeductResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount < 0 || s.balance < amount {
		return &DeductResult{Success: false, Balance: s.balance}, nil
	}
	s.balance -= amount
	s.Deductions = append(s.Deductions, reason)
	return &DeductResult{Success: true, Balance: s.balance}, nil
}

// Ensure Static implements Service.
var _ Service = (*Static)(nil)
