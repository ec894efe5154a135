package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
)

// AccountService reads account records for their signed-in owner.
type AccountService struct {
	Store store.Store
}

// Get returns the record without its password hash.
func (s *AccountService) Get(ctx context.Context, accountID string) (domain.Account, error) {
	a, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: load account: %v", ErrTransient, err)
	}
	a.PasswordHash = ""
	return a, nil
}
