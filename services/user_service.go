package services

import (
	"context"

	"replyMateAPI/internal/user"
	"replyMateAPI/store"
)

// UserService reads the externally issued identity records. Users are never
// created or mutated here.
type UserService struct {
	store store.UserStore
}

func NewUserService(st store.UserStore) *UserService {
	return &UserService{store: st}
}

func (s *UserService) GetByID(ctx context.Context, id string) (user.User, error) {
	return s.store.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	return s.store.List(ctx)
}

// IsAdmin satisfies the auth middleware's resolver contract.
func (s *UserService) IsAdmin(ctx context.Context, id string) (bool, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsAdmin, nil
}
