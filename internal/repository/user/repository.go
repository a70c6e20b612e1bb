package user

import (
	"context"

	"retroshop/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, email, name string) (*domain.User, error)
}
