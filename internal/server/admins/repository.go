package admins

import "context"

type Repository interface {
	Create(ctx context.Context, u *AdminUser) (*AdminUser, error)
	GetAll(ctx context.Context) ([]*AdminUser, error)
}
