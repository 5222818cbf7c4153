package sessions

import "context"

type Repository interface {
	Create(ctx context.Context, s *UploadSession) error
	GetByID(ctx context.Context, id string) (*UploadSession, error)
}
