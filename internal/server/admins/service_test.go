package admins

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lumeshot/lumeshot/internal/common"
	"github.com/lumeshot/lumeshot/internal/server/auth"
	"github.com/lumeshot/lumeshot/internal/server/config"
)

type fakeRepo struct {
	rows []*AdminUser
}

func (f *fakeRepo) Create(ctx context.Context, u *AdminUser) (*AdminUser, error) {
	u.ID = "admin-1"
	u.CreatedAt = time.Now()
	f.rows = append(f.rows, u)
	return u, nil
}

func (f *fakeRepo) GetAll(ctx context.Context) ([]*AdminUser, error) {
	return f.rows, nil
}

func testService() (*Service, *fakeRepo) {
	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour}
	repo := &fakeRepo{}
	return NewService(repo, cfg), repo
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, repo := testService()

	u, err := svc.Register(context.Background(), "hunter2")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.ID == "" || u.Role != auth.RoleAdmin {
		t.Fatalf("unexpected admin: %+v", u)
	}
	if u.PasswordHash == "hunter2" {
		t.Fatalf("password must not be stored in the clear")
	}

	token, err := svc.Login(context.Background(), "hunter2")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	claims, err := auth.ParseToken(token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != repo.rows[0].ID || claims.Role != auth.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	svc, _ := testService()
	if _, err := svc.Register(context.Background(), "hunter2"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, err := svc.Login(context.Background(), "wrong")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestLogin_EmptyPassword(t *testing.T) {
	t.Parallel()

	svc, _ := testService()
	_, err := svc.Login(context.Background(), "")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestRegister_SecondAdminRefused(t *testing.T) {
	t.Parallel()

	svc, _ := testService()
	if _, err := svc.Register(context.Background(), "first"); err != nil {
		t.Fatalf("bootstrap Register error: %v", err)
	}

	_, err := svc.Register(context.Background(), "second")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized for second admin, got %v", err)
	}
}

func TestRegister_EmptyPassword(t *testing.T) {
	t.Parallel()

	svc, _ := testService()
	_, err := svc.Register(context.Background(), "")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}
