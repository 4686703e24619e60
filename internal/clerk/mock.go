package clerk

import (
	"context"
	"net/http"

	"clerk-admin/internal/domain"
)

// Mock permite tests sin llamar al proveedor real. Cada operacion delega en
// la funcion configurada; si no hay funcion, responde not found.
type Mock struct {
	CreateUserFn             func(ctx context.Context, params CreateUserParams) (*domain.User, error)
	DeleteUserFn             func(ctx context.Context, id string) error
	GetUserFn                func(ctx context.Context, id string) (*domain.User, error)
	GetUserListFn            func(ctx context.Context, params ListParams) ([]domain.User, error)
	UpdateUserFn             func(ctx context.Context, id string, params UpdateUserParams) (*domain.User, error)
	VerifyPasswordFn         func(ctx context.Context, id, password string) (bool, error)
	SendPasswordResetEmailFn func(ctx context.Context, id string) error
}

var errMockNotFound = &APIError{Status: http.StatusNotFound, Message: "not found"}

func (m *Mock) CreateUser(ctx context.Context, params CreateUserParams) (*domain.User, error) {
	if m.CreateUserFn == nil {
		return nil, errMockNotFound
	}
	return m.CreateUserFn(ctx, params)
}

func (m *Mock) DeleteUser(ctx context.Context, id string) error {
	if m.DeleteUserFn == nil {
		return errMockNotFound
	}
	return m.DeleteUserFn(ctx, id)
}

func (m *Mock) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if m.GetUserFn == nil {
		return nil, errMockNotFound
	}
	return m.GetUserFn(ctx, id)
}

func (m *Mock) GetUserList(ctx context.Context, params ListParams) ([]domain.User, error) {
	if m.GetUserListFn == nil {
		return nil, nil
	}
	return m.GetUserListFn(ctx, params)
}

func (m *Mock) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*domain.User, error) {
	if m.UpdateUserFn == nil {
		return nil, errMockNotFound
	}
	return m.UpdateUserFn(ctx, id, params)
}

func (m *Mock) VerifyPassword(ctx context.Context, id, password string) (bool, error) {
	if m.VerifyPasswordFn == nil {
		return false, errMockNotFound
	}
	return m.VerifyPasswordFn(ctx, id, password)
}

func (m *Mock) SendPasswordResetEmail(ctx context.Context, id string) error {
	if m.SendPasswordResetEmailFn == nil {
		return errMockNotFound
	}
	return m.SendPasswordResetEmailFn(ctx, id)
}
