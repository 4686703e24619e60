package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"clerk-admin/internal/clerk"
	"clerk-admin/internal/domain"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrMissingPassword = errors.New("password is required")
)

// UserService coordina las operaciones administrativas sobre el proveedor.
// No guarda nada localmente: cada operacion es un pasamanos de campos.
type UserService struct {
	logger  *zap.Logger
	client  clerk.Client
	scanner *DirectoryScanner
}

// NewUserService crea el servicio de administracion de usuarios.
func NewUserService(logger *zap.Logger, client clerk.Client, scanner *DirectoryScanner) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		logger:  logger,
		client:  client,
		scanner: scanner,
	}
}

// CreateUserInput agrupa los campos del alta.
type CreateUserInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// CreateUser da de alta un usuario en el proveedor.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, ErrMissingPassword
	}

	params := clerk.CreateUserParams{
		EmailAddress: []string{emailAddr},
		Password:     input.Password,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	}
	if phone := strings.TrimSpace(input.PhoneNumber); phone != "" {
		params.PhoneNumber = []string{phone}
	}
	return s.client.CreateUser(ctx, params)
}

// DeleteUser elimina un usuario por id.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.client.DeleteUser(ctx, id)
}

// GetUser devuelve un usuario por id.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.client.GetUser(ctx, id)
}

// ListUsers devuelve una pagina del listado con defaults del facade original.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.client.GetUserList(ctx, clerk.ListParams{Limit: limit, Offset: offset})
}

// UpdateProfileInput agrupa los campos editables del perfil; los vacios no se
// mandan (update parcial).
type UpdateProfileInput struct {
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// UpdateProfile actualiza los campos presentes del perfil.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error) {
	params := clerk.UpdateUserParams{}
	if emailAddr := normalizeEmail(input.Email); emailAddr != "" {
		params.EmailAddress = []string{emailAddr}
	}
	if first := strings.TrimSpace(input.FirstName); first != "" {
		params.FirstName = &first
	}
	if last := strings.TrimSpace(input.LastName); last != "" {
		params.LastName = &last
	}
	if phone := strings.TrimSpace(input.PhoneNumber); phone != "" {
		params.PhoneNumber = []string{phone}
	}
	return s.client.UpdateUser(ctx, id, params)
}

// UpdateMetadata reemplaza la metadata publica libre del usuario.
func (s *UserService) UpdateMetadata(ctx context.Context, id string, metadata map[string]any) (*domain.User, error) {
	return s.client.UpdateUser(ctx, id, clerk.UpdateUserParams{PublicMetadata: metadata})
}

// SetPassword fija el password del usuario.
func (s *UserService) SetPassword(ctx context.Context, id, password string) (*domain.User, error) {
	if strings.TrimSpace(password) == "" {
		return nil, ErrMissingPassword
	}
	return s.client.UpdateUser(ctx, id, clerk.UpdateUserParams{Password: &password})
}

// BlockUser marca la cuenta como bloqueada.
func (s *UserService) BlockUser(ctx context.Context, id string) (*domain.User, error) {
	banned := true
	return s.client.UpdateUser(ctx, id, clerk.UpdateUserParams{Banned: &banned})
}

// UnblockUser levanta el bloqueo de la cuenta.
func (s *UserService) UnblockUser(ctx context.Context, id string) (*domain.User, error) {
	banned := false
	return s.client.UpdateUser(ctx, id, clerk.UpdateUserParams{Banned: &banned})
}

// MarkEmailVerified marca el email principal como verificado.
func (s *UserService) MarkEmailVerified(ctx context.Context, id string) (*domain.User, error) {
	verified := true
	return s.client.UpdateUser(ctx, id, clerk.UpdateUserParams{EmailVerified: &verified})
}

// SendPasswordReset dispara el mail de reseteo de password del proveedor.
func (s *UserService) SendPasswordReset(ctx context.Context, id string) error {
	return s.client.SendPasswordResetEmail(ctx, id)
}

// SearchByEmail busca por substring de email paginando todo el directorio.
// Es un contrato best-effort: si una pagina falla a mitad del scan devuelve
// lo acumulado junto con el error y el handler decide servir el parcial.
func (s *UserService) SearchByEmail(ctx context.Context, fragment string) ([]domain.User, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, ErrInvalidEmail
	}
	return s.scanner.CollectMatches(ctx, EmailContains(fragment))
}

// FindByEmail busca una coincidencia exacta de email; requiere respuesta
// definitiva, por lo que una falla de pagina se propaga sin parcial.
func (s *UserService) FindByEmail(ctx context.Context, emailAddr string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	return s.scanner.FindFirst(ctx, EmailEquals(emailAddr), 0)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
