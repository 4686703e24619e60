package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"clerk-admin/internal/domain"
)

var (
	ErrMissingCredentials      = errors.New("email and password are required")
	ErrAccountBlocked          = errors.New("account blocked")
	ErrPasswordAuthUnavailable = errors.New("password authentication not enabled for this account")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrVerifyTimeout           = errors.New("password verification timed out")
	ErrRateLimited             = errors.New("rate limited")
)

// PasswordVerifier es la primitiva de verificacion de credencial del
// proveedor. Falla con error ante problemas de transporte, que no es lo mismo
// que un (false, nil) deliberado.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, id, password string) (bool, error)
}

// AuthService resuelve el login: busca el usuario por email en el directorio
// y delega la verificacion de password al proveedor bajo timeout. No emite
// tokens ni cookies de ningun tipo; solo confirma la credencial.
type AuthService struct {
	logger        *zap.Logger
	scanner       *DirectoryScanner
	verifier      PasswordVerifier
	limiter       LoginRateLimiter
	searchTimeout time.Duration
	verifyTimeout time.Duration
}

// NewAuthService crea el servicio de autenticacion.
func NewAuthService(logger *zap.Logger, scanner *DirectoryScanner, verifier PasswordVerifier, limiter LoginRateLimiter, searchTimeout, verifyTimeout time.Duration) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if searchTimeout <= 0 {
		searchTimeout = 5 * time.Second
	}
	if verifyTimeout <= 0 {
		verifyTimeout = 5 * time.Second
	}
	return &AuthService{
		logger:        logger,
		scanner:       scanner,
		verifier:      verifier,
		limiter:       limiter,
		searchTimeout: searchTimeout,
		verifyTimeout: verifyTimeout,
	}
}

// Login intenta autenticar email+password en una sola pasada, sin reintentos.
// El chequeo de cuenta bloqueada y el de password habilitado preceden a la
// verificacion de credencial, sea cual sea el password enviado.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (domain.UserSummary, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || password == "" {
		return domain.UserSummary{}, ErrMissingCredentials
	}

	if s.limiter != nil && !s.limiter.Allow(emailAddr) {
		return domain.UserSummary{}, ErrRateLimited
	}

	user, err := s.scanner.FindFirst(ctx, EmailEquals(emailAddr), s.searchTimeout)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrScanBudgetExceeded) {
			return domain.UserSummary{}, err
		}
		s.logger.Error("login user resolution failed", zap.Error(err))
		return domain.UserSummary{}, fmt.Errorf("resolve user: %w", err)
	}

	if user.Banned {
		return domain.UserSummary{}, ErrAccountBlocked
	}
	if !user.PasswordEnabled {
		return domain.UserSummary{}, ErrPasswordAuthUnavailable
	}

	verified, err := s.verifyWithTimeout(ctx, user.ID, password)
	if err != nil {
		if errors.Is(err, ErrVerifyTimeout) {
			s.logger.Warn("password verification timed out", zap.String("user_id", user.ID))
			return domain.UserSummary{}, err
		}
		s.logger.Error("password verification failed", zap.Error(err))
		return domain.UserSummary{}, fmt.Errorf("verify password: %w", err)
	}
	if !verified {
		return domain.UserSummary{}, ErrInvalidCredentials
	}

	return user.Summary(), nil
}

// verifyWithTimeout corre la verificacion contra un timer. La llamada en vuelo
// no se cancela al vencer el presupuesto: el canal con buffer deja que el
// resultado tardio se descarte sin bloquear la goroutine.
func (s *AuthService) verifyWithTimeout(ctx context.Context, id, password string) (bool, error) {
	type result struct {
		verified bool
		err      error
	}
	ch := make(chan result, 1)
	go func() {
		verified, err := s.verifier.VerifyPassword(ctx, id, password)
		ch <- result{verified: verified, err: err}
	}()

	timer := time.NewTimer(s.verifyTimeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.verified, r.err
	case <-timer.C:
		return false, ErrVerifyTimeout
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
