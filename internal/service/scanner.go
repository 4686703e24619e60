package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"clerk-admin/internal/clerk"
	"clerk-admin/internal/domain"
)

var (
	// ErrUserNotFound indica que el scan agoto el directorio sin coincidencias.
	ErrUserNotFound = errors.New("user not found")
	// ErrScanBudgetExceeded indica que el presupuesto de tiempo del scan vencio
	// antes de agotar el directorio; no equivale a "usuario inexistente".
	ErrScanBudgetExceeded = errors.New("directory scan time budget exceeded")
)

// UserPager es el subconjunto del cliente del proveedor que usa el scanner.
type UserPager interface {
	GetUserList(ctx context.Context, params clerk.ListParams) ([]domain.User, error)
}

// UserPredicate decide si un registro coincide con la busqueda.
type UserPredicate func(domain.User) bool

// DirectoryScanner recorre el listado del proveedor en paginas de tamano fijo.
// El proveedor no expone total ni cursor, asi que la unica senal de fin de
// datos es una pagina corta o vacia; maxOffset acota el costo en el peor caso
// y garantiza terminacion aunque el proveedor nunca devuelva pagina corta.
type DirectoryScanner struct {
	logger    *zap.Logger
	pager     UserPager
	pageSize  int
	maxOffset int
}

// NewDirectoryScanner crea un scanner con page size y techo de offset.
func NewDirectoryScanner(logger *zap.Logger, pager UserPager, pageSize, maxOffset int) *DirectoryScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	if maxOffset <= 0 {
		maxOffset = 10000
	}
	return &DirectoryScanner{
		logger:    logger,
		pager:     pager,
		pageSize:  pageSize,
		maxOffset: maxOffset,
	}
}

// FindFirst devuelve el primer registro que cumple match, sin pedir paginas
// mas alla de la que contiene la coincidencia. Con maxElapsed > 0 el
// presupuesto se evalua en el borde de cada pagina, nunca a mitad de una.
func (s *DirectoryScanner) FindFirst(ctx context.Context, match UserPredicate, maxElapsed time.Duration) (domain.User, error) {
	start := time.Now()
	for offset := 0; offset < s.maxOffset; offset += s.pageSize {
		if maxElapsed > 0 && time.Since(start) > maxElapsed {
			s.logger.Warn("directory scan budget exceeded",
				zap.Int("offset", offset),
				zap.Duration("budget", maxElapsed),
			)
			return domain.User{}, ErrScanBudgetExceeded
		}

		page, err := s.pager.GetUserList(ctx, clerk.ListParams{Limit: s.pageSize, Offset: offset})
		if err != nil {
			return domain.User{}, fmt.Errorf("list users at offset %d: %w", offset, err)
		}
		for _, u := range page {
			if match(u) {
				return u, nil
			}
		}
		// Pagina corta o vacia: asumimos directorio agotado. El proveedor no
		// da total-count; si llegara a devolver una pagina corta no final,
		// esta heuristica corta antes de tiempo.
		if len(page) < s.pageSize {
			return domain.User{}, ErrUserNotFound
		}
	}
	return domain.User{}, ErrUserNotFound
}

// CollectMatches acumula todos los registros que cumplen match. Ante una falla
// a mitad del scan devuelve lo acumulado junto con el error; el caller decide
// si el resultado parcial sirve (busqueda best-effort) o no (lookup).
func (s *DirectoryScanner) CollectMatches(ctx context.Context, match UserPredicate) ([]domain.User, error) {
	matches := make([]domain.User, 0)
	for offset := 0; offset < s.maxOffset; offset += s.pageSize {
		page, err := s.pager.GetUserList(ctx, clerk.ListParams{Limit: s.pageSize, Offset: offset})
		if err != nil {
			return matches, fmt.Errorf("list users at offset %d: %w", offset, err)
		}
		for _, u := range page {
			if match(u) {
				matches = append(matches, u)
			}
		}
		if len(page) < s.pageSize {
			break
		}
	}
	return matches, nil
}

// EmailEquals matchea igualdad exacta de email, sin distinguir mayusculas,
// contra todas las direcciones del registro.
func EmailEquals(email string) UserPredicate {
	target := strings.ToLower(strings.TrimSpace(email))
	return func(u domain.User) bool {
		for _, ea := range u.EmailAddresses {
			if strings.ToLower(ea.EmailAddress) == target {
				return true
			}
		}
		return false
	}
}

// EmailContains matchea por substring, sin distinguir mayusculas.
func EmailContains(fragment string) UserPredicate {
	target := strings.ToLower(strings.TrimSpace(fragment))
	return func(u domain.User) bool {
		for _, ea := range u.EmailAddresses {
			if strings.Contains(strings.ToLower(ea.EmailAddress), target) {
				return true
			}
		}
		return false
	}
}
