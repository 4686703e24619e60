package clerk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"clerk-admin/internal/domain"
)

// Client define la interfaz de administracion del proveedor de identidad.
// El unico estado compartido es el transporte HTTP, que es reentrante; una
// instancia se comparte entre requests concurrentes.
type Client interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserList(ctx context.Context, params ListParams) ([]domain.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*domain.User, error)
	VerifyPassword(ctx context.Context, id, password string) (bool, error)
	SendPasswordResetEmail(ctx context.Context, id string) error
}

// CreateUserParams es el payload de alta de usuario del proveedor.
type CreateUserParams struct {
	EmailAddress   []string       `json:"email_address"`
	Password       string         `json:"password,omitempty"`
	FirstName      string         `json:"first_name,omitempty"`
	LastName       string         `json:"last_name,omitempty"`
	PhoneNumber    []string       `json:"phone_number,omitempty"`
	PublicMetadata map[string]any `json:"public_metadata,omitempty"`
}

// ListParams controla la paginacion del listado. El proveedor limita el
// tamano maximo de pagina y el valor depende del deployment.
type ListParams struct {
	Limit  int
	Offset int
}

// UpdateUserParams es un update parcial: los campos nil no se tocan.
type UpdateUserParams struct {
	EmailAddress   []string       `json:"email_address,omitempty"`
	FirstName      *string        `json:"first_name,omitempty"`
	LastName       *string        `json:"last_name,omitempty"`
	PhoneNumber    []string       `json:"phone_number,omitempty"`
	Password       *string        `json:"password,omitempty"`
	Banned         *bool          `json:"banned,omitempty"`
	EmailVerified  *bool          `json:"email_verified,omitempty"`
	PublicMetadata map[string]any `json:"public_metadata,omitempty"`
}

// HTTPClient implementa Client contra la Backend API del proveedor.
type HTTPClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
	logger    *zap.Logger
}

// NewHTTPClient construye un cliente HTTP apuntando a la API de administracion.
func NewHTTPClient(baseURL, secretKey string, logger *zap.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://api.clerk.com/v1"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
	}
}

func (c *HTTPClient) CreateUser(ctx context.Context, params CreateUserParams) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/users", params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) GetUserList(ctx context.Context, params ListParams) ([]domain.User, error) {
	q := url.Values{}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	path := "/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) VerifyPassword(ctx context.Context, id, password string) (bool, error) {
	body := struct {
		Password string `json:"password"`
	}{Password: password}
	var resp struct {
		Verified bool `json:"verified"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(id)+"/verify_password", body, &resp); err != nil {
		return false, err
	}
	return resp.Verified, nil
}

func (c *HTTPClient) SendPasswordResetEmail(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(id)+"/reset_password", nil, nil)
}

// do ejecuta una llamada autenticada y decodifica la respuesta en out.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Errors []struct {
				Message string `json:"message"`
			} `json:"errors"`
		}
		if err := json.Unmarshal(respBody, &envelope); err == nil && len(envelope.Errors) > 0 && envelope.Errors[0].Message != "" {
			apiErr.Message = envelope.Errors[0].Message
		}
		c.logger.Warn("clerk api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
