package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clerk-admin/internal/clerk"
	"clerk-admin/internal/domain"
	"clerk-admin/internal/service"
)

func setupRouter(mock *clerk.Mock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	scanner := service.NewDirectoryScanner(logger, mock, 2, 100)
	userSvc := service.NewUserService(logger, mock, scanner)
	authSvc := service.NewAuthService(logger, scanner, mock, nil, 0, 0)
	return NewRouter(logger, NewUserHandler(logger, userSvc), NewAuthHandler(logger, authSvc))
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func directoryUser(id, email string) domain.User {
	return domain.User{
		ID:              id,
		EmailAddresses:  []domain.EmailAddress{{EmailAddress: email}},
		PasswordEnabled: true,
	}
}

func pagedList(users ...domain.User) func(context.Context, clerk.ListParams) ([]domain.User, error) {
	return func(_ context.Context, params clerk.ListParams) ([]domain.User, error) {
		if params.Offset >= len(users) {
			return nil, nil
		}
		end := params.Offset + params.Limit
		if end > len(users) {
			end = len(users)
		}
		return users[params.Offset:end], nil
	}
}

func TestCreateUserEndpoint(t *testing.T) {
	mock := &clerk.Mock{
		CreateUserFn: func(_ context.Context, params clerk.CreateUserParams) (*domain.User, error) {
			return &domain.User{ID: "u1", EmailAddresses: []domain.EmailAddress{{EmailAddress: params.EmailAddress[0]}}}, nil
		},
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodPost, "/user", map[string]string{
		"email":    "ana@example.com",
		"password": "secret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateUserEndpoint_MissingPassword(t *testing.T) {
	r := setupRouter(&clerk.Mock{})

	rec := performRequest(r, http.MethodPost, "/user", map[string]string{
		"email": "ana@example.com",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestGetUserEndpoint_NotFound(t *testing.T) {
	r := setupRouter(&clerk.Mock{}) // sin GetUserFn: responde not found

	rec := performRequest(r, http.MethodGet, "/user/u_missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestDeleteUserEndpoint(t *testing.T) {
	mock := &clerk.Mock{
		DeleteUserFn: func(_ context.Context, id string) error { return nil },
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodDelete, "/user/u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
}

func TestListUsersEndpoint_Defaults(t *testing.T) {
	var got clerk.ListParams
	mock := &clerk.Mock{
		GetUserListFn: func(_ context.Context, params clerk.ListParams) ([]domain.User, error) {
			got = params
			return []domain.User{directoryUser("u1", "a@b.com")}, nil
		},
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodGet, "/user/list", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got.Limit != 50 || got.Offset != 0 {
		t.Fatalf("expected defaults 50/0, got %+v", got)
	}
}

func TestSearchEndpoint_MissingParam(t *testing.T) {
	r := setupRouter(&clerk.Mock{})

	rec := performRequest(r, http.MethodGet, "/user/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSearchEndpoint_SubstringMatch(t *testing.T) {
	mock := &clerk.Mock{
		GetUserListFn: pagedList(
			directoryUser("u1", "ana@acme.com"),
			directoryUser("u2", "bob@example.com"),
			directoryUser("u3", "carla@Acme.com"),
		),
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodGet, "/user/search?email=acme", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var users []domain.User
	json.Unmarshal(rec.Body.Bytes(), &users)
	if len(users) != 2 {
		t.Fatalf("expected 2 matches, got %d: %s", len(users), rec.Body.String())
	}
}

func TestSearchEndpoint_PartialOnUpstreamFailure(t *testing.T) {
	mock := &clerk.Mock{
		GetUserListFn: func(_ context.Context, params clerk.ListParams) ([]domain.User, error) {
			if params.Offset > 0 {
				return nil, errors.New("upstream down")
			}
			return []domain.User{
				directoryUser("u1", "ana@acme.com"),
				directoryUser("u2", "bob@example.com"),
			}, nil
		},
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodGet, "/user/search?email=acme", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("best-effort search should serve partial results, got %d", rec.Code)
	}
	var users []domain.User
	json.Unmarshal(rec.Body.Bytes(), &users)
	if len(users) != 1 || users[0].ID != "u1" {
		t.Fatalf("expected partial result u1, got %s", rec.Body.String())
	}
}

func TestLookupByEmailEndpoint(t *testing.T) {
	mock := &clerk.Mock{
		GetUserListFn: pagedList(
			directoryUser("u1", "ana@example.com"),
			directoryUser("u2", "Bob@Example.com"),
		),
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodGet, "/user/email/bob@example.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var user domain.User
	json.Unmarshal(rec.Body.Bytes(), &user)
	if user.ID != "u2" {
		t.Fatalf("expected u2, got %+v", user)
	}
}

func TestLookupByEmailEndpoint_NotFound(t *testing.T) {
	mock := &clerk.Mock{
		GetUserListFn: pagedList(directoryUser("u1", "ana@example.com")),
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodGet, "/user/email/missing@example.com", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestLookupByEmailEndpoint_UpstreamFailure(t *testing.T) {
	mock := &clerk.Mock{
		GetUserListFn: func(_ context.Context, _ clerk.ListParams) ([]domain.User, error) {
			return nil, errors.New("upstream down")
		},
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodGet, "/user/email/ana@example.com", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("lookup requires a definitive answer, expected 500, got %d", rec.Code)
	}
}

func TestBlockEndpoint(t *testing.T) {
	mock := &clerk.Mock{
		UpdateUserFn: func(_ context.Context, id string, params clerk.UpdateUserParams) (*domain.User, error) {
			return &domain.User{ID: id, Banned: params.Banned != nil && *params.Banned}, nil
		},
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodPost, "/user/block/u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		Success bool        `json:"success"`
		User    domain.User `json:"user"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if !body.Success || !body.User.Banned {
		t.Fatalf("expected banned user envelope, got %s", rec.Body.String())
	}
}

func TestResetPasswordEndpoint(t *testing.T) {
	mock := &clerk.Mock{
		SendPasswordResetEmailFn: func(_ context.Context, id string) error { return nil },
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodPost, "/user/reset-password/u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestSetPasswordEndpoint_MissingPassword(t *testing.T) {
	r := setupRouter(&clerk.Mock{})

	rec := performRequest(r, http.MethodPatch, "/user/password/u1", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUpdateMetadataEndpoint(t *testing.T) {
	var got clerk.UpdateUserParams
	mock := &clerk.Mock{
		UpdateUserFn: func(_ context.Context, id string, params clerk.UpdateUserParams) (*domain.User, error) {
			got = params
			return &domain.User{ID: id}, nil
		},
	}
	r := setupRouter(mock)

	rec := performRequest(r, http.MethodPatch, "/user/metadata/u1", map[string]any{"plan": "pro"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got.PublicMetadata["plan"] != "pro" {
		t.Fatalf("expected metadata forwarded, got %+v", got.PublicMetadata)
	}
}

func TestHealthzEndpoint(t *testing.T) {
	r := setupRouter(&clerk.Mock{})

	rec := performRequest(r, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
