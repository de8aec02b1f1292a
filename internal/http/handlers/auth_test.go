package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/contactbook/internal/domain/user"
	"github.com/geocoder89/contactbook/internal/http/handlers"
	"github.com/geocoder89/contactbook/internal/security"
	"github.com/gin-gonic/gin"
)

// keep gin quiet during tests

func init() {
	gin.SetMode(gin.TestMode)
}

// fake implementation of the handlers.UserStore interface

type fakeUserStore struct {
	createFn         func(ctx context.Context, req user.CreateUserRequest) (user.User, error)
	getByEmailFn     func(ctx context.Context, email string) (user.User, error)
	updatePasswordFn func(ctx context.Context, email, newHash string) error
}

func (f *fakeUserStore) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}

	return user.User{ID: 1, Name: req.Name, Email: req.Email}, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}

	return user.User{}, user.ErrNotFound
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, email, newHash string) error {
	if f.updatePasswordFn != nil {
		return f.updatePasswordFn(ctx, email, newHash)
	}

	return nil
}

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		storeSetup     func(*fakeUserStore)
		wantStatusCode int
	}{
		{
			name:           "success",
			body:           `{"name":"Amy","email":"a@x.com","password":"pw1","gender":"Female","phone":"123"}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing_fields",
			body:           `{"name":"Amy"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "duplicate_email_pre_check",
			body: `{"name":"Amy","email":"a@x.com","password":"pw1","gender":"female","phone":"123"}`,
			storeSetup: func(f *fakeUserStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return user.User{ID: 1, Email: email}, nil
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			// two identical registrations racing past the pre-check: the
			// unique constraint reports the duplicate instead
			name: "duplicate_email_on_insert",
			body: `{"name":"Amy","email":"a@x.com","password":"pw1","gender":"female","phone":"123"}`,
			storeSetup: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "repo_error",
			body: `{"name":"Amy","email":"a@x.com","password":"pw1","gender":"female","phone":"123"}`,
			storeSetup: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUserStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewAuthHandler(store)
			r := setupRouter(http.MethodPost, "/register", h.Register)

			w := doJSON(t, r, http.MethodPost, "/register", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRegisterHandler_NormalizesGender(t *testing.T) {
	var got user.CreateUserRequest

	store := &fakeUserStore{
		createFn: func(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
			got = req
			return user.User{ID: 1}, nil
		},
	}

	h := handlers.NewAuthHandler(store)
	r := setupRouter(http.MethodPost, "/register", h.Register)

	w := doJSON(t, r, http.MethodPost, "/register",
		`{"name":"Amy","email":"a@x.com","password":"pw1","gender":"  Female ","phone":"123"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if got.Gender != "female" {
		t.Fatalf("gender not normalized: got %q", got.Gender)
	}

	if got.PasswordHash == "pw1" || got.PasswordHash == "" {
		t.Fatalf("plaintext must be hashed before it reaches the store")
	}
}

func TestRegisterHandler_AllMissingFieldsNamed(t *testing.T) {
	h := handlers.NewAuthHandler(&fakeUserStore{})
	r := setupRouter(http.MethodPost, "/register", h.Register)

	w := doJSON(t, r, http.MethodPost, "/register", `{"name":"Amy"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Details struct {
			Fields []handlers.FieldError `json:"fields"`
		} `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	want := map[string]bool{"email": false, "password": false, "gender": false, "phone": false}

	for _, fieldErr := range resp.Details.Fields {
		if _, ok := want[fieldErr.Field]; ok {
			want[fieldErr.Field] = true
		}
	}

	for field, seen := range want {
		if !seen {
			t.Fatalf("missing field error for %q: %+v", field, resp.Details.Fields)
		}
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("pw1")

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	stored := user.User{ID: 1, Name: "Amy", Email: "a@x.com", PasswordHash: hash}

	tests := []struct {
		name           string
		body           string
		storeSetup     func(*fakeUserStore)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email":"a@x.com","password":"pw1"}`,
			storeSetup: func(f *fakeUserStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_fields",
			body:           `{"email":"a@x.com"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "user_not_found",
			body:           `{"email":"nobody@x.com","password":"pw1"}`,
			wantStatusCode: http.StatusNotFound,
		},
		{
			// wrong password is 401, never a 500
			name: "wrong_password",
			body: `{"email":"a@x.com","password":"wrong"}`,
			storeSetup: func(f *fakeUserStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "repo_error",
			body: `{"email":"a@x.com","password":"pw1"}`,
			storeSetup: func(f *fakeUserStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUserStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewAuthHandler(store)
			r := setupRouter(http.MethodPost, "/login", h.Login)

			w := doJSON(t, r, http.MethodPost, "/login", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Status int `json:"status"`
					User   struct {
						ID   int64  `json:"id"`
						Name string `json:"name"`
					} `json:"user"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Status != http.StatusOK {
					t.Fatalf("body status %d should mirror HTTP status", resp.Status)
				}
				if resp.User.ID != 1 || resp.User.Name != "Amy" {
					t.Fatalf("unexpected identity projection: %+v", resp.User)
				}
				if bytes.Contains(w.Body.Bytes(), []byte(hash)) {
					t.Fatalf("response must never contain the password hash")
				}
			}
		})
	}
}

func TestForgotPasswordHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		storeSetup     func(*fakeUserStore)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email":"a@x.com","password":"newpw"}`,
			storeSetup: func(f *fakeUserStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return user.User{ID: 1, Email: email}, nil
				}
				f.updatePasswordFn = func(ctx context.Context, email, newHash string) error {
					if newHash == "newpw" {
						return errors.New("plaintext reached the store")
					}
					return nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_fields",
			body:           `{"email":"a@x.com"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "user_not_found",
			body:           `{"email":"nobody@x.com","password":"newpw"}`,
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "repo_error",
			body: `{"email":"a@x.com","password":"newpw"}`,
			storeSetup: func(f *fakeUserStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return user.User{ID: 1, Email: email}, nil
				}
				f.updatePasswordFn = func(ctx context.Context, email, newHash string) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUserStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewAuthHandler(store)
			r := setupRouter(http.MethodPost, "/forgot-password", h.ForgotPassword)

			w := doJSON(t, r, http.MethodPost, "/forgot-password", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
