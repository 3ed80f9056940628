package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                   "",
		"Bearer abc":         "abc",
		"bearer   abc  ":     "abc",
		"BEARER abc":         "abc",
		"Basic dXNlcjpwdw==": "",
		"Bearer":             "",
		"abc":                "",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/todos", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		if got := BearerToken(r); got != want {
			t.Fatalf("BearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestRequireUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Signup(ctx, "alice", "pw123"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	issued, err := f.svc.Login(ctx, "alice", "pw123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	var gotErr error
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusUnauthorized)
	}

	reached := false
	protected := f.svc.RequireUser(onError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		u, ok := UserFrom(r.Context())
		if !ok || u.Username != "alice" {
			t.Errorf("user missing from context: %+v", u)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("valid token", func(t *testing.T) {
		reached, gotErr = false, nil
		r := httptest.NewRequest(http.MethodGet, "/todos", nil)
		r.Header.Set("Authorization", "Bearer "+issued.Token)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)
		if w.Code != http.StatusNoContent || !reached || gotErr != nil {
			t.Fatalf("code=%d reached=%v err=%v", w.Code, reached, gotErr)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		reached, gotErr = false, nil
		r := httptest.NewRequest(http.MethodGet, "/todos", nil)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)
		if reached || !errors.Is(gotErr, ErrInvalidCredentials) {
			t.Fatalf("reached=%v err=%v", reached, gotErr)
		}
	})

	t.Run("garbled token", func(t *testing.T) {
		reached, gotErr = false, nil
		r := httptest.NewRequest(http.MethodGet, "/todos", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)
		if reached || !errors.Is(gotErr, ErrInvalidCredentials) {
			t.Fatalf("reached=%v err=%v", reached, gotErr)
		}
	})
}

func TestUserFrom_Empty(t *testing.T) {
	t.Parallel()

	if _, ok := UserFrom(context.Background()); ok {
		t.Fatalf("expected no user in empty context")
	}
}
