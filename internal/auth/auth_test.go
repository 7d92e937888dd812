package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chitieu/internal/core"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]core.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]core.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, u core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Username]; ok {
		return core.ErrDuplicateUser
	}
	f.users[u.Username] = u
	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, username string) (core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func newTestService(store UserStore) *Service {
	return NewService(store, "test-secret", DefaultTokenTTL)
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUserStore())

	user, token, err := svc.Register(ctx, "an", "s3cret", "an@example.com", "An")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatal("register returned empty token")
	}
	if user.PasswordHash == "s3cret" {
		t.Fatal("password stored in clear")
	}

	id, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify registered token: %v", err)
	}
	if id.Username != "an" || id.Email != "an@example.com" || id.Name != "An" {
		t.Fatalf("identity = %+v", id)
	}

	if _, _, err := svc.Login(ctx, "an", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, err := svc.Login(ctx, "an", "wrong"); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("wrong password: got %v, want ErrUnauthorized", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "s3cret"); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("unknown user: got %v, want ErrUnauthorized", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUserStore())

	if _, _, err := svc.Register(ctx, "an", "pw", "", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(ctx, "an", "other", "", ""); !errors.Is(err, core.ErrDuplicateUser) {
		t.Fatalf("duplicate register: got %v, want ErrDuplicateUser", err)
	}
}

func TestRegisterMissingCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUserStore())

	for _, tc := range []struct{ user, pass string }{{"", "pw"}, {"an", ""}, {"  ", "pw"}} {
		_, _, err := svc.Register(ctx, tc.user, tc.pass, "", "")
		if !errors.Is(err, core.ErrValidation) {
			t.Fatalf("register(%q, %q): got %v, want validation error", tc.user, tc.pass, err)
		}
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUserStore())
	_, token, err := svc.Register(ctx, "an", "pw", "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []string{
		"",
		"not-a-token",
		token + "x", // broken signature
	}
	for _, tok := range cases {
		if _, err := svc.Verify(tok); !errors.Is(err, core.ErrUnauthorized) {
			t.Fatalf("Verify(%q): got %v, want ErrUnauthorized", tok, err)
		}
	}

	// A token signed with a different secret must not verify.
	other := NewService(newFakeUserStore(), "other-secret", DefaultTokenTTL)
	if _, err := other.Verify(token); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("cross-secret verify: got %v, want ErrUnauthorized", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUserStore())

	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	_, token, err := svc.Register(ctx, "an", "pw", "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(DefaultTokenTTL + time.Hour) }
	if _, err := svc.Verify(token); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expired verify: got %v, want ErrUnauthorized", err)
	}
}
