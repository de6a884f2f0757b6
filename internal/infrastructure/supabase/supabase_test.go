package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		URL:            srv.URL,
		AnonKey:        "anon-key",
		ServiceRoleKey: "service-key",
	}, zerolog.Nop())
}

func TestIdentityProvider_SignUp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Fatalf("expected anon key, got %q", r.Header.Get("apikey"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "alice@example.com" {
			t.Fatalf("unexpected body: %+v", body)
		}
		if data, ok := body["data"].(map[string]any); !ok || data["full_name"] != "Alice" {
			t.Fatalf("metadata not forwarded: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":           "identity-1",
			"email":        "alice@example.com",
			"confirmed_at": "2026-01-01T00:00:00Z",
		})
	})

	idp := NewIdentityProvider(client)
	identity, err := idp.SignUp(context.Background(), "alice@example.com", "secret", map[string]any{"full_name": "Alice"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if identity.ID != "identity-1" || !identity.Confirmed {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestIdentityProvider_SignUp_WrappedUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "jwt",
			"user":         map[string]string{"id": "identity-2", "email": "bob@example.com"},
		})
	})

	idp := NewIdentityProvider(client)
	identity, err := idp.SignUp(context.Background(), "bob@example.com", "secret", nil)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if identity.ID != "identity-2" || identity.Confirmed {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestIdentityProvider_SignUp_Duplicate(t *testing.T) {
	cases := map[string]map[string]string{
		"error code":        {"error_code": "user_already_exists", "msg": "User already registered"},
		"message substring": {"msg": "A user with this email address has already been registered"},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_ = json.NewEncoder(w).Encode(payload)
			})

			idp := NewIdentityProvider(client)
			_, err := idp.SignUp(context.Background(), "alice@example.com", "secret", nil)
			if !errors.Is(err, domain.ErrDuplicateAccount) {
				t.Fatalf("expected ErrDuplicateAccount, got %v", err)
			}
		})
	}
}

func TestIdentityProvider_SignIn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Fatalf("unexpected request: %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "provider-jwt",
			"refresh_token": "provider-refresh",
		})
	})

	idp := NewIdentityProvider(client)
	session, err := idp.SignInWithPassword(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if session == nil || session.AccessToken != "provider-jwt" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestIdentityProvider_SignIn_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	})

	idp := NewIdentityProvider(client)
	session, err := idp.SignInWithPassword(context.Background(), "alice@example.com", "wrong")
	if err != nil {
		t.Fatalf("rejection must not be an error, got %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil session, got %+v", session)
	}
}

func TestIdentityProvider_AdminDeleteUsesServiceKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/auth/v1/admin/users/identity-1" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("apikey") != "service-key" || r.Header.Get("Authorization") != "Bearer service-key" {
			t.Fatalf("admin call must carry the service role key")
		}
		w.WriteHeader(http.StatusOK)
	})

	idp := NewIdentityProvider(client)
	if err := idp.AdminDeleteUser(context.Background(), "identity-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestIdentityProvider_GenerateLink(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["type"] != "signup" || body["redirect_to"] != "app://confirm" {
			t.Fatalf("unexpected body: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"action_link": "https://example.test/verify"})
	})

	idp := NewIdentityProvider(client)
	link, err := idp.AdminGenerateLink(context.Background(), "root@example.com", ports.LinkSignup, "app://confirm")
	if err != nil {
		t.Fatalf("generate link failed: %v", err)
	}
	if link != "https://example.test/verify" {
		t.Fatalf("unexpected link: %s", link)
	}
}

func TestClient_UpstreamErrorIsServiceUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	idp := NewIdentityProvider(client)
	_, err := idp.SignUp(context.Background(), "alice@example.com", "secret", nil)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestClient_TransportErrorIsServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewClient(Config{URL: srv.URL, AnonKey: "anon-key", ServiceRoleKey: "service-key"}, zerolog.Nop())

	idp := NewIdentityProvider(client)
	_, err := idp.SignInWithPassword(context.Background(), "alice@example.com", "secret")
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestClient_RetriesGetOnce(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("health should succeed on retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestProfileRepository_FindByEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/profiles" || r.URL.Query().Get("email") != "eq.alice@example.com" {
			t.Fatalf("unexpected request: %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode([]map[string]string{{
			"id":    "user-1",
			"email": "alice@example.com",
			"cnic":  "12345-6789012-3",
			"role":  "passenger",
		}})
	})

	repo := NewProfileRepository(client)
	profile, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if profile.ID != "user-1" || profile.Role != domain.RolePassenger {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestProfileRepository_FindByEmail_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	repo := NewProfileRepository(client)
	if _, err := repo.FindByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileRepository_Insert_UniqueViolation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Prefer") != "return=minimal" {
			t.Fatalf("expected return=minimal, got %q", r.Header.Get("Prefer"))
		}
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "23505",
			"message": `duplicate key value violates unique constraint "profiles_cnic_key"`,
		})
	})

	repo := NewProfileRepository(client)
	err := repo.Insert(context.Background(), &domain.Profile{ID: "user-1", Email: "alice@example.com", CNIC: "dup", Role: domain.RolePassenger})

	var se *domain.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if se.Kind != domain.StoreUniqueViolation || se.Column != "cnic" {
		t.Fatalf("unexpected classification: %+v", se)
	}
}

func TestProfileRepository_List_BuildsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("role") != "eq.driver" || q.Get("limit") != "50" || q.Get("offset") != "10" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("or") != "(email.ilike.*smith*,full_name.ilike.*smith*)" {
			t.Fatalf("unexpected search clause: %s", q.Get("or"))
		}
		_, _ = w.Write([]byte("[]"))
	})

	repo := NewProfileRepository(client)
	_, err := repo.List(context.Background(), ports.ProfileFilter{
		Role:   domain.RoleDriver,
		Search: "smith",
		Offset: 10,
		Limit:  50,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestWalletRepository_Insert(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/wallets" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["user_id"] != "user-1" {
			t.Fatalf("unexpected body: %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
	})

	repo := NewWalletRepository(client)
	if err := repo.Insert(context.Background(), "user-1"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
}

func TestStoreErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		body string
		kind domain.StoreErrorKind
	}{
		{"unique by code", `{"code":"23505","message":"x"}`, domain.StoreUniqueViolation},
		{"not null by code", `{"code":"23502","message":"x"}`, domain.StoreNotNullViolation},
		{"foreign key by code", `{"code":"23503","message":"x"}`, domain.StoreForeignKeyViolation},
		{"permission by code", `{"code":"42501","message":"x"}`, domain.StorePermissionDenied},
		{"unique by message", `{"message":"duplicate key value violates unique constraint"}`, domain.StoreUniqueViolation},
		{"rls by message", `{"message":"new row violates row-level security policy"}`, domain.StorePermissionDenied},
		{"unknown", `{"message":"something odd"}`, domain.StoreUnknown},
		{"empty body", ``, domain.StoreUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := storeError(http.StatusConflict, []byte(tc.body))
			var se *domain.StoreError
			if !errors.As(err, &se) {
				t.Fatalf("expected StoreError, got %v", err)
			}
			if se.Kind != tc.kind {
				t.Fatalf("expected kind %v, got %v", tc.kind, se.Kind)
			}
		})
	}
}
