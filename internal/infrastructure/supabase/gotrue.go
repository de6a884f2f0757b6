package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
)

// IdentityProvider talks to the GoTrue auth API. It owns nothing: credential
// storage, password hashing, and email delivery all live provider-side.
type IdentityProvider struct {
	client *Client
}

func NewIdentityProvider(client *Client) *IdentityProvider {
	return &IdentityProvider{client: client}
}

var _ ports.IdentityProvider = (*IdentityProvider)(nil)

// gotrueError is the error envelope GoTrue returns on 4xx responses.
type gotrueError struct {
	Code    string `json:"error_code"`
	Message string `json:"msg"`
	ErrDesc string `json:"error_description"`
}

func (e gotrueError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrDesc
}

// gotrueUser is the subset of the provider's user record this subsystem reads.
type gotrueUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	ConfirmedAt string `json:"confirmed_at"`
}

func (p *IdentityProvider) SignUp(ctx context.Context, email, password string, metadata map[string]any) (domain.Identity, error) {
	body := map[string]any{"email": email, "password": password}
	if metadata != nil {
		body["data"] = metadata
	}

	status, raw, err := p.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   body,
	})
	if err != nil {
		return domain.Identity{}, err
	}
	if status != http.StatusOK {
		var ge gotrueError
		_ = json.Unmarshal(raw, &ge)
		if isDuplicateIdentity(ge) {
			return domain.Identity{}, domain.ErrDuplicateAccount
		}
		return domain.Identity{}, fmt.Errorf("gotrue signup: status %d: %s", status, ge.text())
	}

	// The signup payload is the user record, or wraps it under "user" when a
	// session is issued alongside.
	var direct gotrueUser
	if err := json.Unmarshal(raw, &direct); err == nil && direct.ID != "" {
		return identityFrom(direct), nil
	}
	var wrapped struct {
		User gotrueUser `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User.ID != "" {
		return identityFrom(wrapped.User), nil
	}
	return domain.Identity{}, fmt.Errorf("gotrue signup: no user in response")
}

func (p *IdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	q := url.Values{"grant_type": {"password"}}
	status, raw, err := p.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  q,
		body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		// A rejected pair is a normal outcome, not an error.
		return nil, nil
	}

	var session struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(raw, &session); err != nil || session.AccessToken == "" {
		return nil, nil
	}
	return &domain.Session{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, nil
}

func (p *IdentityProvider) AdminDeleteUser(ctx context.Context, id string) error {
	status, raw, err := p.client.do(ctx, request{
		method: http.MethodDelete,
		path:   "/auth/v1/admin/users/" + url.PathEscape(id),
		admin:  true,
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		var ge gotrueError
		_ = json.Unmarshal(raw, &ge)
		return fmt.Errorf("gotrue admin delete: status %d: %s", status, ge.text())
	}
	return nil
}

func (p *IdentityProvider) AdminGenerateLink(ctx context.Context, email string, linkType ports.LinkType, redirectTo string) (string, error) {
	status, raw, err := p.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/admin/generate_link",
		admin:  true,
		body: map[string]any{
			"type":        string(linkType),
			"email":       email,
			"redirect_to": redirectTo,
		},
	})
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		var ge gotrueError
		_ = json.Unmarshal(raw, &ge)
		return "", fmt.Errorf("gotrue generate link: status %d: %s", status, ge.text())
	}

	var link struct {
		ActionLink string `json:"action_link"`
	}
	if err := json.Unmarshal(raw, &link); err != nil || link.ActionLink == "" {
		return "", fmt.Errorf("gotrue generate link: no action link in response")
	}
	return link.ActionLink, nil
}

func (p *IdentityProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	q := url.Values{}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	status, raw, err := p.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/recover",
		query:  q,
		body:   map[string]string{"email": email},
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		var ge gotrueError
		_ = json.Unmarshal(raw, &ge)
		return fmt.Errorf("gotrue recover: status %d: %s", status, ge.text())
	}
	return nil
}

// isDuplicateIdentity recognises the provider's duplicate-email rejection.
// Newer GoTrue versions carry a stable error_code; the message check is a
// compatibility shim for older deployments.
func isDuplicateIdentity(ge gotrueError) bool {
	if ge.Code == "user_already_exists" || ge.Code == "email_exists" {
		return true
	}
	msg := strings.ToLower(ge.text())
	return strings.Contains(msg, "already registered") || strings.Contains(msg, "already exists")
}

func identityFrom(u gotrueUser) domain.Identity {
	return domain.Identity{
		ID:        u.ID,
		Email:     u.Email,
		Confirmed: u.ConfirmedAt != "",
	}
}
