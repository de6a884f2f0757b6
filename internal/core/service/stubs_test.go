package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
)

// stubIdentityProvider is an in-memory stand-in for the hosted auth service.
// It hashes passwords with bcrypt like the real provider would, so sign-in
// behaves faithfully in tests.
type stubIdentityProvider struct {
	mu         sync.Mutex
	identities map[string]*stubIdentity // keyed by email
	nextID     int

	signUpErr error // forced failure for SignUp
	deleteErr error // forced failure for AdminDeleteUser
	deleted   []string
	resetSent []string
	linksSent []string
}

type stubIdentity struct {
	id       string
	email    string
	hash     []byte
	metadata map[string]any
}

func newStubIdentityProvider() *stubIdentityProvider {
	return &stubIdentityProvider{identities: make(map[string]*stubIdentity)}
}

func (p *stubIdentityProvider) SignUp(_ context.Context, email, password string, metadata map[string]any) (domain.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.signUpErr != nil {
		return domain.Identity{}, p.signUpErr
	}
	if _, exists := p.identities[email]; exists {
		return domain.Identity{}, domain.ErrDuplicateAccount
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return domain.Identity{}, err
	}
	p.nextID++
	id := fmt.Sprintf("identity-%d", p.nextID)
	p.identities[email] = &stubIdentity{id: id, email: email, hash: hash, metadata: metadata}
	return domain.Identity{ID: id, Email: email}, nil
}

func (p *stubIdentityProvider) SignInWithPassword(_ context.Context, email, password string) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	identity, ok := p.identities[email]
	if !ok {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword(identity.hash, []byte(password)) != nil {
		return nil, nil
	}
	return &domain.Session{AccessToken: "provider-session-" + identity.id}, nil
}

func (p *stubIdentityProvider) AdminDeleteUser(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleteErr != nil {
		return p.deleteErr
	}
	for email, identity := range p.identities {
		if identity.id == id {
			delete(p.identities, email)
			p.deleted = append(p.deleted, id)
			return nil
		}
	}
	return fmt.Errorf("identity %s not found", id)
}

func (p *stubIdentityProvider) AdminGenerateLink(_ context.Context, email string, linkType ports.LinkType, redirectTo string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.linksSent = append(p.linksSent, email)
	return "https://example.test/confirm?email=" + email, nil
}

func (p *stubIdentityProvider) ResetPasswordForEmail(_ context.Context, email, redirectTo string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetSent = append(p.resetSent, email)
	return nil
}

// stubProfileRepo is an in-memory profiles table with forced-failure hooks.
type stubProfileRepo struct {
	mu        sync.Mutex
	profiles  map[string]*domain.Profile // keyed by email
	insertErr error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubProfileRepo) Insert(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, existing := range r.profiles {
		if existing.CNIC == p.CNIC || existing.Email == p.Email {
			return &domain.StoreError{Kind: domain.StoreUniqueViolation, Column: "cnic", Message: "duplicate key value"}
		}
	}
	r.profiles[p.Email] = cloneProfile(p)
	return nil
}

func (r *stubProfileRepo) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[email]; ok {
		return cloneProfile(p), nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.ID == id {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) Update(_ context.Context, id string, upd ports.ProfileUpdate) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.ID != id {
			continue
		}
		if upd.FullName != nil {
			p.FullName = *upd.FullName
		}
		if upd.PhoneNumber != nil {
			p.PhoneNumber = *upd.PhoneNumber
		}
		if upd.AvatarURL != nil {
			p.AvatarURL = *upd.AvatarURL
		}
		if upd.CNIC != nil {
			p.CNIC = *upd.CNIC
		}
		return cloneProfile(p), nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.ID == id {
			p.Role = role
			return nil
		}
	}
	return domain.ErrProfileNotFound
}

func (r *stubProfileRepo) List(_ context.Context, filter ports.ProfileFilter) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Profile
	for _, p := range r.profiles {
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		if filter.Search != "" && !strings.Contains(p.Email, filter.Search) && !strings.Contains(p.FullName, filter.Search) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// stubWalletRepo is an in-memory wallets table with a forced-failure hook.
type stubWalletRepo struct {
	mu        sync.Mutex
	wallets   map[string]bool // keyed by user id
	insertErr error
}

func newStubWalletRepo() *stubWalletRepo {
	return &stubWalletRepo{wallets: make(map[string]bool)}
}

func (r *stubWalletRepo) Insert(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.wallets[userID] = true
	return nil
}
