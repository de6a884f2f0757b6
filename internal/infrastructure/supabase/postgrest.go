package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/youbook/booking-api/internal/core/domain"
	"github.com/youbook/booking-api/internal/core/ports"
)

const (
	profilesPath = "/rest/v1/profiles"
	walletsPath  = "/rest/v1/wallets"
)

// ProfileRepository persists profile rows through the PostgREST API.
type ProfileRepository struct {
	client *Client
}

func NewProfileRepository(client *Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)

// profileRow mirrors the profiles table. Timestamps are omitted on insert so
// the store's defaults apply.
type profileRow struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name,omitempty"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	CNIC        string     `json:"cnic"`
	Role        string     `json:"role"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func (r profileRow) toDomain() domain.Profile {
	p := domain.Profile{
		ID:          r.ID,
		Email:       r.Email,
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
		AvatarURL:   r.AvatarURL,
		CNIC:        r.CNIC,
		Role:        domain.Role(r.Role),
	}
	if r.CreatedAt != nil {
		p.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		p.UpdatedAt = *r.UpdatedAt
	}
	return p
}

func (r *ProfileRepository) Insert(ctx context.Context, p *domain.Profile) error {
	row := profileRow{
		ID:          p.ID,
		Email:       p.Email,
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		AvatarURL:   p.AvatarURL,
		CNIC:        p.CNIC,
		Role:        p.Role.String(),
	}
	status, raw, err := r.client.do(ctx, request{
		method:  http.MethodPost,
		path:    profilesPath,
		body:    row,
		headers: map[string]string{"Prefer": "return=minimal"},
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return storeError(status, raw)
	}
	return nil
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.findOne(ctx, url.Values{"email": {"eq." + email}, "select": {"*"}})
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.findOne(ctx, url.Values{"id": {"eq." + id}, "select": {"*"}})
}

func (r *ProfileRepository) findOne(ctx context.Context, q url.Values) (*domain.Profile, error) {
	status, raw, err := r.client.do(ctx, request{
		method: http.MethodGet,
		path:   profilesPath,
		query:  q,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, storeError(status, raw)
	}

	var rows []profileRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProfileNotFound
	}
	p := rows[0].toDomain()
	return &p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, upd ports.ProfileUpdate) (*domain.Profile, error) {
	patch := map[string]any{}
	if upd.FullName != nil {
		patch["full_name"] = *upd.FullName
	}
	if upd.PhoneNumber != nil {
		patch["phone_number"] = *upd.PhoneNumber
	}
	if upd.AvatarURL != nil {
		patch["avatar_url"] = *upd.AvatarURL
	}
	if upd.CNIC != nil {
		patch["cnic"] = *upd.CNIC
	}
	if len(patch) == 0 {
		return r.FindByID(ctx, id)
	}
	patch["updated_at"] = time.Now().UTC()

	status, raw, err := r.client.do(ctx, request{
		method:  http.MethodPatch,
		path:    profilesPath,
		query:   url.Values{"id": {"eq." + id}},
		body:    patch,
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, storeError(status, raw)
	}

	var rows []profileRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProfileNotFound
	}
	p := rows[0].toDomain()
	return &p, nil
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	status, raw, err := r.client.do(ctx, request{
		method:  http.MethodPatch,
		path:    profilesPath,
		query:   url.Values{"id": {"eq." + id}},
		body:    map[string]any{"role": role.String(), "updated_at": time.Now().UTC()},
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return storeError(status, raw)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("decode profiles: %w", err)
	}
	if len(rows) == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) List(ctx context.Context, filter ports.ProfileFilter) ([]domain.Profile, error) {
	q := url.Values{"select": {"*"}, "order": {"created_at.desc"}}
	if filter.Role != "" {
		q.Set("role", "eq."+filter.Role.String())
	}
	if filter.Search != "" {
		pattern := "*" + filter.Search + "*"
		q.Set("or", fmt.Sprintf("(email.ilike.%s,full_name.ilike.%s)", pattern, pattern))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	status, raw, err := r.client.do(ctx, request{
		method: http.MethodGet,
		path:   profilesPath,
		query:  q,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, storeError(status, raw)
	}

	var rows []profileRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	profiles := make([]domain.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toDomain())
	}
	return profiles, nil
}

// WalletRepository creates wallet rows through the PostgREST API.
type WalletRepository struct {
	client *Client
}

func NewWalletRepository(client *Client) *WalletRepository {
	return &WalletRepository{client: client}
}

var _ ports.WalletRepository = (*WalletRepository)(nil)

func (r *WalletRepository) Insert(ctx context.Context, userID string) error {
	status, raw, err := r.client.do(ctx, request{
		method:  http.MethodPost,
		path:    walletsPath,
		body:    map[string]string{"user_id": userID},
		headers: map[string]string{"Prefer": "return=minimal"},
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return storeError(status, raw)
	}
	return nil
}

// pgError is PostgREST's error envelope; code carries the Postgres SQLSTATE.
type pgError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// storeError converts a PostgREST failure into the typed *domain.StoreError.
// Classification is by SQLSTATE code; the column is extracted best-effort from
// the constraint text since the store reports it nowhere structured.
func storeError(status int, raw []byte) error {
	var pe pgError
	_ = json.Unmarshal(raw, &pe)

	kind := domain.StoreUnknown
	switch pe.Code {
	case "23505":
		kind = domain.StoreUniqueViolation
	case "23502":
		kind = domain.StoreNotNullViolation
	case "23503":
		kind = domain.StoreForeignKeyViolation
	case "42501":
		kind = domain.StorePermissionDenied
	}
	if kind == domain.StoreUnknown {
		// Compatibility shim for deployments that strip error codes.
		msg := strings.ToLower(pe.Message + " " + pe.Details)
		switch {
		case strings.Contains(msg, "duplicate key value"):
			kind = domain.StoreUniqueViolation
		case strings.Contains(msg, "not-null constraint"):
			kind = domain.StoreNotNullViolation
		case strings.Contains(msg, "foreign key constraint"):
			kind = domain.StoreForeignKeyViolation
		case strings.Contains(msg, "permission denied"), strings.Contains(msg, "row-level security"):
			kind = domain.StorePermissionDenied
		}
	}

	message := pe.Message
	if message == "" {
		message = fmt.Sprintf("status %d", status)
	}
	return &domain.StoreError{
		Kind:    kind,
		Column:  constraintColumn(pe.Message + " " + pe.Details),
		Message: message,
	}
}

// constraintColumn guesses the offending column from the constraint name in
// the error text. Best-effort only.
func constraintColumn(msg string) string {
	msg = strings.ToLower(msg)
	for _, col := range []string{"cnic", "email", "user_id", "id"} {
		if strings.Contains(msg, col) {
			return col
		}
	}
	return ""
}
