package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/asistoya/shared-services/internal/core/domain"
)

var ErrTokenNotFound = errors.New("auth: token not found or already used")

// Identity is an auth user together with its password hash.
type Identity struct {
	User         domain.AuthUser
	PasswordHash string
}

// IdentityStore persists identities and their single-use tokens. Finders
// return nil and no error when nothing matches.
type IdentityStore interface {
	Create(ctx context.Context, email, passwordHash string, metadata map[string]any, at time.Time) (*domain.AuthUser, error)
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error
	TouchSignIn(ctx context.Context, id string, at time.Time) error
	SaveRefreshToken(ctx context.Context, token, userID string, at time.Time) error
	ConsumeRefreshToken(ctx context.Context, token string, at time.Time) (string, error)
	RevokeRefreshTokens(ctx context.Context, userID string, at time.Time) error
	SaveRecoveryToken(ctx context.Context, userID, token string, at time.Time) error
	ConsumeRecoveryToken(ctx context.Context, token string, notBefore time.Time) (string, error)
}

// SQLIdentities keeps identities in the auth schema next to the public
// tables: auth.users for identities and auth.refresh_tokens for sessions.
type SQLIdentities struct {
	db *sql.DB
}

var _ IdentityStore = (*SQLIdentities)(nil)

func NewSQLIdentities(db *sql.DB) *SQLIdentities {
	return &SQLIdentities{db: db}
}

const identityColumns = `id, email, encrypted_password, email_confirmed_at, last_sign_in_at, raw_user_meta_data, created_at`

func (r *SQLIdentities) Create(ctx context.Context, email, passwordHash string, metadata map[string]any, at time.Time) (*domain.AuthUser, error) {
	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	u := domain.AuthUser{ID: uuid.NewString(), Email: email, UserMetadata: metadata, CreatedAt: at}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO auth.users (id, email, encrypted_password, raw_user_meta_data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		u.ID, u.Email, passwordHash, string(meta), at)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SQLIdentities) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	return r.findOne(ctx, `SELECT `+identityColumns+` FROM auth.users WHERE lower(email) = lower($1)`, email)
}

func (r *SQLIdentities) FindByID(ctx context.Context, id string) (*Identity, error) {
	return r.findOne(ctx, `SELECT `+identityColumns+` FROM auth.users WHERE id = $1`, id)
}

func (r *SQLIdentities) findOne(ctx context.Context, query string, arg any) (*Identity, error) {
	var (
		id        Identity
		confirmed sql.NullTime
		lastSign  sql.NullTime
		meta      []byte
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&id.User.ID, &id.User.Email, &id.PasswordHash, &confirmed, &lastSign, &meta, &id.User.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if confirmed.Valid {
		id.User.EmailConfirmedAt = &confirmed.Time
	}
	if lastSign.Valid {
		id.User.LastSignInAt = &lastSign.Time
	}
	if len(meta) > 0 {
		_ = json.Unmarshal(meta, &id.User.UserMetadata)
	}
	return &id, nil
}

func (r *SQLIdentities) UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE auth.users SET encrypted_password = $2, updated_at = $3 WHERE id = $1`, id, passwordHash, at)
	return err
}

func (r *SQLIdentities) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE auth.users SET last_sign_in_at = $2 WHERE id = $1`, id, at)
	return err
}

func (r *SQLIdentities) SaveRefreshToken(ctx context.Context, token, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth.refresh_tokens (token, user_id, revoked, created_at, updated_at) VALUES ($1, $2, false, $3, $3)`,
		token, userID, at)
	return err
}

// ConsumeRefreshToken revokes token and returns its owner. A token can be
// exchanged once.
func (r *SQLIdentities) ConsumeRefreshToken(ctx context.Context, token string, at time.Time) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM auth.refresh_tokens WHERE token = $1 AND NOT revoked FOR UPDATE`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE auth.refresh_tokens SET revoked = true, updated_at = $2 WHERE token = $1`, token, at); err != nil {
		return "", err
	}
	return userID, tx.Commit()
}

func (r *SQLIdentities) RevokeRefreshTokens(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE auth.refresh_tokens SET revoked = true, updated_at = $2 WHERE user_id = $1 AND NOT revoked`, userID, at)
	return err
}

func (r *SQLIdentities) SaveRecoveryToken(ctx context.Context, userID, token string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE auth.users SET recovery_token = $2, recovery_sent_at = $3 WHERE id = $1`, userID, token, at)
	return err
}

// ConsumeRecoveryToken clears token and returns its owner, provided it was
// issued after notBefore.
func (r *SQLIdentities) ConsumeRecoveryToken(ctx context.Context, token string, notBefore time.Time) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`UPDATE auth.users SET recovery_token = NULL
		 WHERE recovery_token = $1 AND recovery_sent_at > $2
		 RETURNING id`, token, notBefore).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrTokenNotFound
	}
	return userID, err
}
