package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/seunits/attendance-backend-go/internal/pkg/database"
)

// RevokedTokenRepository persists logged-out access tokens until they expire.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, userID string, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type revokedTokenRepositoryImpl struct {
	db *database.DB
}

// NewRevokedTokenRepository creates a new instance of RevokedTokenRepository.
func NewRevokedTokenRepository(db *database.DB) RevokedTokenRepository {
	return &revokedTokenRepositoryImpl{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (j *revokedTokenRepositoryImpl) Revoke(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	q := GetQuerier(ctx, j.db)
	query := `
		INSERT INTO revoked_tokens (token_hash, user_id, expires_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3)
		ON CONFLICT (token_hash) DO NOTHING
	`
	if _, err := q.Exec(ctx, query, hashToken(token), userID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (j *revokedTokenRepositoryImpl) IsRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, j.db)

	query := `
		SELECT expires_at
		FROM revoked_tokens
		WHERE token_hash = $1
	`

	var expiresAt time.Time
	err := q.QueryRow(ctx, query, hashToken(token)).Scan(&expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (j *revokedTokenRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, j.db)

	tag, err := q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
