package jwt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/seunits/attendance-backend-go/internal/domain/user"
)

const tokenTypeAccess = "access"

// RevocationStore persists revoked tokens so logouts survive restarts and are
// shared between instances.
type RevocationStore interface {
	Revoke(ctx context.Context, userID string, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(ctx context.Context, userID string, token string, expiresAt int64) error
	IsTokenRevoked(ctx context.Context, token string) bool
	PurgeExpired(ctx context.Context) (int, error)
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	store                     RevocationStore
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService creates the HS256 token service. store may be nil, in which
// case revocations live only in memory.
func NewJWTService(secretKey string, accessTokenExpirationTime string, store RevocationStore) *JWTService {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		store:                     store,
		revokedTokens:             make(map[string]int64),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": u.ID,
		"name":    u.Name,
		"role":    string(u.Role),
		"type":    tokenTypeAccess,
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(ctx context.Context, userID string, token string, expiresAt int64) error {
	j.mu.Lock()
	j.revokedTokens[token] = expiresAt
	j.mu.Unlock()

	if j.store == nil {
		return nil
	}
	return j.store.Revoke(ctx, userID, token, time.Unix(expiresAt, 0))
}

func (j *JWTService) IsTokenRevoked(ctx context.Context, token string) bool {
	j.mu.RLock()
	_, revoked := j.revokedTokens[token]
	j.mu.RUnlock()
	if revoked || j.store == nil {
		return revoked
	}

	revoked, err := j.store.IsRevoked(ctx, token)
	if err != nil {
		// Unknown state: refuse the token rather than accept a possibly logged-out session.
		slog.Error("Failed to check token revocation", "error", err)
		return true
	}
	if revoked {
		j.mu.Lock()
		j.revokedTokens[token] = j.now().Add(time.Hour).Unix()
		j.mu.Unlock()
	}
	return revoked
}

// PurgeExpired drops revocations whose tokens have expired on their own.
func (j *JWTService) PurgeExpired(ctx context.Context) (int, error) {
	now := j.now()

	j.mu.Lock()
	purged := 0
	for token, exp := range j.revokedTokens {
		if exp <= now.Unix() {
			delete(j.revokedTokens, token)
			purged++
		}
	}
	j.mu.Unlock()

	if j.store != nil {
		deleted, err := j.store.DeleteExpired(ctx, now)
		if err != nil {
			return purged, err
		}
		purged += int(deleted)
	}
	return purged, nil
}

// CallerFromContext reads the authenticated principal that jwtauth.Verifier
// placed on the request context.
func CallerFromContext(ctx context.Context) (user.Caller, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Caller{}, fmt.Errorf("%w: %v", user.ErrCallerNotInContext, err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Caller{}, user.ErrCallerNotInContext
	}
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)

	return user.Caller{UserID: userID, Role: user.Role(role), Name: name}, nil
}

var _ Service = (*JWTService)(nil)
