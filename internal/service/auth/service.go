package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/seunits/attendance-backend-go/internal/domain/auth"
	"github.com/seunits/attendance-backend-go/internal/domain/employee"
	"github.com/seunits/attendance-backend-go/internal/domain/user"
	"github.com/seunits/attendance-backend-go/internal/pkg/database"
	"github.com/seunits/attendance-backend-go/internal/pkg/jwt"
	"github.com/seunits/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAdmin is the bootstrap administrator ensured at startup.
type DefaultAdmin struct {
	Name     string
	Email    string
	Password string
}

type Options struct {
	// AllowedEmailDomain restricts register and login to one email domain.
	// Empty allows every domain.
	AllowedEmailDomain string
	DefaultAdmin       DefaultAdmin
}

type AuthServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	employee.EmployeeRepository
	jwt.Service
	opts Options
	now  func() time.Time
}

func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	employeeRepository employee.EmployeeRepository,
	jwtService jwt.Service,
	opts Options,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:                 tx,
		UserRepository:     userRepository,
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
		opts:               opts,
		now:                time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) checkDomain(email string) error {
	if !validator.HasEmailDomain(email, a.opts.AllowedEmailDomain) {
		return auth.ErrEmailDomainNotAllowed
	}
	return nil
}

// issueToken signs an access token for u and wraps it with the public user view.
func (a *AuthServiceImpl) issueToken(u user.User, employeeID string) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		User:                 u.ToResponse(employeeID),
	}, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, registerReq auth.RegisterRequest) (auth.TokenResponse, error) {
	registerReq.Normalize()
	if err := registerReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	if err := a.checkDomain(registerReq.Email); err != nil {
		return auth.TokenResponse{}, err
	}

	hashedPassword, err := a.hashPassword(registerReq.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var (
		newUser    user.User
		employeeID string
	)
	err = a.tx.WithinTx(ctx, func(txCtx context.Context) error {
		newUser, err = a.UserRepository.Create(txCtx, user.User{
			Name:         registerReq.Name,
			Email:        registerReq.Email,
			PasswordHash: hashedPassword,
			Role:         user.Role(registerReq.Role),
		})
		if err != nil {
			if errors.Is(err, user.ErrUserEmailExists) {
				return err
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		// Employees get their attendance profile right away; admins get one on first login.
		if newUser.Role == user.RoleEmployee {
			emp, err := a.EmployeeRepository.EnsureByEmail(txCtx, newUser.Name, newUser.Email, string(newUser.Role))
			if err != nil {
				return fmt.Errorf("failed to ensure employee profile: %w", err)
			}
			employeeID = emp.ID
		}

		if err := a.UserRepository.RecordLogin(txCtx, newUser.ID, a.now()); err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	slog.Info("User registered", "user_id", newUser.ID, "role", string(newUser.Role))
	return a.issueToken(newUser, employeeID)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	loginReq.Normalize()
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	if err := a.checkDomain(loginReq.Email); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var employeeID string
	err = a.tx.WithinTx(ctx, func(txCtx context.Context) error {
		emp, err := a.EmployeeRepository.EnsureByEmail(txCtx, userData.Name, userData.Email, string(userData.Role))
		if err != nil {
			return fmt.Errorf("failed to ensure employee profile: %w", err)
		}
		employeeID = emp.ID

		if err := a.UserRepository.RecordLogin(txCtx, userData.ID, a.now()); err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return a.issueToken(userData, employeeID)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	parsed, err := jwtauth.VerifyToken(a.JWTAuth(), token)
	if err != nil {
		return auth.ErrInvalidToken
	}
	claims, err := parsed.AsMap(ctx)
	if err != nil {
		return auth.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return auth.ErrInvalidToken
	}

	if err := a.Service.RevokeToken(ctx, userID, token, parsed.Expiration().Unix()); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if err := a.UserRepository.RecordLogout(ctx, userID, a.now()); err != nil {
		// Token is already revoked at this point.
		slog.Warn("Failed to record logout", "user_id", userID, "error", err)
	}
	return nil
}

// EnsureDefaultAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureDefaultAdmin(ctx context.Context) error {
	admin := a.opts.DefaultAdmin
	if admin.Email == "" {
		return nil
	}
	email := employee.NormalizeEmail(admin.Email)

	_, err := a.UserRepository.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("failed to look up default admin: %w", err)
	}

	hashedPassword, err := a.hashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	created, err := a.UserRepository.Create(ctx, user.User{
		Name:         admin.Name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         user.RoleAdmin,
	})
	if errors.Is(err, user.ErrUserEmailExists) {
		// Another instance created it first.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	slog.Info("Default admin created", "user_id", created.ID, "email", email)
	return nil
}
