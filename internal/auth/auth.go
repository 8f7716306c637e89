// Package auth establishes authenticated identities: credential checks,
// JWT session tokens and the request-scoped identity passed to every
// guard. The role is always re-derived from the verified token, never
// taken from client input.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access denied")
	ErrDuplicateEmail     = errors.New("email already registered")
)

// User is an account row. Accounts are separate from membres; the two are
// joined by email so a player logging in sees their own member record.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         rbac.Role
	CreatedAt    time.Time
}

// Identity is the authenticated context attached to each request.
type Identity struct {
	UserID         uuid.UUID
	Email          string
	Role           rbac.Role
	MemberID       *uuid.UUID
	FonctionBureau string
}

// RequireRole fails closed: any role outside the allow-list is denied.
func (id Identity) RequireRole(allowed ...rbac.Role) error {
	for _, r := range allowed {
		if id.Role == r {
			return nil
		}
	}

	return fmt.Errorf("%w: role %s required", ErrForbidden, allowed[0])
}

// RequirePermission denies unless the identity's role grants p.
func (id Identity) RequirePermission(p rbac.Permission) error {
	if !rbac.HasPermission(id.Role, p) {
		return ErrForbidden
	}

	return nil
}

// CanExport applies the export gate to this identity.
func (id Identity) CanExport() bool {
	return rbac.CanExport(id.Role, id.FonctionBureau)
}

//go:generate mockgen -source=auth.go -destination=repository_mock.go -package=auth
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error

	// FindMemberByEmail resolves the member row backing an account.
	// Returns (nil, "", nil) when no member matches.
	FindMemberByEmail(ctx context.Context, email string) (*uuid.UUID, string, error)
}

type Service struct {
	repo     Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewService(repo Repository, secret string, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, secret: []byte(secret), tokenTTL: tokenTTL}
}

type claims struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	MemberID string `json:"member_id,omitempty"`
	Fonction string `json:"fonction_bureau,omitempty"`
	jwt.RegisteredClaims
}

// Login verifies the credentials and returns a signed session token with
// the resolved identity.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Identity, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		// Indistinguishable from a bad password on purpose.
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	role := user.Role
	if !role.Valid() {
		role = rbac.RoleJoueur
	}

	memberID, fonction, err := s.repo.FindMemberByEmail(ctx, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("resolving member: %w", err)
	}

	identity := &Identity{
		UserID:         user.ID,
		Email:          user.Email,
		Role:           role,
		MemberID:       memberID,
		FonctionBureau: fonction,
	}

	now := time.Now()
	c := claims{
		Role:     string(role),
		Email:    user.Email,
		Fonction: fonction,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	if memberID != nil {
		c.MemberID = memberID.String()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}

	return token, identity, nil
}

// Verify parses the token and rebuilds the identity carried by it.
func (s *Service) Verify(tokenString string) (*Identity, error) {
	var c claims

	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role := rbac.Role(c.Role)
	if !role.Valid() {
		role = rbac.RoleJoueur
	}

	identity := &Identity{
		UserID:         userID,
		Email:          c.Email,
		Role:           role,
		FonctionBureau: c.Fonction,
	}

	if c.MemberID != "" {
		if mid, err := uuid.Parse(c.MemberID); err == nil {
			identity.MemberID = &mid
		}
	}

	return identity, nil
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password string, role rbac.Role) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
