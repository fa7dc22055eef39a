package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"whatsapp_crm/internal/entities"
	"whatsapp_crm/internal/interfaces"
)

const tokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("token signing is not configured")
)

type AuthUsecase struct {
	tenants   interfaces.TenantStore
	jwtSecret []byte
	now       func() time.Time
}

func NewAuthUsecase(tenants interfaces.TenantStore, secret string) *AuthUsecase {
	return &AuthUsecase{
		tenants:   tenants,
		jwtSecret: []byte(secret),
		now:       time.Now,
	}
}

type RegisterInput struct {
	Username      string
	Password      string
	Name          string
	PhoneNumberID string
}

func (uc *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*entities.Tenant, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tenant := &entities.Tenant{
		Name:          in.Name,
		Username:      in.Username,
		PasswordHash:  string(hashed),
		PhoneNumberID: in.PhoneNumberID,
	}
	if err := uc.tenants.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Login returns a signed token carrying the tenant id.
func (uc *AuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	if len(uc.jwtSecret) == 0 {
		return "", ErrAuthDisabled
	}
	tenant, err := uc.tenants.GetByUsername(ctx, username)
	if errors.Is(err, entities.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tenant.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"tenant_id": tenant.ID,
		"exp":       uc.now().Add(tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
