package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
	"github.com/jhoicas/almoxerife-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenRevoker lista de revocación de tokens por jti (logout).
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthUseCase casos de uso de autenticación: login, validación de sesión y logout.
type AuthUseCase struct {
	userRepo repository.UserRepository
	revoker  TokenRevoker
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, revoker TokenRevoker, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, revoker: revoker, jwtCfg: jwtCfg}
}

// SessionTTL duración de la sesión (vida del token y Max-Age de la cookie).
func (uc *AuthUseCase) SessionTTL() time.Duration {
	return time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
}

// Login verifica usuario/senha de un usuario activo, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y senha son obligatorios", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetActiveByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	// Usuario inexistente o inactivo: misma respuesta que senha incorrecta.
	if user == nil {
		return nil, fmt.Errorf("%w: usuario o senha inválidos", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: usuario o senha inválidos", domain.ErrUnauthorized)
	}
	token, claims, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      *toUserResponse(user),
	}, nil
}

// Authenticate valida el token, verifica que no haya sido revocado y que el
// usuario siga existiendo y activo.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	revoked, err := uc.revoker.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: sesión cerrada", domain.ErrUnauthorized)
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, fmt.Errorf("%w: usuario inactivo o eliminado", domain.ErrUnauthorized)
	}
	return claims, nil
}

// Logout revoca el token de la sesión actual por el tiempo de vida que le queda.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil {
		return errors.New("auth: sesión sin claims")
	}
	ttl := claims.Remaining(time.Now())
	if ttl <= 0 {
		return nil
	}
	return uc.revoker.Revoke(ctx, claims.TokenID(), ttl)
}

// Me arma la respuesta de la sesión actual.
func (uc *AuthUseCase) Me(claims *jwt.Claims) *dto.SessionResponse {
	out := &dto.SessionResponse{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
