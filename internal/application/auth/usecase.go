package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/hortti-inventory/internal/application/dto"
	"github.com/jhoicas/hortti-inventory/internal/application/ports"
	"github.com/jhoicas/hortti-inventory/internal/domain"
	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
	"github.com/jhoicas/hortti-inventory/internal/domain/repository"
	"github.com/jhoicas/hortti-inventory/pkg/jwt"
)

// TokenSigner firma y verifica tokens de identidad.
type TokenSigner interface {
	Sign(userID int64, email, role string) (string, error)
	Verify(token string) (*jwt.Claims, error)
}

// AuthUseCase casos de uso de autenticación: registro, login, perfil y verificación de token.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher ports.PasswordHasher
	signer TokenSigner
	log    zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, hasher ports.PasswordHasher, signer TokenSigner, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, signer: signer, log: log}
}

// Register crea un usuario: hashea el password y persiste. Devuelve ErrEmailAlreadyExists si el email ya existe
// (activo o no). La entrada debe venir validada.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.ValidRole(role) {
		verr := &domain.ValidationError{}
		verr.Add("role", "debe ser uno de: admin, user")
		return nil, verr
	}
	email := dto.NormalizeEmail(in.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashear password: %w", err)
	}
	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         role,
		Active:       true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("usuario registrado")

	return uc.authResponse(user)
}

// Login verifica email/password y emite un token. Cualquier fallo devuelve ErrInvalidCredentials
// sin indicar cuál factor falló.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.users.GetByEmail(ctx, dto.NormalizeEmail(in.Email))
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		// Igualar el costo de bcrypt para no revelar si el email existe.
		uc.hasher.Verify(in.Password, uc.hasher.DummyHash())
		return nil, domain.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(in.Password, user.PasswordHash) || !user.Active {
		uc.log.Debug().Int64("user_id", user.ID).Msg("login rechazado")
		return nil, domain.ErrInvalidCredentials
	}
	return uc.authResponse(user)
}

// Profile devuelve el usuario por ID (sin hash).
func (uc *AuthUseCase) Profile(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, &domain.NotFoundError{Resource: "usuario", ID: id}
	}
	out := toUserResponse(user)
	return &out, nil
}

// GenerateToken emite un token con sub=id, email y role del usuario.
func (uc *AuthUseCase) GenerateToken(user *entity.User) (string, error) {
	token, err := uc.signer.Sign(user.ID, user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return token, nil
}

// VerifyToken valida el token y devuelve sus claims; cualquier fallo envuelve ErrInvalidToken.
func (uc *AuthUseCase) VerifyToken(token string) (*jwt.Claims, error) {
	claims, err := uc.signer.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	return claims, nil
}

func (uc *AuthUseCase) authResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, err := uc.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: toUserResponse(user), Token: token}, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
