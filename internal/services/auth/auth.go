// Package auth реализует регистрацию, вход и проверку токенов доступа.
//
// Пароли хранятся только в виде bcrypt-хэша, токен несёт лишь ID пользователя.
// Наружу из пакета уходят models.User (для ответа клиенту через Public)
// и models.Identity (для middleware).
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/campushub/internal/lib/jwt"
	"github.com/magabrotheeeer/campushub/internal/lib/password"
	"github.com/magabrotheeeer/campushub/internal/lib/validation"
	"github.com/magabrotheeeer/campushub/internal/models"
)

// minPasswordLen — минимальная длина пароля при регистрации.
const minPasswordLen = 6

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя; повтор email возвращает models.ErrEmailTaken.
	RegisterUser(ctx context.Context, user models.User) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email или models.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по ID или models.ErrNotFound.
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// RegisterInput — данные для регистрации.
type RegisterInput struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	University string `json:"university"`
}

// LoginInput — учётные данные для входа.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает пользователя с ролью student и сразу выдаёт ему токен.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	const op = "auth.Register"

	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.University = strings.TrimSpace(in.University)
	if in.FullName == "" || in.Email == "" || in.Password == "" || in.University == "" {
		return nil, "", models.Invalid("Please provide all required fields")
	}
	if !validation.IsEmail(in.Email) {
		return nil, "", models.Invalid("Please provide a valid email")
	}
	if len(in.Password) < minPasswordLen {
		return nil, "", models.Invalid("Password must be at least %d characters", minPasswordLen)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, "", models.Invalid("Password is too long")
	}
	user, err := s.users.RegisterUser(ctx, models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hashed,
		University:   in.University,
		Role:         models.RoleStudent,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Login проверяет пароль и выдаёт токен. Неизвестный email и неверный пароль
// неразличимы для вызывающего: оба дают models.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	const op = "auth.Login"

	if in.Email == "" || in.Password == "" {
		return nil, "", models.Invalid("Please provide email and password")
	}

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, in.Password); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Verify проверяет токен и возвращает личность вызывающего.
// Любая проблема с токеном (пустой, чужая подпись, истёк) даёт models.ErrUnauthorized.
func (s *Service) Verify(_ context.Context, token string) (models.Identity, error) {
	if token == "" {
		return models.Identity{}, models.ErrUnauthorized
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil || claims.UserID == "" {
		return models.Identity{}, models.ErrUnauthorized
	}
	return models.Identity{UserID: claims.UserID}, nil
}

// Me возвращает профиль вызывающего. Если пользователь удалён после выдачи токена,
// возвращается models.ErrUnauthorized.
func (s *Service) Me(ctx context.Context, id models.Identity) (*models.User, error) {
	const op = "auth.Me"

	user, err := s.users.GetUser(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
