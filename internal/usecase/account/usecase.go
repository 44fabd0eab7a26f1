package account

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userDomain "library-backend/internal/domain/user"
	"library-backend/pkg/jwt"
)

type Usecase struct {
	users  userDomain.Repository
	tokens *jwt.Manager
}

func NewUsecase(users userDomain.Repository, tokens *jwt.Manager) *Usecase {
	return &Usecase{users: users, tokens: tokens}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UserDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Session struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return nil, userDomain.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	usr := &userDomain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         userDomain.RoleUser,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}
	dto := toDTO(usr)
	return &dto, nil
}

func (u *Usecase) Login(ctx context.Context, email, password string) (*Session, error) {
	usr, err := u.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, userDomain.ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateAccessToken(usr.ID, usr.Name, usr.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: toDTO(usr)}, nil
}

func (u *Usecase) List(ctx context.Context) ([]UserDTO, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toDTO(&users[i]))
	}
	return out, nil
}

func toDTO(u *userDomain.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
