package domain

import (
	"context"
	"time"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	Phone        string
	Address      string
	BirthDate    *time.Time
	Newsletter   bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserProfile struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Address    string     `json:"address"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Newsletter bool       `json:"newsletter_subscription"`
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Phone:      u.Phone,
		Address:    u.Address,
		BirthDate:  u.BirthDate,
		Newsletter: u.Newsletter,
	}
}

type AuthResult struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

type ProfileInput struct {
	Email      string
	Phone      string
	Address    string
	BirthDate  *time.Time
	Newsletter bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	// GetUserByLogin finds a user by username or email.
	GetUserByLogin(ctx context.Context, login string) (*User, error)
	UpdateUser(ctx context.Context, user *User) (*User, error)
}

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*UserProfile, error)
	Login(ctx context.Context, login, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID int64) (*UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (*UserProfile, error)
}
