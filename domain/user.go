package domain

import (
	"context"
	"time"
)

// User is the identity behind every Post, Comment and Like. Users are referenced,
// never owned, by the content tables. Password only lives in memory between the
// request and the bcrypt step; only PasswordHash is persisted.
type User struct {
	ID           int    `gorm:"primaryKey"`
	Username     string `gorm:"notNull;uniqueIndex"`
	Email        string `gorm:"index"`
	Password     string `gorm:"-"`
	PasswordHash string `gorm:"notNull"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserService is the credential store.
type UserService interface {
	ByID(ctx context.Context, id int) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	Authenticate(ctx context.Context, username, password string) (*User, error)
}

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput is the body of a token refresh request.
type RefreshInput struct {
	Refresh string `json:"refresh" validate:"required"`
}

// UserView is the public projection of a User.
type UserView struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserView maps a User row to its public projection.
func NewUserView(u *User) UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// AuthView is returned by registration and login.
type AuthView struct {
	User    UserView `json:"user"`
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
}

// AccessView is returned by a token refresh.
type AccessView struct {
	Access string `json:"access"`
}
