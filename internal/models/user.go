package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
)

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         string     `json:"role"`
	Bio          string     `json:"bio"`
	Avatar       string     `json:"avatar"`
	LinkedinURL  string     `json:"linkedin_url"`
	GithubURL    string     `json:"github_url"`
	TwitterURL   string     `json:"twitter_url"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleEditor
}

type UserProfileResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	IsStaff     bool      `json:"is_staff"`
	Bio         string    `json:"bio"`
	Avatar      string    `json:"avatar"`
	LinkedinURL string    `json:"linkedin_url"`
	GithubURL   string    `json:"github_url"`
	TwitterURL  string    `json:"twitter_url"`
	DateJoined  time.Time `json:"date_joined"`
}

func NewUserProfile(u *User) UserProfileResponse {
	return UserProfileResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Role:        u.Role,
		IsStaff:     u.IsStaff(),
		Bio:         u.Bio,
		Avatar:      u.Avatar,
		LinkedinURL: u.LinkedinURL,
		GithubURL:   u.GithubURL,
		TwitterURL:  u.TwitterURL,
		DateJoined:  u.CreatedAt,
	}
}

// TeamMember: публичная карточка сотрудника для страницы «О нас».
type TeamMember struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
	Bio         string `json:"bio"`
	Avatar      string `json:"avatar"`
	LinkedinURL string `json:"linkedin_url"`
	GithubURL   string `json:"github_url"`
	TwitterURL  string `json:"twitter_url"`
}

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=254" example:"jane@appnity.co.ke"`
	Username        string `json:"username" validate:"required,min=3,max=150" example:"jane"`
	FirstName       string `json:"first_name" validate:"max=150" example:"Jane"`
	LastName        string `json:"last_name" validate:"max=150" example:"Wanjiru"`
	Password        string `json:"password" validate:"required" example:"S3cure-pass!"`
	PasswordConfirm string `json:"password_confirm" validate:"required" example:"S3cure-pass!"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Avatar      *string `json:"avatar,omitempty" validate:"omitempty,url"`
	LinkedinURL *string `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	GithubURL   *string `json:"github_url,omitempty" validate:"omitempty,url"`
	TwitterURL  *string `json:"twitter_url,omitempty" validate:"omitempty,url"`
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthResponse struct {
	Message string              `json:"message"`
	User    UserProfileResponse `json:"user"`
	Tokens  TokenPair           `json:"tokens"`
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}
