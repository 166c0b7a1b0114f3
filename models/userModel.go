package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"size:255;not null"`
	Email            string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Password         string    `json:"-" gorm:"size:255;not null"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	Role             string    `json:"role" gorm:"size:16;not null;default:user"`
	IsVerified       bool      `json:"is_verified" gorm:"not null;default:false"`
	VerificationCode string    `json:"-" gorm:"size:64;index"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// UserSummary is the slice of a user embedded in order views.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterData struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type UserUpdateData struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Role    string `json:"role" binding:"omitempty,oneof=user admin"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
