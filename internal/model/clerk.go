package model

import (
	"time"

	"github.com/google/uuid"
)

type ClerkRole string

const (
	ClerkRoleClerk ClerkRole = "clerk"
	ClerkRoleAdmin ClerkRole = "admin"
)

// Clerk is a counter operator or admin who processes tokens.
type Clerk struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         ClerkRole `db:"role" json:"role"`
	DepartmentID string    `db:"department_id" json:"departmentId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateClerkRequest struct {
	Email        string    `json:"email" binding:"required,email"`
	Name         string    `json:"name" binding:"required,max=100"`
	Password     string    `json:"password" binding:"required,min=8"`
	Role         ClerkRole `json:"role" binding:"required,oneof=clerk admin"`
	DepartmentID string    `json:"departmentId" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Clerk *Clerk `json:"clerk"`
}
