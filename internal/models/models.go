package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleStudent UserRole = "student"
)

type BookStatus string

const (
	BookStatusAvailable   BookStatus = "available"
	BookStatusUnavailable BookStatus = "unavailable"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Email    string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password string    `gorm:"size:255;not null" json:"-"`
	Role     UserRole  `gorm:"size:16;not null;index" json:"role"`
}

type Book struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title    string     `gorm:"size:255;not null" json:"title"`
	Author   string     `gorm:"size:255;not null" json:"author"`
	Semester string     `gorm:"size:32" json:"semester"`
	Category string     `gorm:"size:255;index" json:"category"`
	Status   BookStatus `gorm:"size:16;not null;index" json:"status"`
}

type Request struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	BookID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"book_id"`
	Status    RequestStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt time.Time     `gorm:"not null;default:now()" json:"created_at"`
}
