package domain

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type RegisterRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// UserResponse is returned by login and registration.
type UserResponse struct {
	Token   string `json:"token"`
	UserID  int64  `json:"usuarioId"`
	Message string `json:"msg"`
	Status  string `json:"status"`
	Name    string `json:"nome"`
	Email   string `json:"email"`
}

// Session is the authenticated dashboard identity persisted between runs.
type Session struct {
	ID        string    `gorm:"type:text;primaryKey" json:"-"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	UserID    int64     `gorm:"not null" json:"usuarioId"`
	Name      string    `gorm:"type:text" json:"nome"`
	Email     string    `gorm:"type:text" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string {
	return "sessions"
}
