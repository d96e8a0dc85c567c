package entity

import "time"

type User struct {
	ID            int64
	Email         string
	Username      string
	Nickname      string
	PhoneNumber   string
	LastLoginAt   *time.Time
	LastLoginType LoginType
	CreatedAt     time.Time
}

type UserCredential struct {
	UserID    int64
	Password  string // hashed
	UpdatedAt time.Time
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string // hashed at rest
	ExpiresAt time.Time
	Revoked   bool
}

// ---- //

// UserLoginInfo carries what login and password checks need in one read.
type UserLoginInfo struct {
	ID          int64
	Email       string
	Username    string
	Nickname    string
	PhoneNumber string
	Password    string
}

type NewUser struct {
	ID          int64
	Email       string
	Username    string
	Nickname    string
	PhoneNumber string
}

type PatchUser struct {
	ID       int64
	Username string
	Nickname string
}

type NewRefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
}
