package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID             string       `db:"id"`
	Username       string       `db:"username"`
	Email          string       `db:"email"`
	HashedPassword string       `db:"hashed_password"`
	Role           string       `db:"role"`
	Status         string       `db:"status"`
	LastLoginAt    sql.NullTime `db:"last_login_at"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

const (
	// UserRoleCustomer is the default role assigned on registration.
	UserRoleCustomer = "customer"

	// UserRoleAdmin identifies bank staff with access to the review console.
	UserRoleAdmin = "admin"
)

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
