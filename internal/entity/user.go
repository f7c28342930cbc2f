package entity

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type UserStats struct {
	ItemsUploaded   int
	SuccessfulSwaps int
}

type User struct {
	ID        string
	Name      string
	Email     string
	Password  string // bcrypt hash
	Avatar    string
	Bio       string
	Role      string
	IsBanned  bool
	BanReason string
	Stats     UserStats
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
