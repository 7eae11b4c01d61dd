package model

type UserRole string

const (
	UserRoleClient UserRole = "client"
	UserRoleOwner  UserRole = "owner"
)

// User is a client or salon owner account. Credentials are managed by the
// identity provider; this API only reads profile fields.
type User struct {
	Base
	Email     string   `db:"email" json:"email"`
	FirstName string   `db:"first_name" json:"first_name,omitempty"`
	LastName  string   `db:"last_name" json:"last_name,omitempty"`
	Role      UserRole `db:"role" json:"role"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
