package model

// Staff is a salon employee clients book appointments with. Only active
// staff are assignable from the client-facing flow.
type Staff struct {
	Base
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email,omitempty"`
	Active    bool   `db:"active" json:"active"`
}

func (s *Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}
