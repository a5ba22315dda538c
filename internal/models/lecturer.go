package models

// Lecturer is the instructor assigned to a session.
type Lecturer struct {
	ID       int64  `db:"id" json:"id"`
	NsUserID int64  `db:"ns_user_id" json:"ns_user_id"`
	Name     string `db:"name" json:"name"`
}

// Equal compares lecturer identities.
func (l *Lecturer) Equal(other *Lecturer) bool {
	if l == nil || other == nil {
		return false
	}
	return l.ID == other.ID
}
