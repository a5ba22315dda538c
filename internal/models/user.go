package models

// NsUser is the identity of a platform user. The domain relies only on ID equality.
type NsUser struct {
	ID     int64  `db:"id" json:"id"`
	UserID string `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
	Email  string `db:"email" json:"email"`
}

// Equal compares identities.
func (u *NsUser) Equal(other *NsUser) bool {
	if u == nil || other == nil {
		return false
	}
	return u.ID == other.ID
}
