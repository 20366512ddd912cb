package domain

// Identity is the authenticated caller, resolved from the bearer token.
type Identity struct {
	UserID int64
	Email  string
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanAccessUser reports whether the caller may read data owned by userID.
func (i Identity) CanAccessUser(userID int64) bool {
	return i.IsAdmin() || i.UserID == userID
}
