package domain

// Identity is the caller on whose behalf collaborators act. The zero value
// is the anonymous/public scope.
type Identity struct {
	UserID string
}

// Anonymous is the public scope.
var Anonymous = Identity{}

// Authenticated reports whether the identity names a user.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}
