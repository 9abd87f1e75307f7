package auth

import "github.com/yukikurage/task-assignment-api/internal/models"

// Identity is the authenticated caller of a single request. It is built by
// the auth middleware from the current database row and handed to services
// explicitly, so capability checks never consult shared state.
type Identity struct {
	UserID  uint64
	Email   string
	IsAdmin bool
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

// IdentityFromUser builds the identity for a persisted user.
func IdentityFromUser(user *models.User) Identity {
	return Identity{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
}

// Authenticated reports whether the identity belongs to a real user.
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

// CanManageTasks reports whether the caller may create, update or assign tasks.
func (i Identity) CanManageTasks() bool {
	return i.Authenticated() && i.IsAdmin
}

// CanCreateAdmins reports whether the caller may register admin accounts.
func (i Identity) CanCreateAdmins() bool {
	return i.Authenticated() && i.IsAdmin
}
