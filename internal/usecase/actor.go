package usecase

import "github.com/shlok1014/ReWear/internal/entity"

// Actor is the authenticated session identity handed to every operation.
// Capability checks read it instead of any ambient state.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}
