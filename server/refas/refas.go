// Package refas has services for interacting with the refa server backend
// decoupled from the API that accesses it.
package refas

import (
	"github.com/dekarrin/refa/server/dao"
	"golang.org/x/crypto/bcrypt"
)

// Service performs the actions requested of the refa server backend and
// makes calls to persistence to preserve its state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// HashCost is the bcrypt cost used for new password hashes. If not set,
	// bcrypt.DefaultCost is used.
	HashCost int
}

func (svc Service) hashCost() int {
	if svc.HashCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return svc.HashCost
}
