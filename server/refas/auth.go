package refas

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/refa/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Login verifies the provided username and password against the existing user
// in persistence and returns that user if they match.
//
// If the credentials do not match a user, the returned error matches
// serr.ErrBadCredentials. DB problems match serr.ErrDB.
func (svc Service) Login(ctx context.Context, username string, password string) (dao.User, error) {
	user, err := svc.DB.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.WrapDB("", err)
	}

	bcryptHash, err := base64.StdEncoding.DecodeString(user.Password)
	if err != nil {
		return dao.User{}, serr.New("stored password hash is corrupt", err)
	}

	err = bcrypt.CompareHashAndPassword(bcryptHash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.New("could not check password", err)
	}

	user.LastLoginTime = time.Now()
	user, err = svc.DB.Users().Update(ctx, user.ID, user)
	if err != nil {
		return dao.User{}, serr.WrapDB("cannot update user login time", err)
	}

	return user, nil
}

// Logout marks the user with the given ID as having logged out, invalidating
// every token issued to them so far. Returns the user entity that was logged
// out.
//
// If the user doesn't exist, the returned error matches serr.ErrNotFound.
func (svc Service) Logout(ctx context.Context, who uuid.UUID) (dao.User, error) {
	existing, err := svc.DB.Users().GetByID(ctx, who)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrNotFound
		}
		return dao.User{}, serr.WrapDB("could not retrieve user", err)
	}

	// tokens are signed with the logout time at second precision, so make
	// sure it actually moves
	now := time.Now()
	if now.Unix() <= existing.LastLogoutTime.Unix() {
		now = existing.LastLogoutTime.Add(time.Second)
	}
	existing.LastLogoutTime = now

	updated, err := svc.DB.Users().Update(ctx, existing.ID, existing)
	if err != nil {
		return dao.User{}, serr.WrapDB("could not update user", err)
	}

	return updated, nil
}

func (svc Service) hashPassword(password string) (string, error) {
	passHash, err := bcrypt.GenerateFromPassword([]byte(password), svc.hashCost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return "", serr.New("password could not be encrypted", err)
	}

	return base64.StdEncoding.EncodeToString(passHash), nil
}
