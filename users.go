package exchange

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hzein/exchange/kvstore"
)

const usersKey = "unified_users"

// User is an account in the shared user directory. Passwords are stored as
// bcrypt hashes, never in clear.
type User struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"password_hash"`
}

// Actor returns the acting identity for this user.
func (u User) Actor() Actor { return Actor{Name: u.Name, Role: u.Role} }

// Users is the account directory shared by every back-office module.
type Users struct {
	store *kvstore.Store
}

// NewUsers creates a user directory over the given store.
func NewUsers(store *kvstore.Store) *Users {
	return &Users{store: store}
}

// All returns every account.
func (u *Users) All(ctx context.Context) ([]User, error) {
	var users []User
	if err := u.store.Get(ctx, usersKey, &users); err != nil && !errors.Is(err, kvstore.ErrNoDocument) {
		return nil, err
	}
	return users, nil
}

// Find returns the account with the given username, or ErrNotFound.
func (u *Users) Find(ctx context.Context, username string) (User, error) {
	users, err := u.All(ctx)
	if err != nil {
		return User{}, err
	}
	for _, user := range users {
		if user.Username == username {
			return user, nil
		}
	}
	return User{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
}

// Authenticate verifies the password and returns the account's actor. A bad
// username and a bad password are indistinguishable to the caller.
func (u *Users) Authenticate(ctx context.Context, username, password string) (Actor, error) {
	user, err := u.Find(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Actor{}, fmt.Errorf("%w: invalid credentials", ErrPermission)
		}
		return Actor{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Actor{}, fmt.Errorf("%w: invalid credentials", ErrPermission)
	}
	return user.Actor(), nil
}

// Upsert creates or replaces the account for user.Username, hashing the
// given password.
func (u *Users) Upsert(ctx context.Context, user User, password string) error {
	if user.Username == "" {
		return fmt.Errorf("%w: username is missing", ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	users, err := u.All(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range users {
		if users[i].Username == user.Username {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}
	return u.store.Set(ctx, usersKey, users)
}
