package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Oxyrus/photowall/internal/storage"
)

// SeedAdmin makes sure an admin account with the given email exists,
// creating it with the given password when missing. Existing accounts
// are left untouched.
func SeedAdmin(ctx context.Context, users storage.Users, email, password string) error {
	if email == "" {
		return nil
	}

	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("auth: look up admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash admin password: %w", err)
	}

	if _, err := users.Create(ctx, storage.UserCreate{
		Email:        email,
		PasswordHash: string(hash),
		Admin:        true,
	}); err != nil {
		return fmt.Errorf("auth: create admin account: %w", err)
	}

	return nil
}
