/* auth.go
 * Contains the public methods for registering and authenticating users.
 * Passwords are stored as bcrypt hashes; authentication failures are
 * deliberately indistinguishable between unknown email and wrong password.
 */

package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"bracket-pool/api/store"
)

// ErrInvalidCredentials is returned by Authenticate for any failed login.
var ErrInvalidCredentials = errors.New("invalid email or password")

const minPasswordLength = 8

// RegisterUser creates a new user account.
// It receives an email, display name and plaintext password.
// It returns the stored user, or an error if the email is taken or the
// inputs are invalid. The returned user never carries the password hash.
func (a *API) RegisterUser(ctx context.Context, email, displayName, password string) (store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return store.User{}, precondition("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return store.User{}, precondition("password must be at least %d characters", minPasswordLength)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = email
	}

	_, err := a.Store.GetUserByEmail(ctx, email)
	if err == nil {
		return store.User{}, precondition("an account with this email already exists")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return store.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return store.User{}, err
	}

	user := store.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.Store.CreateUser(ctx, user); err != nil {
		return store.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies an email and password pair.
// It returns the user on success, or ErrInvalidCredentials on any mismatch.
func (a *API) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := a.Store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return store.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}
