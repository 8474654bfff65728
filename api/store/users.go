/* users.go
 * Contains the methods for interacting with the users collection.
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateUser stores a new user.
func (s *Store) CreateUser(ctx context.Context, user User) error {
	if _, err := s.Collections.Users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser fetches one user by id. Returns mongo.ErrNoDocuments when the user
// does not exist.
func (s *Store) GetUser(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.Collections.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, err
		}
		return User{}, fmt.Errorf("error fetching user from db: %w", err)
	}
	return user, nil
}

// GetUserByEmail fetches one user by email, the login lookup. Returns
// mongo.ErrNoDocuments when no user has the email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.Collections.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, err
		}
		return User{}, fmt.Errorf("error fetching user from db: %w", err)
	}
	return user, nil
}

// ListUsers returns every registered user.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	cursor, err := s.Collections.Users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error fetching users from db: %w", err)
	}

	var users []User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of users: %w", err)
	}
	return users, nil
}

// SetBracketSubmitted locks or unlocks a user's bracket.
func (s *Store) SetBracketSubmitted(ctx context.Context, userID string, submitted bool) error {
	res, err := s.Collections.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"bracket_submitted": submitted}},
	)
	if err != nil {
		return fmt.Errorf("failed to set bracket submitted: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
