package services

import (
	"context"
	"fmt"

	"github.com/go-while/go-words/internal/models"
)

// UserService manages accounts
type UserService struct {
	store    Store
	listings catalogListings
}

// UserInput is the body of user create/update requests.
// Pointers distinguish "absent" from "empty".
type UserInput struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// Create requires both a name and a password
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if in.Name == nil || in.Password == nil || *in.Password == "" {
		return nil, fmt.Errorf("name and password are required: %w", ErrInvalid)
	}
	name, err := checkName("name", *in.Name)
	if err != nil {
		return nil, err
	}
	return s.store.InsertUser(ctx, name, *in.Password)
}

// Update requires at least one of name or password
func (s *UserService) Update(ctx context.Context, id int64, in UserInput) (*models.User, error) {
	var name, password *string
	if in.Name != nil && *in.Name != "" {
		n, err := checkName("name", *in.Name)
		if err != nil {
			return nil, err
		}
		name = &n
	}
	if in.Password != nil && *in.Password != "" {
		password = in.Password
	}
	if name == nil && password == nil {
		return nil, fmt.Errorf("name or password is required: %w", ErrInvalid)
	}
	return s.store.UpdateUser(ctx, id, name, password)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.store.DeleteUser(ctx, id)
	s.listings.invalidate(err)
	return err
}
