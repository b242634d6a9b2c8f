package services

import (
	"context"
	"fmt"

	"instafront/app/client"
	"instafront/app/models"
)

// UserService wraps the /users endpoints
type UserService struct {
	api *client.Client
}

// NewUserService creates a new UserService
func NewUserService(api *client.Client) *UserService {
	return &UserService{api: api}
}

// GetUserByID fetches a profile.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.api.GetJSON(ctx, fmt.Sprintf("/users/get/%d", id), &user); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// UpdateUser sends the full user record back with the edited fields.
func (s *UserService) UpdateUser(ctx context.Context, id int64, user *models.User) (*models.User, error) {
	var updated models.User
	if err := s.api.PutJSON(ctx, fmt.Sprintf("/users/update/%d", id), user, &updated); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return &updated, nil
}

// GetAllUsers lists every user.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.api.GetJSON(ctx, "/users/getAll", &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfilePicture uploads a new avatar.
func (s *UserService) UpdateProfilePicture(ctx context.Context, id int64, picture *models.Upload) (*models.User, error) {
	part := imagePart("profilePicture", picture)
	if part == nil {
		return nil, fmt.Errorf("profile picture is required")
	}
	var updated models.User
	if err := s.api.PostMultipart(ctx, fmt.Sprintf("/users/%d/profile-picture", id), nil, part, &updated); err != nil {
		return nil, fmt.Errorf("failed to update profile picture of user %d: %w", id, err)
	}
	return &updated, nil
}
