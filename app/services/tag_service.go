package services

import (
	"context"
	"fmt"
	"strings"

	"instafront/app/client"
	"instafront/app/models"
)

// TagService wraps the /tags endpoints
type TagService struct {
	api *client.Client
}

// NewTagService creates a new TagService
func NewTagService(api *client.Client) *TagService {
	return &TagService{api: api}
}

// GetAllTags lists every known tag.
func (s *TagService) GetAllTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.api.GetJSON(ctx, "/tags/getAll", &tags); err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	return tags, nil
}

// CreateTag creates a tag with the trimmed name.
func (s *TagService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("tag name is required")
	}
	var tag models.Tag
	if err := s.api.PostJSON(ctx, "/tags/create", models.Tag{Name: name}, &tag); err != nil {
		return nil, fmt.Errorf("failed to create tag %q: %w", name, err)
	}
	if tag.Name == "" {
		tag.Name = name
	}
	return &tag, nil
}
