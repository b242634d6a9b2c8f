package services

import (
	"context"

	"instafront/app/models"
)

// AuthAPI defines the authentication calls
type AuthAPI interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
}

// PostAPI defines the content calls for posts and comments
type PostAPI interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	CreateComment(ctx context.Context, postID int64, req CreateCommentRequest) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPostByID(ctx context.Context, id int64) (*models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error)
	GetCommentsByPost(ctx context.Context, postID int64) ([]models.Post, error)
	GetCommentsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, id int64, title, text string) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status models.PostStatus) (*models.Post, error)
	Vote(ctx context.Context, postID, userID int64, voteType models.VoteType) (*models.Post, error)
	RemoveVote(ctx context.Context, postID, userID int64) (*models.Post, error)
}

// TagAPI defines the tag calls
type TagAPI interface {
	GetAllTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, name string) (*models.Tag, error)
}

// UserAPI defines the user profile calls
type UserAPI interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, user *models.User) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateProfilePicture(ctx context.Context, id int64, picture *models.Upload) (*models.User, error)
}
