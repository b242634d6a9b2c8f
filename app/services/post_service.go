package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"instafront/app/client"
	"instafront/app/models"
)

// CreatePostRequest holds the fields of a new top-level post.
type CreatePostRequest struct {
	AuthorID int64
	Title    string
	Text     string
	TagNames []string
	Image    *models.Upload
}

// CreateCommentRequest holds the fields of a new comment.
type CreateCommentRequest struct {
	AuthorID int64
	Title    string
	Text     string
	Image    *models.Upload
}

// PostService wraps the /contents endpoints
type PostService struct {
	api *client.Client
}

// NewPostService creates a new PostService
func NewPostService(api *client.Client) *PostService {
	return &PostService{api: api}
}

// CreatePost creates a commentable post in the JUST_POSTED state.
func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	fields := map[string]string{
		"title":         req.Title,
		"text":          req.Text,
		"type":          string(models.ContentTypePost),
		"isCommentable": "true",
		"status":        string(models.StatusJustPosted),
		"authorId":      strconv.FormatInt(req.AuthorID, 10),
	}
	if len(req.TagNames) > 0 {
		tags, err := json.Marshal(req.TagNames)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tags: %w", err)
		}
		fields["tags"] = string(tags)
	}

	var post models.Post
	if err := s.api.PostMultipart(ctx, "/contents/create", fields, imagePart("image", req.Image), &post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &post, nil
}

// CreateComment creates a non-commentable comment under postID.
func (s *PostService) CreateComment(ctx context.Context, postID int64, req CreateCommentRequest) (*models.Post, error) {
	title := req.Title
	if title == "" {
		title = "Comment"
	}
	fields := map[string]string{
		"title":         title,
		"text":          req.Text,
		"type":          string(models.ContentTypeComment),
		"parentId":      strconv.FormatInt(postID, 10),
		"isCommentable": "false",
		"authorId":      strconv.FormatInt(req.AuthorID, 10),
	}

	var comment models.Post
	if err := s.api.PostMultipart(ctx, "/contents/create", fields, imagePart("image", req.Image), &comment); err != nil {
		return nil, fmt.Errorf("failed to create comment on post %d: %w", postID, err)
	}
	return &comment, nil
}

// GetAllPosts lists every top-level post.
func (s *PostService) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return s.list(ctx, "/contents/posts")
}

// GetPostByID fetches one post or comment.
func (s *PostService) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := s.api.GetJSON(ctx, fmt.Sprintf("/contents/get/%d", id), &post); err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return &post, nil
}

// GetPostsByAuthor lists the top-level posts of one author.
func (s *PostService) GetPostsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	return s.list(ctx, fmt.Sprintf("/contents/posts/author/%d", authorID))
}

// GetCommentsByPost lists the direct comments of a post.
func (s *PostService) GetCommentsByPost(ctx context.Context, postID int64) ([]models.Post, error) {
	return s.list(ctx, fmt.Sprintf("/contents/comments/parent/%d", postID))
}

// GetCommentsByAuthor lists every comment one author wrote.
func (s *PostService) GetCommentsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	return s.list(ctx, fmt.Sprintf("/contents/comments/author/%d", authorID))
}

// UpdatePost replaces title and text.
func (s *PostService) UpdatePost(ctx context.Context, id int64, title, text string) (*models.Post, error) {
	body := map[string]string{"title": title, "text": text}
	var post models.Post
	if err := s.api.PutJSON(ctx, fmt.Sprintf("/contents/update/%d", id), body, &post); err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", id, err)
	}
	return &post, nil
}

// DeletePost removes a post together with its comments.
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/contents/delete/%d", id), nil); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	return nil
}

// UpdateStatus moves a post to another lifecycle status.
func (s *PostService) UpdateStatus(ctx context.Context, id int64, status models.PostStatus) (*models.Post, error) {
	path := client.WithQuery(fmt.Sprintf("/contents/update-status/%d", id), url.Values{"status": {string(status)}})
	var post models.Post
	if err := s.api.PutJSON(ctx, path, nil, &post); err != nil {
		return nil, fmt.Errorf("failed to update status of post %d: %w", id, err)
	}
	return &post, nil
}

// Vote casts userID's vote. The API toggles a repeated vote of the same type off.
func (s *PostService) Vote(ctx context.Context, postID, userID int64, voteType models.VoteType) (*models.Post, error) {
	path := client.WithQuery(fmt.Sprintf("/contents/%d/vote", postID), url.Values{
		"userId":   {strconv.FormatInt(userID, 10)},
		"voteType": {string(voteType)},
	})
	var post models.Post
	if err := s.api.PostJSON(ctx, path, nil, &post); err != nil {
		return nil, fmt.Errorf("failed to vote on post %d: %w", postID, err)
	}
	return &post, nil
}

// RemoveVote withdraws userID's vote.
func (s *PostService) RemoveVote(ctx context.Context, postID, userID int64) (*models.Post, error) {
	path := client.WithQuery(fmt.Sprintf("/contents/%d/vote", postID), url.Values{
		"userId": {strconv.FormatInt(userID, 10)},
	})
	var post models.Post
	if err := s.api.Delete(ctx, path, &post); err != nil {
		return nil, fmt.Errorf("failed to remove vote on post %d: %w", postID, err)
	}
	return &post, nil
}

func (s *PostService) list(ctx context.Context, path string) ([]models.Post, error) {
	var posts []models.Post
	if err := s.api.GetJSON(ctx, path, &posts); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func imagePart(field string, u *models.Upload) *client.FilePart {
	if u == nil || len(u.Data) == 0 {
		return nil
	}
	return &client.FilePart{Field: field, Filename: u.Filename, ContentType: u.ContentType, Data: u.Data}
}
