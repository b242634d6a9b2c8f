package views

import "instafront/app/models"

// Page is the value every template receives. Content holds the page-specific view.
type Page struct {
	Title       string
	CurrentUser *models.SessionUser
	Error       string
	Notice      string
	Content     interface{}
}

// FeedView backs the user page: a profile header over the filtered feed.
type FeedView struct {
	Profile       *models.User
	IsCurrentUser bool
	Posts         []models.Post
	Filter        models.FilterMode
	Query         string
}

// FilterModes exposes the select options to the template.
func (FeedView) FilterModes() []models.FilterMode {
	modes := make([]models.FilterMode, 0, len(models.FilterModes))
	for _, fm := range models.FilterModes {
		modes = append(modes, fm.Mode)
	}
	return modes
}

type UsersView struct {
	Users []models.User
}

type UserPostsView struct {
	Posts []models.Post
}

// ConfirmDeleteView asks the user to confirm deleting Post.
type ConfirmDeleteView struct {
	Post    *models.Post
	Message string
}

// PostFormView backs the new and edit forms.
type PostFormView struct {
	PostID   int64
	Title    string
	Text     string
	TagNames string
	Tags     []models.Tag
}

type PostDetailView struct {
	Post        *models.Post
	Comments    []models.Post
	CanComment  bool
	IsOwner     bool
	CommentText string
	Statuses    []models.PostStatus
}

type ProfileView struct {
	User     *models.User
	Username string
	Email    string
}

type TagsView struct {
	Tags []models.Tag
}

// AuthView keeps the typed fields when a login or register form is shown again.
type AuthView struct {
	Username string
	Email    string
}
