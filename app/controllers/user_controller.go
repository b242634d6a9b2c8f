package controllers

import (
	"context"
	"net/http"

	"instafront/app/models"
	"instafront/app/services"
	"instafront/app/views"
)

// UserController handles the feed, user pages and the user list
type UserController struct {
	*Base
	posts services.PostAPI
	users services.UserAPI
}

// NewUserController creates a new UserController
func NewUserController(base *Base, posts services.PostAPI, users services.UserAPI) *UserController {
	return &UserController{Base: base, posts: posts, users: users}
}

// Feed shows the session user's header over every post.
func (uc *UserController) Feed(w http.ResponseWriter, r *http.Request) {
	current := uc.currentUser(r)
	uc.showFeed(w, r, current.UserID)
}

// Show is the feed page headed by another user's profile.
func (uc *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		uc.sendError(w, r, "Invalid user ID", http.StatusBadRequest)
		return
	}
	uc.showFeed(w, r, id)
}

func (uc *UserController) showFeed(w http.ResponseWriter, r *http.Request, profileID int64) {
	ctx := r.Context()
	current := uc.currentUser(r)

	profile, err := uc.users.GetUserByID(ctx, profileID)
	if err != nil {
		if uc.unauthorized(w, r, err) {
			return
		}
		if current == nil || profileID != current.UserID {
			uc.handleAPIError(w, r, err, "Failed to load user")
			return
		}
		// the session already knows enough to head our own page
		profile = current.AsUser()
	}

	posts, err := uc.posts.GetAllPosts(ctx)
	if err != nil {
		uc.handleAPIError(w, r, err, "Failed to load posts")
		return
	}

	mode := models.ParseFilterMode(r.URL.Query().Get("filter"))
	query := r.URL.Query().Get("q")
	view := views.FeedView{
		Profile:       profile,
		IsCurrentUser: current != nil && profile.ID == current.UserID,
		Posts:         models.FilterPosts(models.SortNewest(posts), mode, query),
		Filter:        mode,
		Query:         query,
	}
	uc.render(w, r, http.StatusOK, "feed", uc.page(r, profile.Username, view))
}

// List shows every user with their score.
func (uc *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := uc.users.GetAllUsers(r.Context())
	if err != nil {
		uc.handleAPIError(w, r, err, "Failed to load users")
		return
	}
	uc.render(w, r, http.StatusOK, "users", uc.page(r, "Users", views.UsersView{Users: users}))
}

// MyPosts lists the session user's posts with edit and delete actions.
func (uc *UserController) MyPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := authorPosts(r.Context(), uc.posts, uc.currentUser(r).UserID)
	if err != nil {
		uc.handleAPIError(w, r, err, "Failed to load posts")
		return
	}
	uc.render(w, r, http.StatusOK, "user_posts", uc.page(r, "My Posts", views.UserPostsView{Posts: posts}))
}

// authorPosts loads one author's posts, newest first.
func authorPosts(ctx context.Context, api services.PostAPI, authorID int64) ([]models.Post, error) {
	posts, err := api.GetPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return models.SortNewest(posts), nil
}
