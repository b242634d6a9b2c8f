package controllers

import (
	"fmt"
	"log"
	"net/http"

	"instafront/app/middleware"
	"instafront/app/models"
	"instafront/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	*Base
	posts services.PostAPI
}

// NewCommentController creates a new CommentController
func NewCommentController(base *Base, posts services.PostAPI) *CommentController {
	return &CommentController{Base: base, posts: posts}
}

// Create adds the session user's comment, with an optional image, to a post.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		cc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return
	}
	if err := parseForm(w, r); err != nil {
		cc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	image, err := readUpload(r, "image")
	if err != nil {
		cc.sendError(w, r, "Failed to read image", http.StatusBadRequest)
		return
	}

	form := models.CommentForm{Text: r.FormValue("text"), Image: image}
	if err := form.Validate(); err != nil {
		if middleware.WantsJSON(r) {
			cc.sendError(w, r, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		showPostDetail(cc.Base, cc.posts, w, r, postID, http.StatusUnprocessableEntity, err.Error(), "")
		return
	}

	parent, err := cc.posts.GetPostByID(r.Context(), postID)
	if err != nil {
		cc.handleAPIError(w, r, err, "Failed to load post")
		return
	}
	if !parent.IsCommentable || parent.IsComment() {
		cc.sendError(w, r, "Comments are not allowed on this post", http.StatusBadRequest)
		return
	}

	comment, err := cc.posts.CreateComment(r.Context(), postID, services.CreateCommentRequest{
		AuthorID: cc.currentUser(r).UserID,
		Text:     form.Text,
		Image:    form.Image,
	})
	if err != nil {
		if cc.unauthorized(w, r, err) {
			return
		}
		log.Printf("Failed to create comment on post %d: %v", postID, err)
		if middleware.WantsJSON(r) {
			cc.sendError(w, r, userMessage(err, "Failed to add comment"), statusFor(err))
			return
		}
		showPostDetail(cc.Base, cc.posts, w, r, postID, statusFor(err), userMessage(err, "Failed to add comment"), form.Text)
		return
	}

	if middleware.WantsJSON(r) {
		cc.sendJSON(w, http.StatusCreated, comment)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/posts/%d#comment-%d", postID, comment.ID), http.StatusSeeOther)
}
