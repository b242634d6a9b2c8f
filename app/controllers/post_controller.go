package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"instafront/app/middleware"
	"instafront/app/models"
	"instafront/app/services"
	"instafront/app/views"
)

const deleteConfirmMessage = "Are you sure you want to delete this post?"

// PostController handles HTTP requests for posts
type PostController struct {
	*Base
	posts services.PostAPI
	tags  services.TagAPI
}

// NewPostController creates a new PostController
func NewPostController(base *Base, posts services.PostAPI, tags services.TagAPI) *PostController {
	return &PostController{Base: base, posts: posts, tags: tags}
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.renderNewForm(w, r, http.StatusOK, views.PostFormView{}, "")
}

func (pc *PostController) renderNewForm(w http.ResponseWriter, r *http.Request, status int, view views.PostFormView, message string) {
	tags, err := pc.tags.GetAllTags(r.Context())
	if err != nil {
		if pc.unauthorized(w, r, err) {
			return
		}
		log.Printf("Failed to load tags: %v", err)
		if message == "" {
			message = "Failed to load tags"
		}
	}
	view.Tags = tags
	page := pc.page(r, "New Post", view)
	page.Error = message
	pc.render(w, r, status, "post_new", page)
}

// Create handles creating a new post. Tag names the API does not know yet
// are created first.
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		pc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	image, err := readUpload(r, "image")
	if err != nil {
		pc.sendError(w, r, "Failed to read image", http.StatusBadRequest)
		return
	}
	form := models.PostForm{
		Title:    r.FormValue("title"),
		Text:     r.FormValue("text"),
		TagNames: append([]string{r.FormValue("tags")}, r.Form["tag"]...),
		Image:    image,
	}
	if err := form.Validate(); err != nil {
		view := views.PostFormView{Title: form.Title, Text: form.Text, TagNames: strings.Join(form.TagNames, ", ")}
		pc.renderNewForm(w, r, http.StatusUnprocessableEntity, view, err.Error())
		return
	}

	user := pc.currentUser(r)
	pc.ensureTags(r, form.TagNames)
	post, err := pc.posts.CreatePost(r.Context(), services.CreatePostRequest{
		AuthorID: user.UserID,
		Title:    form.Title,
		Text:     form.Text,
		TagNames: form.TagNames,
		Image:    form.Image,
	})
	if err != nil {
		if pc.unauthorized(w, r, err) {
			return
		}
		log.Printf("Failed to create post: %v", err)
		view := views.PostFormView{Title: form.Title, Text: form.Text, TagNames: strings.Join(form.TagNames, ", ")}
		pc.renderNewForm(w, r, http.StatusBadGateway, view, userMessage(err, "Failed to create post"))
		return
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusCreated, post)
		return
	}
	http.Redirect(w, r, "/user/posts", http.StatusSeeOther)
}

// ensureTags creates the names that are not among the known tags.
// Failures are logged; the post still carries the names.
func (pc *PostController) ensureTags(r *http.Request, names []string) {
	if len(names) == 0 {
		return
	}
	known := make(map[string]bool)
	if tags, err := pc.tags.GetAllTags(r.Context()); err == nil {
		for _, t := range tags {
			known[strings.ToLower(t.Name)] = true
		}
	}
	for _, name := range names {
		if known[strings.ToLower(name)] {
			continue
		}
		if _, err := pc.tags.CreateTag(r.Context(), name); err != nil {
			log.Printf("Failed to create tag %q: %v", name, err)
		}
	}
}

// Show handles displaying a single post with its comments
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return
	}
	showPostDetail(pc.Base, pc.posts, w, r, id, http.StatusOK, "", "")
}

// showPostDetail renders the detail page. message and commentText carry a
// rejected comment back to the form.
func showPostDetail(b *Base, api services.PostAPI, w http.ResponseWriter, r *http.Request, id int64, status int, message, commentText string) {
	ctx := r.Context()
	post, err := api.GetPostByID(ctx, id)
	if err != nil {
		b.handleAPIError(w, r, err, "Failed to load post")
		return
	}
	if middleware.WantsJSON(r) {
		b.sendJSON(w, http.StatusOK, post)
		return
	}

	comments, err := api.GetCommentsByPost(ctx, id)
	if err != nil {
		if b.unauthorized(w, r, err) {
			return
		}
		log.Printf("Failed to load comments of post %d: %v", id, err)
		if message == "" {
			message = "Failed to load comments"
		}
	}

	user := b.currentUser(r)
	view := views.PostDetailView{
		Post:        post,
		Comments:    models.SortNewest(comments),
		CanComment:  post.IsCommentable && user != nil,
		IsOwner:     user != nil && post.OwnedBy(user.UserID),
		CommentText: commentText,
		Statuses:    models.PostStatuses,
	}
	page := b.page(r, post.Title, view)
	page.Error = message
	b.render(w, r, status, "post_detail", page)
}

// EditForm shows the title and text of an owned post for editing.
func (pc *PostController) EditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.ownedPost(w, r)
	if !ok {
		return
	}
	view := views.PostFormView{PostID: post.ID, Title: post.Title, Text: post.Text, TagNames: strings.Join(post.TagNames(), ", ")}
	pc.render(w, r, http.StatusOK, "post_edit", pc.page(r, "Edit Post", view))
}

// Update saves a new title and text.
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.ownedPost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	form := models.PostForm{Title: r.FormValue("title"), Text: r.FormValue("text")}
	if err := form.Validate(); err != nil {
		page := pc.page(r, "Edit Post", views.PostFormView{PostID: post.ID, Title: form.Title, Text: form.Text, TagNames: strings.Join(post.TagNames(), ", ")})
		page.Error = err.Error()
		pc.render(w, r, http.StatusUnprocessableEntity, "post_edit", page)
		return
	}

	updated, err := pc.posts.UpdatePost(r.Context(), post.ID, form.Title, form.Text)
	if err != nil {
		pc.handleAPIError(w, r, err, "Failed to update post")
		return
	}
	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, updated)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/posts/%d", post.ID), http.StatusSeeOther)
}

// ConfirmDelete asks before deleting.
func (pc *PostController) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.ownedPost(w, r)
	if !ok {
		return
	}
	view := views.ConfirmDeleteView{Post: post, Message: deleteConfirmMessage}
	pc.render(w, r, http.StatusOK, "confirm_delete", pc.page(r, "Delete Post", view))
}

// Delete removes the post once confirm=yes was posted. Any other answer is
// a decline and nothing is sent to the API. Either way the user's list is
// shown; a failed delete leaves it as it was.
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	if r.FormValue("confirm") != "yes" {
		log.Printf("Delete of post %d declined", id)
		http.Redirect(w, r, "/user/posts", http.StatusSeeOther)
		return
	}

	post, ok := pc.ownedPost(w, r)
	if !ok {
		return
	}

	user := pc.currentUser(r)
	deleteErr := pc.posts.DeletePost(r.Context(), post.ID)
	if deleteErr != nil && pc.unauthorized(w, r, deleteErr) {
		return
	}

	posts, err := authorPosts(r.Context(), pc.posts, user.UserID)
	if err != nil {
		pc.handleAPIError(w, r, err, "Failed to load posts")
		return
	}

	if middleware.WantsJSON(r) {
		if deleteErr != nil {
			pc.sendJSON(w, statusFor(deleteErr), map[string]string{"error": "Failed to delete post"})
			return
		}
		pc.sendJSON(w, http.StatusOK, map[string]int64{"deleted": post.ID})
		return
	}

	page := pc.page(r, "My Posts", nil)
	status := http.StatusOK
	if deleteErr != nil {
		log.Printf("Failed to delete post %d: %v", post.ID, deleteErr)
		page.Error = "Failed to delete post"
		status = statusFor(deleteErr)
	} else {
		log.Printf("Post %d deleted by user %d", post.ID, user.UserID)
		posts = models.Without(posts, post.ID)
		page.Notice = "Post deleted"
	}
	page.Content = views.UserPostsView{Posts: posts}
	pc.render(w, r, status, "user_posts", page)
}

// Vote casts an up or down vote. JSON callers get the new counts.
func (pc *PostController) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return
	}
	voteType, err := models.ParseVoteDirection(formOrQuery(r, "direction"))
	if err != nil {
		pc.sendError(w, r, "Invalid vote direction", http.StatusBadRequest)
		return
	}
	post, err := pc.posts.Vote(r.Context(), id, pc.currentUser(r).UserID, voteType)
	pc.voteResult(w, r, id, post, err)
}

// Unvote withdraws the session user's vote.
func (pc *PostController) Unvote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return
	}
	post, err := pc.posts.RemoveVote(r.Context(), id, pc.currentUser(r).UserID)
	pc.voteResult(w, r, id, post, err)
}

func (pc *PostController) voteResult(w http.ResponseWriter, r *http.Request, id int64, post *models.Post, err error) {
	if err != nil {
		if pc.unauthorized(w, r, err) {
			return
		}
		log.Printf("Failed to vote on post %d: %v", id, err)
		pc.sendError(w, r, userMessage(err, "Failed to vote"), statusFor(err))
		return
	}
	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, map[string]interface{}{
			"id":        post.ID,
			"upvotes":   post.Upvotes,
			"downvotes": post.Downvotes,
		})
		return
	}
	redirectBack(w, r, fmt.Sprintf("/posts/%d", id))
}

// UpdateStatus moves an owned post to another status.
func (pc *PostController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return
	}
	status, err := models.ParsePostStatus(formOrQuery(r, "status"))
	if err != nil {
		pc.sendError(w, r, "Invalid status", http.StatusBadRequest)
		return
	}
	post, ok := pc.ownedPost(w, r)
	if !ok {
		return
	}
	updated, err := pc.posts.UpdateStatus(r.Context(), post.ID, status)
	if err != nil {
		pc.handleAPIError(w, r, err, "Failed to update status")
		return
	}
	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, updated)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/posts/%d", id), http.StatusSeeOther)
}

// List is the JSON feed: every post newest first, optionally filtered.
func (pc *PostController) List(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.posts.GetAllPosts(r.Context())
	if err != nil {
		pc.handleAPIError(w, r, err, "Failed to load posts")
		return
	}
	mode := models.ParseFilterMode(r.URL.Query().Get("filter"))
	pc.sendJSON(w, http.StatusOK, models.FilterPosts(models.SortNewest(posts), mode, r.URL.Query().Get("q")))
}

// ownedPost loads the post named by the route and checks the session user
// wrote it. On failure the response has been written.
func (pc *PostController) ownedPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return nil, false
	}
	post, err := pc.posts.GetPostByID(r.Context(), id)
	if err != nil {
		pc.handleAPIError(w, r, err, "Failed to load post")
		return nil, false
	}
	if !post.OwnedBy(pc.currentUser(r).UserID) {
		pc.sendError(w, r, "You can only change your own posts", http.StatusForbidden)
		return nil, false
	}
	return post, true
}

func formOrQuery(r *http.Request, key string) string {
	if v := r.PostFormValue(key); v != "" {
		return v
	}
	return r.URL.Query().Get(key)
}
