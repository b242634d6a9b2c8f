package controllers

import (
	"net/http"
	"sort"
	"strings"

	"instafront/app/middleware"
	"instafront/app/services"
	"instafront/app/views"
)

// TagController handles listing and creating tags
type TagController struct {
	*Base
	tags services.TagAPI
}

// NewTagController creates a new TagController
func NewTagController(base *Base, tags services.TagAPI) *TagController {
	return &TagController{Base: base, tags: tags}
}

// Index lists the tags alphabetically.
func (tc *TagController) Index(w http.ResponseWriter, r *http.Request) {
	tags, err := tc.tags.GetAllTags(r.Context())
	if err != nil {
		tc.handleAPIError(w, r, err, "Failed to load tags")
		return
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})
	if middleware.WantsJSON(r) {
		tc.sendJSON(w, http.StatusOK, tags)
		return
	}
	tc.render(w, r, http.StatusOK, "tags", tc.page(r, "Tags", views.TagsView{Tags: tags}))
}

// Create makes a new tag from the name field.
func (tc *TagController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		tc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		tc.sendError(w, r, "Tag name is required", http.StatusBadRequest)
		return
	}
	tag, err := tc.tags.CreateTag(r.Context(), name)
	if err != nil {
		tc.handleAPIError(w, r, err, "Failed to create tag")
		return
	}
	if middleware.WantsJSON(r) {
		tc.sendJSON(w, http.StatusCreated, tag)
		return
	}
	http.Redirect(w, r, "/tags", http.StatusSeeOther)
}
