package controllers

import (
	"log"
	"net/http"

	"instafront/app/middleware"
	"instafront/app/models"
	"instafront/app/services"
	"instafront/app/views"
)

// ProfileController handles the session user's profile edits
type ProfileController struct {
	*Base
	users services.UserAPI
}

// NewProfileController creates a new ProfileController
func NewProfileController(base *Base, users services.UserAPI) *ProfileController {
	return &ProfileController{Base: base, users: users}
}

// Show displays the profile form.
func (pc *ProfileController) Show(w http.ResponseWriter, r *http.Request) {
	user, err := pc.users.GetUserByID(r.Context(), pc.currentUser(r).UserID)
	if err != nil {
		pc.handleAPIError(w, r, err, "Failed to load profile")
		return
	}
	view := views.ProfileView{User: user, Username: user.Username, Email: user.Email}
	pc.render(w, r, http.StatusOK, "profile", pc.page(r, "Profile", view))
}

// Update changes username and email, then refreshes the session record so
// the header shows the new name.
func (pc *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	current := pc.currentUser(r)
	ctx := r.Context()

	user, err := pc.users.GetUserByID(ctx, current.UserID)
	if err != nil {
		pc.handleAPIError(w, r, err, "Failed to load profile")
		return
	}

	form := models.ProfileForm{Username: r.FormValue("username"), Email: r.FormValue("email")}
	if err := form.Validate(); err != nil {
		page := pc.page(r, "Profile", views.ProfileView{User: user, Username: form.Username, Email: form.Email})
		page.Error = err.Error()
		pc.render(w, r, http.StatusUnprocessableEntity, "profile", page)
		return
	}

	user.Username = form.Username
	user.Email = form.Email
	updated, err := pc.users.UpdateUser(ctx, current.UserID, user)
	if err != nil {
		if pc.unauthorized(w, r, err) {
			return
		}
		log.Printf("Failed to update profile of user %d: %v", current.UserID, err)
		page := pc.page(r, "Profile", views.ProfileView{User: user, Username: form.Username, Email: form.Email})
		page.Error = userMessage(err, "Failed to update profile")
		pc.render(w, r, statusFor(err), "profile", page)
		return
	}

	refreshed := &models.SessionUser{
		UserID:    current.UserID,
		Username:  updated.Username,
		Email:     updated.Email,
		CreatedAt: current.CreatedAt,
	}
	if refreshed.Username == "" {
		refreshed.Username = form.Username
	}
	if refreshed.Email == "" {
		refreshed.Email = form.Email
	}
	if err := pc.Sessions.Refresh(w, r, refreshed); err != nil {
		log.Printf("Error refreshing session of user %d: %v", current.UserID, err)
	}

	if middleware.WantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, updated)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// UploadPicture replaces the profile picture.
func (pc *ProfileController) UploadPicture(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		pc.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	picture, err := readUpload(r, "picture")
	if err != nil || picture == nil {
		pc.sendError(w, r, "Please choose a picture to upload", http.StatusBadRequest)
		return
	}
	userID := pc.currentUser(r).UserID
	if _, err := pc.users.UpdateProfilePicture(r.Context(), userID, picture); err != nil {
		pc.handleAPIError(w, r, err, "Failed to upload profile picture")
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
