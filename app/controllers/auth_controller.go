package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"instafront/app/models"
	"instafront/app/services"
	"instafront/app/views"
)

// AuthController handles the landing, login, register and logout pages
type AuthController struct {
	*Base
	auth services.AuthAPI
}

// NewAuthController creates a new AuthController
func NewAuthController(base *Base, auth services.AuthAPI) *AuthController {
	return &AuthController{Base: base, auth: auth}
}

// Start shows the landing page, or the feed for a logged-in user.
func (ac *AuthController) Start(w http.ResponseWriter, r *http.Request) {
	if ac.Sessions.IsAuthenticated(r) {
		http.Redirect(w, r, "/user", http.StatusSeeOther)
		return
	}
	ac.render(w, r, http.StatusOK, "start", ac.page(r, "Welcome", nil))
}

func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	if ac.Sessions.IsAuthenticated(r) {
		http.Redirect(w, r, "/user", http.StatusSeeOther)
		return
	}
	ac.render(w, r, http.StatusOK, "login", ac.page(r, "Log In", views.AuthView{}))
}

// Login checks the credentials remotely and starts a session.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	form := models.LoginForm{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	view := views.AuthView{Username: form.Username}
	if err := form.Validate(); err != nil {
		ac.authFailed(w, r, "login", view, err.Error())
		return
	}

	resp, err := ac.auth.Login(r.Context(), services.LoginRequest{Username: form.Username, Password: form.Password})
	if err != nil {
		ac.authFailed(w, r, "login", view, authMessage(err, "Login failed. Please check your credentials."))
		return
	}
	ac.startSession(w, r, resp, "")
}

func (ac *AuthController) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if ac.Sessions.IsAuthenticated(r) {
		http.Redirect(w, r, "/user", http.StatusSeeOther)
		return
	}
	ac.render(w, r, http.StatusOK, "register", ac.page(r, "Sign Up", views.AuthView{}))
}

// Register creates the account and logs the new user in. A password
// mismatch is caught before any remote call.
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	form := models.RegisterForm{
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
	}
	view := views.AuthView{Username: form.Username, Email: form.Email}
	if err := form.Validate(); err != nil {
		ac.authFailed(w, r, "register", view, err.Error())
		return
	}

	resp, err := ac.auth.Register(r.Context(), services.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		ac.authFailed(w, r, "register", view, authMessage(err, "Registration failed. Please try again."))
		return
	}
	ac.startSession(w, r, resp, form.Email)
}

// Logout forgets the session and returns to the login page.
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := ac.Sessions.Clear(w, r); err != nil {
		log.Printf("Error clearing session: %v", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// startSession caches the identifiers the API returned. email fills in for
// a response that omits it.
func (ac *AuthController) startSession(w http.ResponseWriter, r *http.Request, resp *services.AuthResponse, email string) {
	user := &models.SessionUser{
		UserID:    resp.ID,
		Username:  resp.Username,
		Email:     resp.Email,
		CreatedAt: time.Now().UTC(),
	}
	if user.Email == "" {
		user.Email = email
	}
	if err := ac.Sessions.Save(w, user); err != nil {
		log.Printf("Error saving session for %q: %v", resp.Username, err)
		ac.sendError(w, r, "Failed to start session", http.StatusInternalServerError)
		return
	}
	log.Printf("User %q (%d) logged in", resp.Username, resp.ID)
	http.Redirect(w, r, "/user", http.StatusSeeOther)
}

func (ac *AuthController) authFailed(w http.ResponseWriter, r *http.Request, name string, view views.AuthView, message string) {
	title := "Log In"
	if name == "register" {
		title = "Sign Up"
	}
	page := ac.page(r, title, view)
	page.Error = message
	ac.render(w, r, http.StatusUnprocessableEntity, name, page)
}

func authMessage(err error, fallback string) string {
	var authErr *services.AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return userMessage(err, fallback)
}
