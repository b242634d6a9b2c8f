package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"instafront/app/client"
	"instafront/app/middleware"
	"instafront/app/models"
	"instafront/app/session"
	"instafront/app/views"

	"github.com/gorilla/mux"
)

// maxUploadSize bounds multipart bodies: one image plus the text fields.
const maxUploadSize = 10 << 20

// Base carries what every controller needs to answer a request.
type Base struct {
	Templates *views.Templates
	Sessions  *session.Manager
}

// NewBase creates a new Base
func NewBase(templates *views.Templates, sessions *session.Manager) *Base {
	return &Base{Templates: templates, Sessions: sessions}
}

func (b *Base) currentUser(r *http.Request) *models.SessionUser {
	return b.Sessions.Current(r)
}

// page builds a Page for r with the session user filled in.
func (b *Base) page(r *http.Request, title string, content interface{}) *views.Page {
	return &views.Page{Title: title, CurrentUser: b.currentUser(r), Content: content}
}

func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name string, page *views.Page) {
	if err := b.Templates.Render(w, status, name, page); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Helper methods for consistent response handling

func (b *Base) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (b *Base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if middleware.WantsJSON(r) {
		b.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	page := b.page(r, "Error", nil)
	page.Error = message
	b.render(w, r, status, "error", page)
}

// NotFound answers unknown paths.
func (b *Base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.sendError(w, r, "Page not found", http.StatusNotFound)
}

// handleAPIError answers a failed remote call. A 401 ends the session and
// sends the user to /login; anything else is logged and shown as message.
func (b *Base) handleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if b.unauthorized(w, r, err) {
		return
	}
	log.Printf("%s: %v", message, err)
	b.sendError(w, r, message, statusFor(err))
}

// unauthorized clears the session and redirects when err is a remote 401.
func (b *Base) unauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, client.ErrUnauthorized) {
		return false
	}
	log.Printf("Remote API rejected the session: %v", err)
	if cerr := b.Sessions.Clear(w, r); cerr != nil {
		log.Printf("Error clearing session: %v", cerr)
	}
	if middleware.WantsJSON(r) {
		b.sendJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return true
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

func statusFor(err error) int {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

// userMessage prefers the server's explanation over the generic fallback.
func userMessage(err error, fallback string) string {
	if msg := client.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}

// pathID reads a positive id from the route variable name.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, mux.Vars(r)[name])
	}
	return id, nil
}

// readUpload returns the file posted under field, or nil when none was sent.
func readUpload(r *http.Request, field string) (*models.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &models.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// parseForm accepts both urlencoded and multipart bodies.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// redirectBack returns to the page the form was posted from, or fallback.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := fallback
	if ref := r.Referer(); ref != "" {
		if u, err := r.URL.Parse(ref); err == nil && u.Host == r.Host {
			target = u.RequestURI()
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
