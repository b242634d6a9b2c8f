package services

import (
	"context"
	"errors"
	"log"

	"instafront/app/client"
)

// ErrInvalidResponse is returned when the API answers 2xx without the expected data.
var ErrInvalidResponse = errors.New("Invalid response from server")

const (
	loginFailedMessage    = "Login failed. Please check your credentials."
	registerFailedMessage = "Registration failed. Please try again."
)

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /users/create.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Banned   bool   `json:"banned"`
	Score    int    `json:"score"`
}

// AuthResponse identifies the authenticated user.
type AuthResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthError carries a message meant for the login/register form.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// AuthService wraps the login and registration endpoints
type AuthService struct {
	api *client.Client
}

// NewAuthService creates a new AuthService
func NewAuthService(api *client.Client) *AuthService {
	return &AuthService{api: api}
}

// Login checks the credentials with the API.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := s.api.PostJSON(ctx, "/users/login", req, &resp); err != nil {
		log.Printf("Login error for %q: %v", req.Username, err)
		return nil, authError(err, loginFailedMessage)
	}
	if resp.ID == 0 {
		log.Printf("Login response for %q carried no id", req.Username)
		return nil, &AuthError{Message: ErrInvalidResponse.Error(), Err: ErrInvalidResponse}
	}
	return &resp, nil
}

// Register creates an account with the default role, score and ban flag.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Role == "" {
		req.Role = "USER"
	}
	var resp AuthResponse
	if err := s.api.PostJSON(ctx, "/users/create", req, &resp); err != nil {
		log.Printf("Registration error for %q: %v", req.Username, err)
		return nil, authError(err, registerFailedMessage)
	}
	if resp.ID == 0 {
		log.Printf("Register response for %q carried no id", req.Username)
		return nil, &AuthError{Message: ErrInvalidResponse.Error(), Err: ErrInvalidResponse}
	}
	return &resp, nil
}

func authError(err error, fallback string) error {
	msg := client.MessageOf(err)
	if msg == "" {
		msg = fallback
	}
	return &AuthError{Message: msg, Err: err}
}
