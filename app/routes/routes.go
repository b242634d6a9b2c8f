package routes

import (
	"net/http"

	"instafront/app/controllers"
	"instafront/app/middleware"
	"instafront/app/services"
	"instafront/app/session"
	"instafront/app/views"

	"github.com/gorilla/mux"
)

// Dependencies are the collaborators the routes are wired to.
type Dependencies struct {
	Templates *views.Templates
	Sessions  *session.Manager
	Auth      services.AuthAPI
	Posts     services.PostAPI
	Tags      services.TagAPI
	Users     services.UserAPI
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders)
	router.Use(middleware.Session(deps.Sessions))

	base := controllers.NewBase(deps.Templates, deps.Sessions)
	authController := controllers.NewAuthController(base, deps.Auth)
	userController := controllers.NewUserController(base, deps.Posts, deps.Users)
	postController := controllers.NewPostController(base, deps.Posts, deps.Tags)
	commentController := controllers.NewCommentController(base, deps.Posts)
	tagController := controllers.NewTagController(base, deps.Tags)
	profileController := controllers.NewProfileController(base, deps.Users)

	// Public pages
	router.HandleFunc("/", authController.Start).Methods("GET")
	router.HandleFunc("/login", authController.LoginForm).Methods("GET")
	router.HandleFunc("/login", authController.Login).Methods("POST")
	router.HandleFunc("/register", authController.RegisterForm).Methods("GET")
	router.HandleFunc("/register", authController.Register).Methods("POST")
	router.HandleFunc("/logout", authController.Logout).Methods("POST")

	// Pages that need a session
	web := router.NewRoute().Subrouter()
	web.Use(middleware.RequireAuth)

	web.HandleFunc("/user", userController.Feed).Methods("GET")
	web.HandleFunc("/user/posts", userController.MyPosts).Methods("GET")
	web.HandleFunc("/users", userController.List).Methods("GET")
	web.HandleFunc("/users/{id:[0-9]+}", userController.Show).Methods("GET")

	web.HandleFunc("/posts/new", postController.New).Methods("GET")
	web.HandleFunc("/posts", postController.Create).Methods("POST")
	web.HandleFunc("/posts/{id:-?[0-9]+}", postController.Show).Methods("GET")
	web.HandleFunc("/posts/{id:[0-9]+}/edit", postController.EditForm).Methods("GET")
	web.HandleFunc("/posts/{id:[0-9]+}/edit", postController.Update).Methods("POST")
	web.HandleFunc("/posts/{id:[0-9]+}/delete", postController.ConfirmDelete).Methods("GET")
	web.HandleFunc("/posts/{id:[0-9]+}/delete", postController.Delete).Methods("POST")
	web.HandleFunc("/posts/{id:[0-9]+}/vote", postController.Vote).Methods("POST")
	web.HandleFunc("/posts/{id:[0-9]+}/unvote", postController.Unvote).Methods("POST")
	web.HandleFunc("/posts/{id:[0-9]+}/status", postController.UpdateStatus).Methods("POST")
	web.HandleFunc("/posts/{id:[0-9]+}/comments", commentController.Create).Methods("POST")

	web.HandleFunc("/tags", tagController.Index).Methods("GET")
	web.HandleFunc("/tags", tagController.Create).Methods("POST")

	web.HandleFunc("/profile", profileController.Show).Methods("GET")
	web.HandleFunc("/profile", profileController.Update).Methods("POST")
	web.HandleFunc("/profile/picture", profileController.UploadPicture).Methods("POST")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.RequireAuth)
	api.HandleFunc("/posts", postController.List).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}", postController.Show).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}/vote", postController.Vote).Methods("POST")
	api.HandleFunc("/posts/{id:[0-9]+}/unvote", postController.Unvote).Methods("POST")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base.NotFound(w, r)
	})

	return router
}
