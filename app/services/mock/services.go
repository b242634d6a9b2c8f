package mock

import (
	"context"
	"sort"
	"strings"
	"sync"

	"instafront/app/client"
	"instafront/app/models"
	"instafront/app/services"
)

// API is an in-memory stand-in for the remote API. It implements
// AuthAPI, PostAPI, TagAPI and UserAPI. Setting Err makes every call fail
// with it; FailDelete only affects DeletePost.
type API struct {
	mutex      sync.RWMutex
	posts      map[int64]*models.Post
	users      map[int64]*models.User
	passwords  map[string]string
	tags       []models.Tag
	votes      map[[2]int64]models.VoteType
	nextPostID int64
	nextUserID int64
	nextTagID  int64

	Err        error
	FailDelete error
	FailTags   error
	Deleted    []int64
	Calls      []string
}

var (
	_ services.AuthAPI = (*API)(nil)
	_ services.PostAPI = (*API)(nil)
	_ services.TagAPI  = (*API)(nil)
	_ services.UserAPI = (*API)(nil)
)

func NewAPI() *API {
	return &API{
		posts:      make(map[int64]*models.Post),
		users:      make(map[int64]*models.User),
		passwords:  make(map[string]string),
		votes:      make(map[[2]int64]models.VoteType),
		nextPostID: 1,
		nextUserID: 1,
		nextTagID:  1,
	}
}

// AddUser registers a user with a password and returns it.
func (m *API) AddUser(username, email, password string) *models.User {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	u := &models.User{ID: m.nextUserID, Username: username, Email: email, Role: "USER"}
	m.nextUserID++
	m.users[u.ID] = u
	m.passwords[username] = password
	return u
}

// AddPost stores a post as given, assigning an id when it has none.
func (m *API) AddPost(p models.Post) *models.Post {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if p.ID == 0 {
		p.ID = m.nextPostID
	}
	if p.ID >= m.nextPostID {
		m.nextPostID = p.ID + 1
	}
	if p.Type == "" {
		p.Type = models.ContentTypePost
	}
	stored := p
	m.posts[p.ID] = &stored
	return &stored
}

// CallCount counts recorded calls with the given name.
func (m *API) CallCount(name string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *API) record(name string) error {
	m.Calls = append(m.Calls, name)
	return m.Err
}

// AuthAPI implementation
func (m *API) Login(ctx context.Context, req services.LoginRequest) (*services.AuthResponse, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("Login"); err != nil {
		return nil, err
	}
	pw, ok := m.passwords[req.Username]
	if !ok || pw != req.Password {
		return nil, &services.AuthError{Message: "Invalid username or password"}
	}
	for _, u := range m.users {
		if u.Username == req.Username {
			return &services.AuthResponse{ID: u.ID, Username: u.Username, Email: u.Email}, nil
		}
	}
	return nil, &services.AuthError{Message: "Invalid username or password"}
}

func (m *API) Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResponse, error) {
	m.mutex.Lock()
	if err := m.record("Register"); err != nil {
		m.mutex.Unlock()
		return nil, err
	}
	if _, exists := m.passwords[req.Username]; exists {
		m.mutex.Unlock()
		return nil, &services.AuthError{Message: "Username already exists"}
	}
	m.mutex.Unlock()
	u := m.AddUser(req.Username, req.Email, req.Password)
	return &services.AuthResponse{ID: u.ID, Username: u.Username, Email: u.Email}, nil
}

// PostAPI implementation
func (m *API) CreatePost(ctx context.Context, req services.CreatePostRequest) (*models.Post, error) {
	m.mutex.Lock()
	if err := m.record("CreatePost"); err != nil {
		m.mutex.Unlock()
		return nil, err
	}
	author := m.userOrStub(req.AuthorID)
	m.mutex.Unlock()

	p := models.Post{
		Type:          models.ContentTypePost,
		Title:         req.Title,
		Text:          req.Text,
		Author:        author,
		Status:        models.StatusJustPosted,
		IsCommentable: true,
		DateTime:      "2024-01-01T00:00:00",
	}
	if req.Image != nil {
		p.Image = req.Image.Data
	}
	for _, name := range req.TagNames {
		p.Tags = append(p.Tags, models.Tag{Name: name})
	}
	return m.AddPost(p), nil
}

func (m *API) CreateComment(ctx context.Context, postID int64, req services.CreateCommentRequest) (*models.Post, error) {
	m.mutex.Lock()
	if err := m.record("CreateComment"); err != nil {
		m.mutex.Unlock()
		return nil, err
	}
	parent, ok := m.posts[postID]
	if !ok {
		m.mutex.Unlock()
		return nil, &client.APIError{StatusCode: 404, Message: "Parent content not found"}
	}
	if parent.Status == models.StatusJustPosted {
		parent.Status = models.StatusFirstReactions
	}
	author := m.userOrStub(req.AuthorID)
	parentRef := &models.Post{ID: parent.ID, Title: parent.Title, Type: parent.Type}
	m.mutex.Unlock()

	c := models.Post{
		Type:   models.ContentTypeComment,
		Title:  req.Title,
		Text:   req.Text,
		Author: author,
		Parent: parentRef,
	}
	if req.Image != nil {
		c.Image = req.Image.Data
	}
	return m.AddPost(c), nil
}

func (m *API) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetAllPosts"); err != nil {
		return nil, err
	}
	return m.filter(func(p *models.Post) bool { return p.Type == models.ContentTypePost }), nil
}

func (m *API) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetPostByID"); err != nil {
		return nil, err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Message: "Content not found"}
	}
	cp := *p
	return &cp, nil
}

func (m *API) GetPostsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetPostsByAuthor"); err != nil {
		return nil, err
	}
	return m.filter(func(p *models.Post) bool {
		return p.Type == models.ContentTypePost && p.Author.ID == authorID
	}), nil
}

func (m *API) GetCommentsByPost(ctx context.Context, postID int64) ([]models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetCommentsByPost"); err != nil {
		return nil, err
	}
	return m.filter(func(p *models.Post) bool { return p.Parent != nil && p.Parent.ID == postID }), nil
}

func (m *API) GetCommentsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetCommentsByAuthor"); err != nil {
		return nil, err
	}
	return m.filter(func(p *models.Post) bool {
		return p.Type == models.ContentTypeComment && p.Author.ID == authorID
	}), nil
}

func (m *API) UpdatePost(ctx context.Context, id int64, title, text string) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("UpdatePost"); err != nil {
		return nil, err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404}
	}
	p.Title = title
	p.Text = text
	cp := *p
	return &cp, nil
}

func (m *API) DeletePost(ctx context.Context, id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("DeletePost"); err != nil {
		return err
	}
	if m.FailDelete != nil {
		return m.FailDelete
	}
	if _, ok := m.posts[id]; !ok {
		return &client.APIError{StatusCode: 404}
	}
	delete(m.posts, id)
	for cid, p := range m.posts {
		if p.Parent != nil && p.Parent.ID == id {
			delete(m.posts, cid)
		}
	}
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *API) UpdateStatus(ctx context.Context, id int64, status models.PostStatus) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("UpdateStatus"); err != nil {
		return nil, err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404}
	}
	p.Status = status
	cp := *p
	return &cp, nil
}

func (m *API) Vote(ctx context.Context, postID, userID int64, voteType models.VoteType) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("Vote"); err != nil {
		return nil, err
	}
	p, ok := m.posts[postID]
	if !ok {
		return nil, &client.APIError{StatusCode: 404}
	}
	if p.Author.ID == userID {
		return nil, &client.APIError{StatusCode: 500, Message: "Users cannot vote on their own content"}
	}
	key := [2]int64{postID, userID}
	if existing, voted := m.votes[key]; voted && existing == voteType {
		delete(m.votes, key)
	} else {
		m.votes[key] = voteType
	}
	m.countVotes(p)
	cp := *p
	return &cp, nil
}

func (m *API) RemoveVote(ctx context.Context, postID, userID int64) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("RemoveVote"); err != nil {
		return nil, err
	}
	p, ok := m.posts[postID]
	if !ok {
		return nil, &client.APIError{StatusCode: 404}
	}
	delete(m.votes, [2]int64{postID, userID})
	m.countVotes(p)
	cp := *p
	return &cp, nil
}

// TagAPI implementation
func (m *API) GetAllTags(ctx context.Context) ([]models.Tag, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetAllTags"); err != nil {
		return nil, err
	}
	if m.FailTags != nil {
		return nil, m.FailTags
	}
	out := make([]models.Tag, len(m.tags))
	copy(out, m.tags)
	return out, nil
}

func (m *API) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("CreateTag"); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	for _, t := range m.tags {
		if strings.EqualFold(t.Name, name) {
			cp := t
			return &cp, nil
		}
	}
	tag := models.Tag{ID: m.nextTagID, Name: name}
	m.nextTagID++
	m.tags = append(m.tags, tag)
	return &tag, nil
}

// UserAPI implementation
func (m *API) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetUserByID"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Message: "User not found"}
	}
	cp := *u
	return &cp, nil
}

func (m *API) UpdateUser(ctx context.Context, id int64, user *models.User) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("UpdateUser"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404}
	}
	u.Username = user.Username
	u.Email = user.Email
	cp := *u
	return &cp, nil
}

func (m *API) GetAllUsers(ctx context.Context) ([]models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetAllUsers"); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *API) UpdateProfilePicture(ctx context.Context, id int64, picture *models.Upload) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("UpdateProfilePicture"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404}
	}
	if picture != nil {
		u.ProfilePicture = picture.Data
	}
	cp := *u
	return &cp, nil
}

func (m *API) userOrStub(id int64) models.User {
	if u, ok := m.users[id]; ok {
		return *u
	}
	return models.User{ID: id}
}

func (m *API) filter(keep func(p *models.Post) bool) []models.Post {
	out := []models.Post{}
	for _, p := range m.posts {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *API) countVotes(p *models.Post) {
	p.Upvotes, p.Downvotes = 0, 0
	for key, vt := range m.votes {
		if key[0] != p.ID {
			continue
		}
		if vt == models.VoteUp {
			p.Upvotes++
		} else {
			p.Downvotes++
		}
	}
}
