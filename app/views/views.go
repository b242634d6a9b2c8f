package views

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"instafront/app/models"

	"github.com/russross/blackfriday/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages maps each page name to the files parsed with the layout.
var pages = map[string][]string{
	"start":          {"templates/start.html"},
	"login":          {"templates/login.html"},
	"register":       {"templates/register.html"},
	"feed":           {"templates/feed.html", "templates/post_card.html"},
	"users":          {"templates/users.html"},
	"user_posts":     {"templates/user_posts.html", "templates/post_card.html"},
	"confirm_delete": {"templates/confirm_delete.html", "templates/post_card.html"},
	"post_new":       {"templates/post_new.html"},
	"post_edit":      {"templates/post_edit.html"},
	"post_detail":    {"templates/post_detail.html", "templates/post_card.html"},
	"profile":        {"templates/profile.html"},
	"tags":           {"templates/tags.html"},
	"error":          {"templates/error.html"},
}

// Templates holds one parsed template set per page.
type Templates struct {
	pages map[string]*template.Template
}

// Load parses every page together with the shared layout.
func Load() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template, len(pages))}
	for name, files := range pages {
		patterns := append([]string{"templates/layout.html"}, files...)
		tmpl, err := template.New(name).Funcs(Funcs()).ParseFS(templateFS, patterns...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

// MustLoad is Load for program start-up and tests.
func MustLoad() *Templates {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes page into w with the given status. The page is rendered
// to a buffer first so a template error never leaves a half-written body.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, page *Page) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, name, page); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Execute renders page into w without touching headers.
func (t *Templates) Execute(w io.Writer, name string, page *Page) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	if page == nil {
		page = &Page{}
	}
	if err := tmpl.ExecuteTemplate(w, "layout", page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate":  FormatDate,
		"statusColor": StatusColor,
		"initial":     Initial,
		"imageSrc":    ImageSrc,
		"markdown":    Markdown,
		"filterLabel": func(m models.FilterMode) string { return m.Label() },
	}
}

// FormatDate renders an API timestamp as "Jan 2, 2006, 3:04 PM", or the raw
// value when it cannot be parsed.
func FormatDate(ts models.Timestamp) string {
	return ts.Format()
}

// StatusColor returns the badge colour for a status name.
func StatusColor(status models.PostStatus) string {
	return status.Color()
}

// Initial is the avatar fallback letter for a username.
func Initial(username string) string {
	return (&models.User{Username: username}).Initial()
}

// ImageSrc turns raw image bytes into a data URI. The MIME type is sniffed
// from the bytes; anything that is not an image is dropped.
func ImageSrc(data []byte) template.URL {
	if len(data) == 0 {
		return ""
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return ""
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

const markdownExtensions = blackfriday.CommonExtensions | blackfriday.HardLineBreak

// Markdown renders user text. Raw HTML in the input is skipped and only
// safe link schemes are kept.
func Markdown(s string) template.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.SkipHTML | blackfriday.Safelink | blackfriday.NofollowLinks | blackfriday.NoreferrerLinks | blackfriday.HrefTargetBlank,
	})
	out := blackfriday.Run([]byte(s), blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(markdownExtensions))
	return template.HTML(out)
}
