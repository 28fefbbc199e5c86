// Package export renders a board to a printable PDF via headless Chrome.
package export

import (
	"errors"
	"time"
)

// Board is the snapshot handed to the renderer: already access-checked,
// moderation-filtered and projected by the caller.
type Board struct {
	Title           string
	Description     string
	OwnerName       string
	Layout          string
	ExportedAt      time.Time
	Sections        []Section
	IncludeComments bool
}

type Section struct {
	Title string
	Color string
	Posts []Post
}

type Post struct {
	Title      string
	Content    string
	AuthorName string
	Likes      int
	CreatedAt  time.Time
	Comments   []Comment
}

type Comment struct {
	AuthorName string
	Content    string
}

// Result contains the export output.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// ErrPDFDependencyMissing indicates the headless browser is not installed.
var ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
