package search

// Result is a single search hit returned to the caller.
type Result struct {
	ID         string `json:"id"`
	BoardID    string `json:"boardId"`
	SectionID  string `json:"sectionId"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
	AuthorName string `json:"authorName,omitempty"`
}

// Query describes a search request scoped to one board. Only approved
// posts are searchable; pending posts never reach the index.
type Query struct {
	Text    string
	BoardID string
	Limit   int
	Offset  int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a post search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// Indexer can push posts into a search index.
type Indexer interface {
	IndexPost(p PostRecord) error
	DeletePost(id string) error
	DeleteBoard(boardID string) error
}

// PostRecord is the data we index for a post.
type PostRecord struct {
	ID         string `json:"id"`
	BoardID    string `json:"boardId"`
	SectionID  string `json:"sectionId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
	Status     string `json:"status"`
}
