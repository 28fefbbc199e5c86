package store

import (
	"time"

	"ahmo/internal/attachment"
)

// Privacy values for a board.
const (
	PrivacyPublic   = "public"
	PrivacyPassword = "password"
	PrivacyPrivate  = "private"
)

// Guest permission values.
const (
	GuestEdit = "edit"
	GuestView = "view"
)

// Moderation status values for posts and comments. Decided once at creation
// and never re-evaluated when the board setting changes.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Layout values for a board.
const (
	LayoutShelf  = "shelf"
	LayoutWall   = "wall"
	LayoutStream = "stream"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	PhotoURL     string
	CreatedAt    time.Time
}

type Board struct {
	ID                string
	Title             string
	Description       string
	Privacy           string
	PasswordHash      string
	GuestPermission   string
	ModerationEnabled bool
	Layout            string
	DefaultSort       string
	BackgroundImage   string
	OwnerID           string
	CreatedAt         time.Time
}

// Section rank is dense 0..n-1 within its board and is the single source of
// truth for manual order.
type Section struct {
	ID        string
	BoardID   string
	Title     string
	Color     string
	Rank      int
	CreatedAt time.Time
}

type Post struct {
	ID          string
	SectionID   string
	Title       string
	Content     string
	Color       string
	Rank        int
	Status      string
	Likes       int
	AuthorToken string
	AuthorName  string
	AuthorPhoto string
	Attachments []attachment.Attachment
	Poll        *Poll
	CreatedAt   time.Time
}

type Comment struct {
	ID          string
	PostID      string
	AuthorToken string
	AuthorName  string
	Content     string
	Status      string
	CreatedAt   time.Time
}

type PollOption struct {
	ID     string   `json:"id"`
	Text   string   `json:"text"`
	Voters []string `json:"voters"`
}

// Poll is stored as a JSON document on its post. TotalVotes is derived from
// the voter sets and never stored.
type Poll struct {
	Question string       `json:"question"`
	Options  []PollOption `json:"options"`
}

// TotalVotes recomputes the vote count from the option voter sets.
func (p *Poll) TotalVotes() int {
	if p == nil {
		return 0
	}
	total := 0
	for _, opt := range p.Options {
		total += len(opt.Voters)
	}
	return total
}

// HasVoted reports the option the token currently backs, if any.
func (p *Poll) HasVoted(token string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, opt := range p.Options {
		for _, voter := range opt.Voters {
			if voter == token {
				return opt.ID, true
			}
		}
	}
	return "", false
}

// Toggle applies single-choice-with-retraction voting: voting the option the
// token already backs retracts the vote; voting another option moves it.
// Returns false when the option id is unknown.
func (p *Poll) Toggle(optionID, token string) bool {
	if p == nil {
		return false
	}
	found := false
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	current, voted := p.HasVoted(token)
	for i := range p.Options {
		p.Options[i].Voters = removeVoter(p.Options[i].Voters, token)
	}
	if voted && current == optionID {
		return true // retraction
	}
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			p.Options[i].Voters = append(p.Options[i].Voters, token)
		}
	}
	return true
}

func removeVoter(voters []string, token string) []string {
	out := voters[:0]
	for _, v := range voters {
		if v != token {
			out = append(out, v)
		}
	}
	return out
}
