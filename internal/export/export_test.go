package export

import (
	"strings"
	"testing"
	"time"
)

func TestRenderBoardHTML(t *testing.T) {
	b := Board{
		Title:       "Team Retro",
		Description: "What went well & what didn't",
		OwnerName:   "Mia",
		ExportedAt:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Sections: []Section{
			{
				Title: "Went well",
				Posts: []Post{
					{
						Title:      "Shipping cadence",
						Content:    "Weekly releases stuck",
						AuthorName: "Alex",
						Likes:      3,
						CreatedAt:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
						Comments:   []Comment{{AuthorName: "Sam", Content: "agreed"}},
					},
					{CreatedAt: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
				},
			},
		},
	}

	html, err := RenderBoardHTML(b)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for _, want := range []string{
		"Team Retro",
		"Went well",
		"Shipping cadence",
		"3 likes",
		"<strong>Sam:</strong> agreed",
		"Anonymous",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered html missing %q", want)
		}
	}
	// description is escaped, not raw
	if !strings.Contains(html, "What went well &amp; what didn&#39;t") {
		t.Error("description not escaped")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Team Retro 2026":  "Team-Retro-2026",
		"idée / brouillon": "ide--brouillon",
		"":                 "board",
		"!!!":              "board",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
	long := strings.Repeat("a", 80)
	if got := sanitizeFilename(long); len(got) != 50 {
		t.Errorf("expected 50-char cap, got %d", len(got))
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	if got := percentEncodeForDataURL("a b"); got != "a%20b" {
		t.Errorf("space must encode as %%20, got %q", got)
	}
	if got := percentEncodeForDataURL("<p>"); got != "%3Cp%3E" {
		t.Errorf("unexpected encoding: %q", got)
	}
	if got := percentEncodeForDataURL("ok-._~"); got != "ok-._~" {
		t.Errorf("unreserved chars must pass through, got %q", got)
	}
}
