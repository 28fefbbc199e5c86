// Package attachment models post attachments as a tagged union. Behavior
// dispatches on Type, never on probing which fields happen to be set.
package attachment

import (
	"errors"
	"net/url"
	"strings"
)

type Type string

const (
	TypeImage   Type = "image"
	TypeVideo   Type = "video"
	TypePDF     Type = "pdf"
	TypeLink    Type = "link"
	TypeYouTube Type = "youtube"
	TypeAudio   Type = "audio"
)

var ErrInvalidEmbedURL = errors.New("invalid embed url")

type Attachment struct {
	Type         Type   `json:"type"`
	URL          string `json:"url"`
	PublicID     string `json:"publicId,omitempty"`
	Name         string `json:"name,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	// ShareURL is the embeddable URL; only set for youtube attachments
	ShareURL string `json:"shareUrl,omitempty"`
}

func valid(t Type) bool {
	switch t {
	case TypeImage, TypeVideo, TypePDF, TypeLink, TypeYouTube, TypeAudio:
		return true
	}
	return false
}

// FromUpload builds an attachment from a media upload descriptor. The kind
// comes from the upload's content type, decided by the caller.
func FromUpload(kind Type, rawURL, publicID, name, thumbnailURL string) (Attachment, error) {
	if !valid(kind) || kind == TypeLink || kind == TypeYouTube {
		return Attachment{}, errors.New("attachment: not an uploadable kind: " + string(kind))
	}
	if strings.TrimSpace(rawURL) == "" {
		return Attachment{}, errors.New("attachment: empty url")
	}
	a := Attachment{Type: kind, URL: rawURL, PublicID: publicID, Name: name}
	if kind == TypeImage || kind == TypeVideo {
		a.ThumbnailURL = thumbnailURL
	}
	return a, nil
}

// ParseEmbed turns a user-supplied URL into a youtube or link attachment.
// Malformed input is rejected whole; no partial attachment is returned.
func ParseEmbed(raw string) (Attachment, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Attachment{}, ErrInvalidEmbedURL
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Attachment{}, ErrInvalidEmbedURL
	}

	if id, ok := youtubeVideoID(parsed); ok {
		return Attachment{
			Type:         TypeYouTube,
			URL:          raw,
			ThumbnailURL: "https://img.youtube.com/vi/" + id + "/hqdefault.jpg",
			ShareURL:     "https://www.youtube.com/embed/" + id,
		}, nil
	}

	return Attachment{Type: TypeLink, URL: raw, Name: parsed.Host}, nil
}

// youtubeVideoID recognizes watch, share and embed URL shapes.
func youtubeVideoID(u *url.URL) (string, bool) {
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if u.Path == "/watch" {
			id := u.Query().Get("v")
			return id, id != ""
		}
		if rest, ok := strings.CutPrefix(u.Path, "/embed/"); ok && rest != "" && !strings.Contains(rest, "/") {
			return rest, true
		}
		if rest, ok := strings.CutPrefix(u.Path, "/shorts/"); ok && rest != "" && !strings.Contains(rest, "/") {
			return rest, true
		}
	case "youtu.be":
		id := strings.TrimPrefix(u.Path, "/")
		return id, id != "" && !strings.Contains(id, "/")
	}
	return "", false
}
