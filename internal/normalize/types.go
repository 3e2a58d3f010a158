package normalize

import "time"

// MediaType is the canonical media classification. Post payloads collapse to
// movie/show, viewing payloads to movie/tv; anything unrecognized is unknown.
type MediaType string

const (
	MediaMovie   MediaType = "movie"
	MediaShow    MediaType = "show"
	MediaTV      MediaType = "tv"
	MediaUnknown MediaType = ""
)

type Post struct {
	ID           string    `json:"id"`
	AuthorName   string    `json:"author_name"`
	CircleNames  []string  `json:"circle_names"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title"`
	Year         int       `json:"year,omitempty"`
	MediaType    MediaType `json:"media_type"`
	Rating       int       `json:"rating"`
	Body         string    `json:"body"`
	Services     []string  `json:"services"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	ImageURL     string    `json:"image_url,omitempty"`
}

type Viewing struct {
	ID         string    `json:"id"`
	MediaType  MediaType `json:"media_type"`
	ExternalID string    `json:"external_id,omitempty"`
	Title      string    `json:"title"`
	WatchedAt  time.Time `json:"watched_at"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	PosterURL  string    `json:"poster_url,omitempty"`
}

type Circle struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	InviteCode  string   `json:"invite_code,omitempty"`
	Members     []Member `json:"members"`
}

type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Service struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProviderID      string `json:"provider_id,omitempty"`
	DisplayPriority int    `json:"display_priority"`
	LogoPath        string `json:"logo_path,omitempty"`
}

type Profile struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
