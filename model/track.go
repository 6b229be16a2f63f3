package model

import "time"

// DefaultGenre is applied when a track is created without a genre.
const DefaultGenre = "Other"

// Track represents a track in the music catalog.
type Track struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Artist          string    `json:"artist"`
	Album           string    `json:"album"`
	Genre           string    `json:"genre"`
	DurationSeconds int       `json:"durationSeconds"`
	ReleaseYear     int       `json:"releaseYear"`
	CoverURL        string    `json:"coverUrl"`
	CreatedBy       string    `json:"createdBy"` // Owning account id, set once at creation
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TrackUpdate carries a partial update. Nil fields are left untouched.
type TrackUpdate struct {
	Title           *string
	Artist          *string
	Album           *string
	Genre           *string
	DurationSeconds *int
	ReleaseYear     *int
	CoverURL        *string
}
