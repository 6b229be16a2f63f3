package db

import (
	"database/sql"
	"fmt"
	"log"

	"tynda/core/auth"
	"tynda/model"

	"github.com/google/uuid"
)

type seedTrack struct {
	title           string
	artist          string
	album           string
	genre           string
	durationSeconds int
	releaseYear     int
}

// 25 sample tracks for a realistic development catalog.
var sampleTracks = []seedTrack{
	{"Blinding Lights", "The Weeknd", "After Hours", "Pop", 200, 2020},
	{"Shape of You", "Ed Sheeran", "÷ (Divide)", "Pop", 234, 2017},
	{"Bohemian Rhapsody", "Queen", "A Night at the Opera", "Rock", 354, 1975},
	{"Hotel California", "Eagles", "Hotel California", "Rock", 391, 1977},
	{"Billie Jean", "Michael Jackson", "Thriller", "Pop", 294, 1982},
	{"Smells Like Teen Spirit", "Nirvana", "Nevermind", "Rock", 301, 1991},
	{"Uptown Funk", "Bruno Mars ft. Mark Ronson", "Uptown Special", "Pop", 270, 2014},
	{"Lose Yourself", "Eminem", "8 Mile OST", "Hip-Hop", 326, 2002},
	{"Take On Me", "a-ha", "Hunting High and Low", "Pop", 225, 1985},
	{"Sweet Child O Mine", "Guns N Roses", "Appetite for Destruction", "Rock", 356, 1987},
	{"Starboy", "The Weeknd ft. Daft Punk", "Starboy", "R&B", 230, 2016},
	{"Rolling in the Deep", "Adele", "21", "Pop", 228, 2010},
	{"Wonderwall", "Oasis", "(What's the Story) Morning Glory?", "Rock", 258, 1995},
	{"Thriller", "Michael Jackson", "Thriller", "Pop", 358, 1982},
	{"Get Lucky", "Daft Punk ft. Pharrell", "Random Access Memories", "Electronic", 369, 2013},
	{"Somebody That I Used to Know", "Gotye ft. Kimbra", "Making Mirrors", "Pop", 244, 2011},
	{"Despacito", "Luis Fonsi ft. Daddy Yankee", "Vida", "Pop", 229, 2017},
	{"Stairway to Heaven", "Led Zeppelin", "Led Zeppelin IV", "Rock", 482, 1971},
	{"Purple Rain", "Prince", "Purple Rain", "R&B", 520, 1984},
	{"Shake It Off", "Taylor Swift", "1989", "Pop", 219, 2014},
	{"Radioactive", "Imagine Dragons", "Night Visions", "Rock", 187, 2012},
	{"Thinking Out Loud", "Ed Sheeran", "x (Multiply)", "Pop", 281, 2014},
	{"Old Town Road", "Lil Nas X", "7", "Hip-Hop", 157, 2019},
	{"Havana", "Camila Cabello", "Camila", "Pop", 217, 2018},
	{"Believer", "Imagine Dragons", "Evolve", "Rock", 204, 2017},
}

type seedUser struct {
	username string
	email    string
	password string
	role     string
}

var sampleUsers = []seedUser{
	{"admin", "admin@tynda.kz", "admin123", model.RoleAdmin},
	{"testuser", "test@tynda.kz", "test123", model.RoleUser},
}

// Seed loads the sample users and tracks. Existing rows with the same unique
// keys are left alone, so running it twice is harmless.
func Seed(conn *sql.DB) error {
	userIDs := make(map[string]string, len(sampleUsers))

	for _, u := range sampleUsers {
		var existingID string
		err := conn.QueryRow("SELECT id FROM users WHERE username = ?", u.username).Scan(&existingID)
		if err == nil {
			userIDs[u.username] = existingID
			log.Printf("User %q already exists, skipping.", u.username)
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check for existing user %q: %w", u.username, err)
		}

		hashed, err := auth.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("failed to hash password for user %q: %w", u.username, err)
		}

		id := uuid.NewString()
		_, err = conn.Exec("INSERT INTO users (id, username, email, password_hash, role) VALUES (?, ?, ?, ?, ?)",
			id, u.username, u.email, hashed, u.role)
		if err != nil {
			return fmt.Errorf("failed to insert user %q: %w", u.username, err)
		}
		userIDs[u.username] = id
		log.Printf("Created %s: %s (%s)", u.role, u.username, u.email)
	}

	var trackCount int64
	if err := conn.QueryRow("SELECT COUNT(*) FROM tracks").Scan(&trackCount); err != nil {
		return fmt.Errorf("failed to count tracks: %w", err)
	}
	if trackCount > 0 {
		log.Printf("Tracks table already has %d rows, skipping track seed.", trackCount)
		return nil
	}

	// First half owned by admin, second half by testuser, so both accounts
	// have data to exercise the ownership rules against.
	half := (len(sampleTracks) + 1) / 2
	for i, t := range sampleTracks {
		owner := userIDs["admin"]
		if i >= half {
			owner = userIDs["testuser"]
		}

		_, err := conn.Exec(`INSERT INTO tracks (id, title, artist, album, genre, duration_seconds, release_year, cover_url, created_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), t.title, t.artist, t.album, t.genre, t.durationSeconds, t.releaseYear, "", owner)
		if err != nil {
			return fmt.Errorf("failed to insert track %q: %w", t.title, err)
		}
	}

	log.Printf("Inserted %d tracks (%d owned by admin, %d by testuser).", len(sampleTracks), half, len(sampleTracks)-half)
	return nil
}
