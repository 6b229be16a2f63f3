package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tynda/core/query"
	"tynda/model"

	"github.com/google/uuid"
)

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	SearchTracks(d query.Descriptor) ([]*model.Track, int64, error)
	GetTrackByID(id string) (*model.Track, error)
	CreateTrack(track *model.Track) error
	UpdateTrack(id string, upd *model.TrackUpdate) error
	DeleteTrack(id string) (bool, error)
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	db *sql.DB
}

// NewMySQLTrackRepository creates a new mysqlTrackRepository.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{db: db}
}

const trackColumns = "id, title, artist, album, genre, duration_seconds, release_year, cover_url, created_by, created_at, updated_at"

func scanTrack(row interface{ Scan(...any) error }) (*model.Track, error) {
	track := &model.Track{}
	err := row.Scan(&track.ID, &track.Title, &track.Artist, &track.Album, &track.Genre,
		&track.DurationSeconds, &track.ReleaseYear, &track.CoverURL, &track.CreatedBy,
		&track.CreatedAt, &track.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return track, nil
}

// buildWhere translates the descriptor filters into a WHERE clause and args.
func buildWhere(d query.Descriptor) (string, []any) {
	var clauses []string
	var args []any

	if d.TitleContains != "" {
		clauses = append(clauses, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(d.TitleContains)+"%")
	}
	if d.ArtistContains != "" {
		clauses = append(clauses, "LOWER(artist) LIKE ?")
		args = append(args, "%"+strings.ToLower(d.ArtistContains)+"%")
	}
	if d.GenreEquals != "" {
		clauses = append(clauses, "genre = ?")
		args = append(args, d.GenreEquals)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// orderBy maps the descriptor sort key onto a deterministic ORDER BY clause.
// Natural order is primary-key order so repeated queries over an unchanged
// dataset return identical results.
func orderBy(d query.Descriptor) string {
	switch d.SortKey {
	case query.SortTitle:
		return " ORDER BY title ASC"
	case query.SortArtist:
		return " ORDER BY artist ASC"
	case query.SortCreated:
		return " ORDER BY created_at DESC"
	default:
		return " ORDER BY id ASC"
	}
}

// SearchTracks returns the page of tracks matching the descriptor plus the
// total count of the filtered set.
func (r *mysqlTrackRepository) SearchTracks(d query.Descriptor) ([]*model.Track, int64, error) {
	where, args := buildWhere(d)

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM tracks"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tracks: %w", err)
	}

	q := "SELECT " + trackColumns + " FROM tracks" + where + orderBy(d) + " LIMIT ? OFFSET ?"
	rows, err := r.db.Query(q, append(args, d.Limit, d.Skip())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan track in SearchTracks: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error during rows iteration in SearchTracks: %w", err)
	}

	return tracks, total, nil
}

// GetTrackByID retrieves a track by its ID. Returns nil if not found.
func (r *mysqlTrackRepository) GetTrackByID(id string) (*model.Track, error) {
	row := r.db.QueryRow("SELECT "+trackColumns+" FROM tracks WHERE id = ?", id)
	track, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Track not found
		}
		return nil, fmt.Errorf("failed to scan track by ID %s: %w", id, err)
	}
	return track, nil
}

// CreateTrack inserts a new track, assigning its id and timestamps.
func (r *mysqlTrackRepository) CreateTrack(track *model.Track) error {
	if track.ID == "" {
		track.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Second)
	track.CreatedAt = now
	track.UpdatedAt = now

	query := `INSERT INTO tracks (id, title, artist, album, genre, duration_seconds, release_year, cover_url, created_by, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query, track.ID, track.Title, track.Artist, track.Album, track.Genre,
		track.DurationSeconds, track.ReleaseYear, track.CoverURL, track.CreatedBy,
		track.CreatedAt, track.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute CreateTrack: %w", err)
	}
	return nil
}

// UpdateTrack applies a partial update to a track. Fields left nil in upd are
// untouched; created_by is never part of the SET list.
func (r *mysqlTrackRepository) UpdateTrack(id string, upd *model.TrackUpdate) error {
	var sets []string
	var args []any

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Artist != nil {
		add("artist", *upd.Artist)
	}
	if upd.Album != nil {
		add("album", *upd.Album)
	}
	if upd.Genre != nil {
		add("genre", *upd.Genre)
	}
	if upd.DurationSeconds != nil {
		add("duration_seconds", *upd.DurationSeconds)
	}
	if upd.ReleaseYear != nil {
		add("release_year", *upd.ReleaseYear)
	}
	if upd.CoverURL != nil {
		add("cover_url", *upd.CoverURL)
	}

	add("updated_at", time.Now().UTC().Truncate(time.Second))

	q := "UPDATE tracks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	if _, err := r.db.Exec(q, args...); err != nil {
		return fmt.Errorf("failed to execute UpdateTrack for ID %s: %w", id, err)
	}
	return nil
}

// DeleteTrack removes a track. The bool reports whether a row was deleted.
func (r *mysqlTrackRepository) DeleteTrack(id string) (bool, error) {
	res, err := r.db.Exec("DELETE FROM tracks WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to execute DeleteTrack for ID %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows for DeleteTrack: %w", err)
	}
	return affected > 0, nil
}
