package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tynda/core/authz"
	"tynda/core/query"
	"tynda/logger"
	"tynda/model"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	maxTitleLen  = 200
	maxArtistLen = 100
)

// trackPayload is the request body for create and update. Pointer and raw
// fields distinguish "absent" from "present but empty", which drives the
// partial-update semantics.
type trackPayload struct {
	Title           *string         `json:"title"`
	Artist          *string         `json:"artist"`
	Album           *string         `json:"album"`
	Genre           *string         `json:"genre"`
	DurationSeconds json.RawMessage `json:"durationSeconds"`
	ReleaseYear     json.RawMessage `json:"releaseYear"`
	CoverURL        *string         `json:"coverUrl"`
}

// intOrDefault coerces a raw JSON value into a non-negative integer.
// Accepted inputs and their results:
//
//	absent / null       -> def
//	number              -> truncated toward zero, floored at 0
//	numeric string      -> parsed the same way
//	anything else       -> def
//
// durationSeconds defaults to 0, releaseYear to the current year. This is the
// one place where the API deliberately coerces instead of rejecting.
func intOrDefault(raw json.RawMessage, def int) int {
	if len(raw) == 0 || string(raw) == "null" {
		return def
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		n := int(f)
		if n < 0 {
			return 0
		}
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			n := int(f)
			if n < 0 {
				return 0
			}
			return n
		}
	}

	return def
}

// ListTracksHandler returns a filtered, sorted, paginated page of the public
// track catalog. Bad query parameters degrade to defaults, they never fail.
func (h *APIHandler) ListTracksHandler(w http.ResponseWriter, r *http.Request) {
	d := query.Build(r.URL.Query())

	tracks, total, err := h.trackRepo.SearchTracks(d)
	if err != nil {
		respondServerError(w, "Failed to search tracks", err)
		return
	}

	var items any = tracks
	if len(d.Fields) > 0 {
		projected := make([]map[string]any, 0, len(tracks))
		for _, t := range tracks {
			projected = append(projected, projectTrack(t, d.Fields))
		}
		items = projected
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"pagination": d.Paginate(total),
	})
}

// projectTrack renders only the requested fields of a track. Unknown field
// names are ignored; the query builder has already force-included id and
// createdBy.
func projectTrack(t *model.Track, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		switch f {
		case "id":
			out["id"] = t.ID
		case "title":
			out["title"] = t.Title
		case "artist":
			out["artist"] = t.Artist
		case "album":
			out["album"] = t.Album
		case "genre":
			out["genre"] = t.Genre
		case "durationSeconds":
			out["durationSeconds"] = t.DurationSeconds
		case "releaseYear":
			out["releaseYear"] = t.ReleaseYear
		case "coverUrl":
			out["coverUrl"] = t.CoverURL
		case "createdBy":
			out["createdBy"] = t.CreatedBy
		case "createdAt":
			out["createdAt"] = t.CreatedAt
		case "updatedAt":
			out["updatedAt"] = t.UpdatedAt
		}
	}
	return out
}

// GetTrackHandler returns a single track. Public, no guard.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if uuid.Validate(id) != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	track, err := h.trackRepo.GetTrackByID(id)
	if err != nil {
		respondServerError(w, "Failed to get track", err)
		return
	}
	if track == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondJSON(w, http.StatusOK, track)
}

// CreateTrackHandler creates a track owned by the acting account.
func (h *APIHandler) CreateTrackHandler(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if err := authz.Authorize(sess, authz.ActionCreate, ""); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized. Please login first.")
		return
	}

	var payload trackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := trimmed(payload.Title)
	artist := trimmed(payload.Artist)
	if title == "" || artist == "" {
		respondError(w, http.StatusBadRequest, "Title and artist are required")
		return
	}
	if len(title) > maxTitleLen {
		respondError(w, http.StatusBadRequest, "Title must be at most 200 characters")
		return
	}
	if len(artist) > maxArtistLen {
		respondError(w, http.StatusBadRequest, "Artist must be at most 100 characters")
		return
	}

	genre := trimmed(payload.Genre)
	if genre == "" {
		genre = model.DefaultGenre
	}

	track := &model.Track{
		Title:           title,
		Artist:          artist,
		Album:           trimmed(payload.Album),
		Genre:           genre,
		DurationSeconds: intOrDefault(payload.DurationSeconds, 0),
		ReleaseYear:     intOrDefault(payload.ReleaseYear, time.Now().Year()),
		CoverURL:        trimmed(payload.CoverURL),
		CreatedBy:       sess.UserID,
	}

	if err := h.trackRepo.CreateTrack(track); err != nil {
		respondServerError(w, "Failed to create track", err)
		return
	}

	logger.Info("Track created",
		logger.String("trackId", track.ID),
		logger.String("createdBy", track.CreatedBy))
	respondJSON(w, http.StatusCreated, track)
}

// UpdateTrackHandler applies a partial update to a track. Only the owner or
// an admin may update; omitted fields are untouched.
func (h *APIHandler) UpdateTrackHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if uuid.Validate(id) != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	existing, err := h.trackRepo.GetTrackByID(id)
	if err != nil {
		respondServerError(w, "Failed to get track", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	sess := SessionFromContext(r.Context())
	if !h.authorizeMutation(w, sess, authz.ActionUpdate, existing.CreatedBy) {
		return
	}

	var payload trackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := &model.TrackUpdate{}
	if payload.Title != nil {
		title := strings.TrimSpace(*payload.Title)
		if title == "" {
			respondError(w, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		if len(title) > maxTitleLen {
			respondError(w, http.StatusBadRequest, "Title must be at most 200 characters")
			return
		}
		upd.Title = &title
	}
	if payload.Artist != nil {
		artist := strings.TrimSpace(*payload.Artist)
		if artist == "" {
			respondError(w, http.StatusBadRequest, "Artist cannot be empty")
			return
		}
		if len(artist) > maxArtistLen {
			respondError(w, http.StatusBadRequest, "Artist must be at most 100 characters")
			return
		}
		upd.Artist = &artist
	}
	if payload.Album != nil {
		album := strings.TrimSpace(*payload.Album)
		upd.Album = &album
	}
	if payload.Genre != nil {
		genre := strings.TrimSpace(*payload.Genre)
		if genre == "" {
			genre = model.DefaultGenre
		}
		upd.Genre = &genre
	}
	if len(payload.DurationSeconds) > 0 {
		duration := intOrDefault(payload.DurationSeconds, 0)
		upd.DurationSeconds = &duration
	}
	if len(payload.ReleaseYear) > 0 {
		year := intOrDefault(payload.ReleaseYear, time.Now().Year())
		upd.ReleaseYear = &year
	}
	if payload.CoverURL != nil {
		coverURL := strings.TrimSpace(*payload.CoverURL)
		upd.CoverURL = &coverURL
	}

	if err := h.trackRepo.UpdateTrack(id, upd); err != nil {
		respondServerError(w, "Failed to update track", err)
		return
	}

	logger.Info("Track updated", logger.String("trackId", id))
	respondJSON(w, http.StatusOK, map[string]string{"message": "Track updated successfully"})
}

// DeleteTrackHandler removes a track. Only the owner or an admin may delete.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if uuid.Validate(id) != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	existing, err := h.trackRepo.GetTrackByID(id)
	if err != nil {
		respondServerError(w, "Failed to get track", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	sess := SessionFromContext(r.Context())
	if !h.authorizeMutation(w, sess, authz.ActionDelete, existing.CreatedBy) {
		return
	}

	deleted, err := h.trackRepo.DeleteTrack(id)
	if err != nil {
		respondServerError(w, "Failed to delete track", err)
		return
	}
	if !deleted {
		// The track vanished between the ownership fetch and the delete.
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	logger.Info("Track deleted", logger.String("trackId", id))
	respondJSON(w, http.StatusOK, map[string]string{"message": "Track deleted successfully"})
}

// authorizeMutation runs the guard for update/delete and writes the matching
// error response on denial. Returns true when the operation may proceed.
func (h *APIHandler) authorizeMutation(w http.ResponseWriter, sess *model.Session, action authz.Action, ownerID string) bool {
	switch err := authz.Authorize(sess, action, ownerID); err {
	case nil:
		return true
	case authz.ErrUnauthorized:
		respondError(w, http.StatusUnauthorized, "Unauthorized. Please login first.")
	case authz.ErrForbidden:
		respondError(w, http.StatusForbidden, "Forbidden. You can only modify your own data.")
	default:
		respondServerError(w, "Authorization failed", err)
	}
	return false
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
