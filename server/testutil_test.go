package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"tynda/cache"
	"tynda/config"
	"tynda/core/query"
	"tynda/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

// fakeTrackRepo is an in-memory TrackRepository preserving insertion order as
// the natural order.
type fakeTrackRepo struct {
	tracks   map[string]*model.Track
	order    []string
	getCalls int
}

func newFakeTrackRepo() *fakeTrackRepo {
	return &fakeTrackRepo{tracks: map[string]*model.Track{}}
}

func (r *fakeTrackRepo) add(t *model.Track) *model.Track {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	r.tracks[t.ID] = t
	r.order = append(r.order, t.ID)
	return t
}

func (r *fakeTrackRepo) SearchTracks(d query.Descriptor) ([]*model.Track, int64, error) {
	matched := make([]*model.Track, 0)
	for _, id := range r.order {
		t := r.tracks[id]
		if d.TitleContains != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(d.TitleContains)) {
			continue
		}
		if d.ArtistContains != "" && !strings.Contains(strings.ToLower(t.Artist), strings.ToLower(d.ArtistContains)) {
			continue
		}
		if d.GenreEquals != "" && t.Genre != d.GenreEquals {
			continue
		}
		matched = append(matched, t)
	}

	switch d.SortKey {
	case query.SortTitle:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	case query.SortArtist:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Artist < matched[j].Artist })
	case query.SortCreated:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}

	total := int64(len(matched))
	start := d.Skip()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + d.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeTrackRepo) GetTrackByID(id string) (*model.Track, error) {
	r.getCalls++
	return r.tracks[id], nil
}

func (r *fakeTrackRepo) CreateTrack(track *model.Track) error {
	track.ID = uuid.NewString()
	now := time.Now().UTC()
	track.CreatedAt = now
	track.UpdatedAt = now
	r.add(track)
	return nil
}

func (r *fakeTrackRepo) UpdateTrack(id string, upd *model.TrackUpdate) error {
	t := r.tracks[id]
	if t == nil {
		return nil
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Artist != nil {
		t.Artist = *upd.Artist
	}
	if upd.Album != nil {
		t.Album = *upd.Album
	}
	if upd.Genre != nil {
		t.Genre = *upd.Genre
	}
	if upd.DurationSeconds != nil {
		t.DurationSeconds = *upd.DurationSeconds
	}
	if upd.ReleaseYear != nil {
		t.ReleaseYear = *upd.ReleaseYear
	}
	if upd.CoverURL != nil {
		t.CoverURL = *upd.CoverURL
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeTrackRepo) DeleteTrack(id string) (bool, error) {
	if _, ok := r.tracks[id]; !ok {
		return false, nil
	}
	delete(r.tracks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) add(u *model.User) *model.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) CreateUser(user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id string) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByUsernameOrEmail(username, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// fakeContactRepo is an in-memory ContactRepository.
type fakeContactRepo struct {
	contacts []*model.Contact
}

func (r *fakeContactRepo) CreateContact(contact *model.Contact) error {
	contact.ID = uuid.NewString()
	contact.CreatedAt = time.Now().UTC()
	r.contacts = append(r.contacts, contact)
	return nil
}

// testEnv bundles everything a handler test needs.
type testEnv struct {
	router   *mux.Router
	handler  *APIHandler
	tracks   *fakeTrackRepo
	users    *fakeUserRepo
	contacts *fakeContactRepo
	sessions *cache.SessionStore
	cfg      *config.Config
}

// newTestEnv builds an APIHandler over in-memory repositories and a
// miniredis-backed session store, routed the same way as server.Start.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	cfg := &config.Config{
		SessionCookieName: "tynda_session",
		SessionTTL:        time.Hour,
	}

	env := &testEnv{
		tracks:   newFakeTrackRepo(),
		users:    newFakeUserRepo(),
		contacts: &fakeContactRepo{},
		sessions: cache.NewSessionStore(rdb, cfg.SessionTTL),
		cfg:      cfg,
	}
	env.handler = NewAPIHandler(env.tracks, env.users, env.contacts, env.sessions, cfg)

	router := mux.NewRouter()
	router.Use(env.handler.SessionMiddleware)
	router.HandleFunc("/api/tracks", env.handler.ListTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks", env.handler.CreateTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}", env.handler.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", env.handler.UpdateTrackHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{id}", env.handler.DeleteTrackHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/auth/register", env.handler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", env.handler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", env.handler.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", env.handler.MeHandler).Methods(http.MethodGet)
	router.HandleFunc("/contact", env.handler.ContactHandler).Methods(http.MethodPost)
	env.router = router

	return env
}

// doForm posts a urlencoded form body.
func doForm(t *testing.T, env *testEnv, path, form string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// sessionCookieFor creates a live session for the user and returns the cookie
// to attach to requests.
func (env *testEnv) sessionCookieFor(t *testing.T, user *model.User) *http.Cookie {
	t.Helper()
	token, err := env.sessions.Create(context.Background(), &model.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return &http.Cookie{Name: env.cfg.SessionCookieName, Value: token}
}
