package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"dataroom-api/internal/domain/drive"
	"dataroom-api/internal/domain/file"
	"dataroom-api/internal/domain/session"
	"dataroom-api/internal/domain/user"
	"dataroom-api/internal/infrastructure/crypto"
	"dataroom-api/internal/infrastructure/google"
	"dataroom-api/internal/infrastructure/mq"
	"dataroom-api/internal/infrastructure/storage"
)

// memStore implements the user, file and session repositories over maps,
// including the ON DELETE CASCADE behaviour of the schema.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[user.ID]*user.User
	creds    map[user.ID]*user.Credential
	files    map[file.ID]*file.File
	sessions map[session.ID]*session.Session
	tokens   map[string]*session.AuthToken
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[user.ID]*user.User{},
		creds:    map[user.ID]*user.Credential{},
		files:    map[file.ID]*file.File{},
		sessions: map[session.ID]*session.Session{},
		tokens:   map[string]*session.AuthToken{},
	}
}

func (m *memStore) id() int64 { m.nextID++; return m.nextID }

func (m *memStore) FetchUserByID(_ context.Context, id user.ID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) UpsertGoogleUser(_ context.Context, req user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.GoogleID == req.GoogleID {
			u.Email, u.Name, u.Picture = req.Email, req.Name, req.Picture
			cp := *u
			return &cp, nil
		}
	}
	req.ID = user.ID(m.id())
	req.CreatedAt = time.Now()
	m.users[req.ID] = &req
	cp := req
	return &cp, nil
}

func (m *memStore) DeleteUser(_ context.Context, id user.ID) (*user.User, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil, nil
	}
	delete(m.users, id)
	delete(m.creds, id)
	var keys []string
	for fid, f := range m.files {
		if f.UserID == id {
			keys = append(keys, f.StorageKey)
			delete(m.files, fid)
		}
	}
	for sid, s := range m.sessions {
		if s.UserID == id {
			delete(m.sessions, sid)
		}
	}
	for k, t := range m.tokens {
		if t.UserID == id {
			delete(m.tokens, k)
		}
	}
	return u, keys, nil
}

func (m *memStore) FetchCredential(_ context.Context, id user.ID) (*user.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.creds[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) SaveCredential(_ context.Context, req user.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.creds[req.UserID]; ok && req.RefreshToken == "" {
		req.RefreshToken = old.RefreshToken
	}
	m.creds[req.UserID] = &req
	return nil
}

func (m *memStore) FetchUserFiles(_ context.Context, userID user.ID) (file.Files, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := file.Files{}
	for _, f := range m.files {
		if f.UserID == userID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) FetchUserFile(_ context.Context, userID user.ID, id file.ID) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[id]; ok && f.UserID == userID {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FetchByDriveID(_ context.Context, userID user.ID, driveID string) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.UserID == userID && f.GoogleDriveID == driveID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) insertLocked(req file.File) (*file.File, error) {
	for _, f := range m.files {
		if f.UserID == req.UserID && f.GoogleDriveID == req.GoogleDriveID {
			return nil, file.ErrAlreadyImported
		}
	}
	req.ID = file.ID(m.id())
	req.CreatedAt = time.Now()
	m.files[req.ID] = &req
	cp := req
	return &cp, nil
}

func (m *memStore) CreateFile(_ context.Context, req file.File) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(req)
}

func (m *memStore) ReplaceFile(_ context.Context, oldID file.ID, req file.File) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.files[oldID]
	delete(m.files, oldID)
	f, err := m.insertLocked(req)
	if err != nil && old != nil {
		m.files[oldID] = old
	}
	return f, err
}

func (m *memStore) DeleteUserFile(_ context.Context, userID user.ID, id file.ID) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok || f.UserID != userID {
		return nil, nil
	}
	delete(m.files, id)
	return f, nil
}

func (m *memStore) CreateSession(_ context.Context, userID user.ID, expiresAt time.Time) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &session.Session{ID: uuid.New(), UserID: userID, CreatedAt: time.Now(), ExpiresAt: expiresAt}
	m.sessions[s.ID] = s
	cp := *s
	return &cp, nil
}

func (m *memStore) FetchSession(_ context.Context, id session.ID) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok && s.ExpiresAt.After(time.Now()) {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) DeleteSession(_ context.Context, id session.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memStore) DeleteUserSessions(_ context.Context, userID user.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memStore) PurgeExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(time.Now()) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateAuthToken(_ context.Context, t session.AuthToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[t.Token] = &t
	return nil
}

func (m *memStore) ConsumeAuthToken(_ context.Context, token string) (*session.AuthToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, nil
	}
	delete(m.tokens, token)
	return t, nil
}

type fakeOAuth struct {
	refreshes int
	refreshFn func(rt string) (*oauth2.Token, error)
	exchange  func(code string) (*oauth2.Token, error)
	profile   *google.Profile
}

func (f *fakeOAuth) AuthURL(state string) string { return "https://accounts.example/auth?state=" + state }

func (f *fakeOAuth) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	return f.exchange(code)
}

func (f *fakeOAuth) Refresh(_ context.Context, rt string) (*oauth2.Token, error) {
	f.refreshes++
	if f.refreshFn != nil {
		return f.refreshFn(rt)
	}
	return &oauth2.Token{AccessToken: "fresh-access", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}, nil
}

func (f *fakeOAuth) UserInfo(context.Context, *oauth2.Token) (*google.Profile, error) {
	return f.profile, nil
}

// fakeDrive serves a fixed set of items; calls are recorded per method.
type fakeDrive struct {
	mu       sync.Mutex
	items    map[string]*drive.Item
	content  map[string]string
	pages    map[string]*drive.Page
	calls    []string
	tokens   []string
	reject   map[string]bool
	failWith error
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		items:   map[string]*drive.Item{},
		content: map[string]string{},
		pages:   map[string]*drive.Page{},
		reject:  map[string]bool{},
	}
}

func (f *fakeDrive) record(op, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	f.tokens = append(f.tokens, token)
	if f.reject[token] {
		return drive.ErrUnauthorized
	}
	return f.failWith
}

func (f *fakeDrive) List(_ context.Context, token, folderID, _ string) (*drive.Page, error) {
	if err := f.record("list", token); err != nil {
		return nil, err
	}
	p, ok := f.pages[folderID]
	if !ok {
		return &drive.Page{}, nil
	}
	cp := *p
	cp.Items = append(drive.Items(nil), p.Items...)
	return &cp, nil
}

func (f *fakeDrive) Probe(_ context.Context, token string) error { return f.record("probe", token) }

func (f *fakeDrive) Get(_ context.Context, token, id string) (*drive.Item, error) {
	if err := f.record("get", token); err != nil {
		return nil, err
	}
	it, ok := f.items[id]
	if !ok {
		return nil, drive.ErrNotFound
	}
	return it, nil
}

func (f *fakeDrive) Download(_ context.Context, token, id string) (io.ReadCloser, error) {
	if err := f.record("download", token); err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(f.content[id])), nil
}

func (f *fakeDrive) Export(_ context.Context, token, id, mimeType string) (io.ReadCloser, error) {
	if err := f.record("export:"+mimeType, token); err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(f.content[id])), nil
}

func (f *fakeDrive) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

type fakeEvents struct {
	mu     sync.Mutex
	events []mq.Event
}

func (f *fakeEvents) Publish(e mq.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeEvents) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Action)
	}
	return out
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counters"}, []string{"result"})
}

type harness struct {
	store  *memStore
	oauth  *fakeOAuth
	drive  *fakeDrive
	events *fakeEvents
	blobs  *storage.Local
	enc    crypto.Encryptor
	creds  *Credentials
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	enc, err := crypto.NewSecretBox("test-secret")
	require.NoError(t, err)
	blobs, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	h := &harness{
		store:  newMemStore(),
		oauth:  &fakeOAuth{},
		drive:  newFakeDrive(),
		events: &fakeEvents{},
		blobs:  blobs,
		enc:    enc,
	}
	h.creds = NewCredentials(h.store, enc, h.oauth, zap.NewNop(), newCounter())
	return h
}

// addUser creates a user holding a valid access token "access-<id>".
func (h *harness) addUser(t *testing.T, googleID string, expiresIn time.Duration) *user.User {
	t.Helper()
	ctx := context.Background()
	u, err := h.store.UpsertGoogleUser(ctx, user.User{GoogleID: googleID, Email: googleID + "@example.com", Name: googleID})
	require.NoError(t, err)
	tok := &oauth2.Token{AccessToken: "access-" + googleID, RefreshToken: "refresh-" + googleID, TokenType: "Bearer"}
	if expiresIn != 0 {
		tok.Expiry = time.Now().Add(expiresIn)
	}
	require.NoError(t, h.creds.Save(ctx, u.ID, tok))
	return u
}
