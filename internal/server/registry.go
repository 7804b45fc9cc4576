package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/gridleaf-labs/cellform/internal/editor"
	"github.com/gridleaf-labs/cellform/pkg/formula"
)

const sessionCookie = "cellform_session"

// sessionIdleTTL bounds how long an untouched editor session stays in the
// registry before it is dropped.
const sessionIdleTTL = time.Hour

// entry pairs one editor session with the lock serializing its requests.
// lastSeen is guarded by the registry mutex, not the entry mutex.
type entry struct {
	mu       sync.Mutex
	sess     *editor.Session
	lastSeen time.Time
}

// registry maps cookie-pinned session IDs to editor sessions, so apply
// gating (no overlapping applies per editor instance) holds across requests
// from the same client.
type registry struct {
	mu      sync.Mutex
	entries map[string]*entry

	catalog formula.Catalog
	columns func() []string
	store   *sessions.CookieStore
}

func newRegistry(catalog formula.Catalog, columns func() []string, store *sessions.CookieStore) *registry {
	return &registry{
		entries: make(map[string]*entry),
		catalog: catalog,
		columns: columns,
		store:   store,
	}
}

// acquire resolves the client's editor session from its cookie, creating
// both on first contact, and returns it locked. The caller must call release.
func (r *registry) acquire(w http.ResponseWriter, req *http.Request) (*entry, error) {
	cookie, _ := r.store.Get(req, sessionCookie)

	id, _ := cookie.Values["id"].(string)
	if id == "" {
		id = uuid.NewString()
		cookie.Values["id"] = id
		if err := cookie.Save(req, w); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	r.mu.Lock()
	r.evictStale(now)
	e, ok := r.entries[id]
	if !ok {
		e = &entry{sess: editor.NewSession(r.catalog, r.columns(), "")}
		r.entries[id] = e
	}
	e.lastSeen = now
	r.mu.Unlock()

	e.mu.Lock()
	e.sess.SetColumns(r.columns())
	return e, nil
}

// evictStale drops sessions idle past the TTL so the registry does not grow
// unbounded with abandoned cookies. Caller holds the registry mutex. Entries
// serving a request or with an apply outstanding are kept.
func (r *registry) evictStale(now time.Time) {
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) < sessionIdleTTL {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		applying := e.sess.Applying()
		e.mu.Unlock()
		if !applying {
			delete(r.entries, id)
		}
	}
}

func (e *entry) release() {
	e.mu.Unlock()
}
