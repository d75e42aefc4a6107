package asset

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/brandkit/brandkit/backend-go/internal/typeid"
)

var ErrUnknownRef = errors.New("unknown asset reference")

// RefPrefix marks transient, session-local source references.
const RefPrefix = "blob:"

type entry struct {
	data        []byte
	contentType string
	created     time.Time
}

// Registry holds uploaded image bytes under transient references until they
// are released. Release is idempotent.
type Registry struct {
	mu       sync.RWMutex
	refs     map[string]entry
	released int
}

func NewRegistry() *Registry {
	return &Registry{refs: make(map[string]entry)}
}

// Create stores data and returns a new reference to it.
func (r *Registry) Create(data []byte, contentType string) string {
	ref := RefPrefix + typeid.NewUploadID()

	r.mu.Lock()
	r.refs[ref] = entry{data: data, contentType: contentType, created: time.Now()}
	r.mu.Unlock()

	slog.Debug("asset ref created", "ref", ref, "bytes", len(data), "contentType", contentType)
	return ref
}

// Open returns the bytes behind a live reference.
func (r *Registry) Open(ref string) ([]byte, string, error) {
	r.mu.RLock()
	e, ok := r.refs[ref]
	r.mu.RUnlock()
	if !ok {
		return nil, "", ErrUnknownRef
	}
	return e.data, e.contentType, nil
}

// Release drops a reference. Releasing an unknown or already released
// reference does nothing.
func (r *Registry) Release(ref string) {
	r.mu.Lock()
	e, ok := r.refs[ref]
	if ok {
		delete(r.refs, ref)
		r.released++
	}
	r.mu.Unlock()

	if ok {
		slog.Debug("asset ref released", "ref", ref, "age", time.Since(e.created))
	}
}

// Live returns the number of unreleased references.
func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.refs)
}

// Released returns how many references have been released so far.
func (r *Registry) Released() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.released
}
