package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/domain"
)

// RecordStore is the single source of truth for the entity document. It
// caches the decoded document in memory; between a successful Save and the
// next Invalidate, Load returns exactly what was last saved.
//
// Read failures never escape: a missing key, unreadable backend or malformed
// blob degrades to a fresh empty document, logged. Write failures do escape,
// wrapped in apperrors.ErrStorageWrite, because by then the cache has already
// been updated optimistically and the caller must decide what to do.
type RecordStore struct {
	backend Store
	logger  *slog.Logger

	mu    sync.Mutex
	cache *domain.Document
}

// NewRecordStore wraps a storage backend. The logger must not be nil.
func NewRecordStore(backend Store, logger *slog.Logger) *RecordStore {
	return &RecordStore{backend: backend, logger: logger}
}

// Load returns the current document, reading from the backend only when the
// cache is cold. The returned document is a copy of the cache: callers may
// read it from any goroutine and mutate it freely, and changes only become
// visible to subsequent Loads once passed back through Save.
func (r *RecordStore) Load(ctx context.Context) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache != nil {
		return r.cache.Clone(), nil
	}

	data, err := r.backend.Get(ctx, KeyAppDB)
	switch {
	case err == nil:
		doc := &domain.Document{}
		if jsonErr := json.Unmarshal(data, doc); jsonErr != nil {
			r.logger.Error("Stored document is malformed, falling back to empty document",
				slog.String("error", jsonErr.Error()))
			doc = domain.NewDocument(time.Now().UTC())
		}
		r.cache = doc
	case errors.Is(err, ErrKeyMissing):
		r.cache = domain.NewDocument(time.Now().UTC())
	default:
		r.logger.Error("Failed to read stored document, falling back to empty document",
			slog.String("error", err.Error()))
		r.cache = domain.NewDocument(time.Now().UTC())
	}

	return r.cache.Clone(), nil
}

// Save replaces the cached document and persists it as one atomic write.
func (r *RecordStore) Save(ctx context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc.UpdatedAt = time.Now().UTC()
	r.cache = doc

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", apperrors.ErrStorageWrite, err)
	}
	if err := r.backend.Set(ctx, KeyAppDB, data); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageWrite, err)
	}
	return nil
}

// Exists reports whether a document has ever been persisted, without touching
// the cache. The seeder keys off presence, not collection emptiness.
func (r *RecordStore) Exists(ctx context.Context) (bool, error) {
	_, err := r.backend.Get(ctx, KeyAppDB)
	if errors.Is(err, ErrKeyMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate drops the cache; the next Load re-reads the backend.
func (r *RecordStore) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = nil
}

// Backend exposes the underlying key-value store for the sibling keys
// (preferences, onboarding flag, backup timestamp).
func (r *RecordStore) Backend() Store {
	return r.backend
}
