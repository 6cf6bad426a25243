// Package records maps the content collections onto kv keys. Every read is
// normalized and every write goes through Store.Update, so a collection is
// always well formed and in-process writers never lose each other's changes.
package records

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/apexcharge/paddock/backend/internal/storage/kv"
	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/logger"
)

// Keys are the storage keys of the five collections.
type Keys struct {
	Threads     string
	Replies     string
	ThreadVotes string
	PhotoVotes  string
	Photos      string
}

func NewKeys(namespace string) Keys {
	if namespace == "" {
		namespace = "apex"
	}
	return Keys{
		Threads:     namespace + "-forum-threads",
		Replies:     namespace + "-forum-replies",
		ThreadVotes: namespace + "-forum-user-votes",
		PhotoVotes:  namespace + "-gallery-user-votes",
		Photos:      namespace + "-media-photos",
	}
}

func (k Keys) All() []string {
	return []string{k.Threads, k.Replies, k.ThreadVotes, k.PhotoVotes, k.Photos}
}

type collection[T any] struct {
	key       string
	normalize func(*Normalizer, any) T
}

var errAlreadyNormalized = errors.New("collection already normalized")

func decode(key string, raw json.RawMessage, ok bool) any {
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Log.Warn("discarding unreadable collection", "component", "records", "key", key, "error", err)
		return nil
	}
	return v
}

// load reads the collection. When normalization had to generate an id or a
// timestamp, the result is written back so later reads hand out the same values.
func (c collection[T]) load(ctx context.Context, store *kv.Store, norm *Normalizer) T {
	raw, ok := store.Read(ctx, c.key)
	tracked, filled := norm.tracking()
	v := c.normalize(tracked, decode(c.key, raw, ok))
	if !*filled {
		return v
	}

	// Normalize again under the lock: another reader may have persisted first.
	_ = store.Update(ctx, c.key, func(raw json.RawMessage, ok bool) (any, error) {
		tracked, filled := norm.tracking()
		v = c.normalize(tracked, decode(c.key, raw, ok))
		if !*filled {
			return nil, errAlreadyNormalized
		}
		return v, nil
	})
	return v
}

func (c collection[T]) update(ctx context.Context, store *kv.Store, norm *Normalizer, fn func(T) (T, error)) error {
	return store.Update(ctx, c.key, func(raw json.RawMessage, ok bool) (any, error) {
		return fn(c.normalize(norm, decode(c.key, raw, ok)))
	})
}

type Records struct {
	store *kv.Store
	keys  Keys
	norm  *Normalizer

	threads     collection[[]domain.Thread]
	replies     collection[domain.ReplyIndex]
	threadVotes collection[domain.VoteLedger]
	photoVotes  collection[domain.VoteLedger]
	photos      collection[[]domain.Photo]
}

func New(store *kv.Store, keys Keys, norm *Normalizer) *Records {
	return &Records{
		store:       store,
		keys:        keys,
		norm:        norm,
		threads:     collection[[]domain.Thread]{keys.Threads, (*Normalizer).NormalizeThreads},
		replies:     collection[domain.ReplyIndex]{keys.Replies, (*Normalizer).NormalizeReplies},
		threadVotes: collection[domain.VoteLedger]{keys.ThreadVotes, (*Normalizer).NormalizeVoteLedger},
		photoVotes:  collection[domain.VoteLedger]{keys.PhotoVotes, (*Normalizer).NormalizeVoteLedger},
		photos:      collection[[]domain.Photo]{keys.Photos, (*Normalizer).NormalizePhotos},
	}
}

func (r *Records) Keys() Keys {
	return r.keys
}

func (r *Records) Normalizer() *Normalizer {
	return r.norm
}

func (r *Records) Threads(ctx context.Context) []domain.Thread {
	return r.threads.load(ctx, r.store, r.norm)
}

func (r *Records) UpdateThreads(ctx context.Context, fn func([]domain.Thread) ([]domain.Thread, error)) error {
	return r.threads.update(ctx, r.store, r.norm, fn)
}

func (r *Records) Replies(ctx context.Context) domain.ReplyIndex {
	return r.replies.load(ctx, r.store, r.norm)
}

func (r *Records) UpdateReplies(ctx context.Context, fn func(domain.ReplyIndex) (domain.ReplyIndex, error)) error {
	return r.replies.update(ctx, r.store, r.norm, fn)
}

func (r *Records) ThreadVotes(ctx context.Context) domain.VoteLedger {
	return r.threadVotes.load(ctx, r.store, r.norm)
}

func (r *Records) UpdateThreadVotes(ctx context.Context, fn func(domain.VoteLedger) (domain.VoteLedger, error)) error {
	return r.threadVotes.update(ctx, r.store, r.norm, fn)
}

func (r *Records) PhotoVotes(ctx context.Context) domain.VoteLedger {
	return r.photoVotes.load(ctx, r.store, r.norm)
}

func (r *Records) UpdatePhotoVotes(ctx context.Context, fn func(domain.VoteLedger) (domain.VoteLedger, error)) error {
	return r.photoVotes.update(ctx, r.store, r.norm, fn)
}

func (r *Records) Photos(ctx context.Context) []domain.Photo {
	return r.photos.load(ctx, r.store, r.norm)
}

func (r *Records) UpdatePhotos(ctx context.Context, fn func([]domain.Photo) ([]domain.Photo, error)) error {
	return r.photos.update(ctx, r.store, r.norm, fn)
}

// Snapshot is every collection at once, as dumped by export and read by import.
type Snapshot struct {
	Threads     []domain.Thread   `json:"threads"`
	Replies     domain.ReplyIndex `json:"replies"`
	ThreadVotes domain.VoteLedger `json:"threadVotes"`
	PhotoVotes  domain.VoteLedger `json:"photoVotes"`
	Photos      []domain.Photo    `json:"photos"`
}

func (r *Records) Export(ctx context.Context) Snapshot {
	return Snapshot{
		Threads:     r.Threads(ctx),
		Replies:     r.Replies(ctx),
		ThreadVotes: r.ThreadVotes(ctx),
		PhotoVotes:  r.PhotoVotes(ctx),
		Photos:      r.Photos(ctx),
	}
}

// Import normalizes a snapshot document and replaces every collection with it.
func (r *Records) Import(ctx context.Context, raw json.RawMessage) Snapshot {
	m := asMap(decode("import", raw, true))
	snap := Snapshot{
		Threads:     r.norm.NormalizeThreads(m["threads"]),
		Replies:     r.norm.NormalizeReplies(m["replies"]),
		ThreadVotes: r.norm.NormalizeVoteLedger(m["threadVotes"]),
		PhotoVotes:  r.norm.NormalizeVoteLedger(m["photoVotes"]),
		Photos:      r.norm.NormalizePhotos(m["photos"]),
	}
	r.store.WriteAll(ctx, map[string]any{
		r.keys.Threads:     snap.Threads,
		r.keys.Replies:     snap.Replies,
		r.keys.ThreadVotes: snap.ThreadVotes,
		r.keys.PhotoVotes:  snap.PhotoVotes,
		r.keys.Photos:      snap.Photos,
	})
	return snap
}
