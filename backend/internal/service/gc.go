package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/logger"
)

// ContentGarbageCollector removes what deletes leave behind: reply lists of
// deleted threads or comments, ledger votes on deleted targets and cover
// blobs with no photo record. Content itself never expires.
type ContentGarbageCollector struct {
	forum           ForumStorage
	photos          PhotoStorage
	blobs           BlobStore
	safetyThreshold time.Duration
	log             *slog.Logger
	now             func() time.Time

	mu               sync.Mutex
	lastCleanupStats CleanupStats
}

// CleanupStats tracks metrics from the last garbage collection run.
type CleanupStats struct {
	RunAt          time.Time `json:"runAt"`
	RepliesPruned  int       `json:"repliesPruned"`
	VotesPruned    int       `json:"votesPruned"`
	BlobsScanned   int       `json:"blobsScanned"`
	OrphanedBlobs  int       `json:"orphanedBlobs"`
	BlobsDeleted   int       `json:"blobsDeleted"`
	BytesReclaimed int64     `json:"bytesReclaimed"`
	DurationMs     int64     `json:"durationMs"`
	Errors         []string  `json:"errors"`
}

// NewContentGarbageCollector creates a collector. safetyThreshold is the
// minimum age of an unreferenced blob before it is deleted, so a cover saved
// just before its photo record is written survives.
func NewContentGarbageCollector(forum ForumStorage, photos PhotoStorage, blobs BlobStore, safetyThreshold time.Duration) *ContentGarbageCollector {
	return &ContentGarbageCollector{
		forum:           forum,
		photos:          photos,
		blobs:           blobs,
		safetyThreshold: safetyThreshold,
		log:             logger.Component("content_gc"),
		now:             time.Now,
	}
}

// StartBackgroundCleanup runs a cleanup every interval until ctx is done.
func (gc *ContentGarbageCollector) StartBackgroundCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	gc.log.Info("started background cleanup", "interval", interval, "safety_threshold", gc.safetyThreshold)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.RunCleanup(ctx); err != nil {
					gc.log.Error("cleanup failed", "error", err)
					continue
				}
				stats := gc.GetLastCleanupStats()
				gc.log.Info("cleanup completed",
					"replies_pruned", stats.RepliesPruned,
					"votes_pruned", stats.VotesPruned,
					"blobs_scanned", stats.BlobsScanned,
					"blobs_deleted", stats.BlobsDeleted,
					"bytes_reclaimed", stats.BytesReclaimed,
					"duration_ms", stats.DurationMs,
					"errors", len(stats.Errors),
				)
			case <-ctx.Done():
				gc.log.Info("shutting down")
				return
			}
		}
	}()
}

// RunCleanup executes a single collection cycle.
func (gc *ContentGarbageCollector) RunCleanup(ctx context.Context) error {
	start := gc.now()
	stats := CleanupStats{RunAt: start, Errors: []string{}}

	// Thread state is read inside each update so that anything created while
	// the lock was awaited is seen.
	_ = gc.forum.UpdateReplies(ctx, func(index domain.ReplyIndex) (domain.ReplyIndex, error) {
		threads := gc.forum.Threads(ctx)
		for threadId, byComment := range index {
			i := threadIndex(threads, threadId)
			for commentId, list := range byComment {
				if i >= 0 && threads[i].CommentIndex(commentId) >= 0 {
					continue
				}
				stats.RepliesPruned += len(list)
				pruneReplies(index, threadId, commentId, nil)
			}
		}
		return index, nil
	})

	_ = gc.forum.UpdateThreadVotes(ctx, func(ledger domain.VoteLedger) (domain.VoteLedger, error) {
		threads := gc.forum.Threads(ctx)
		stats.VotesPruned += pruneLedger(ledger, func(id string) bool { return threadIndex(threads, id) >= 0 })
		return ledger, nil
	})

	var photos []domain.Photo
	_ = gc.photos.UpdatePhotoVotes(ctx, func(ledger domain.VoteLedger) (domain.VoteLedger, error) {
		photos = gc.photos.Photos(ctx)
		stats.VotesPruned += pruneLedger(ledger, func(id string) bool { return photoIndex(photos, id) >= 0 })
		return ledger, nil
	})

	blobs, err := gc.blobs.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list blobs: %w", err)
	}
	stats.BlobsScanned = len(blobs)
	for _, b := range blobs {
		if photoIndex(photos, b.Id) >= 0 {
			continue
		}
		if gc.now().Sub(b.ModTime) < gc.safetyThreshold {
			continue
		}
		stats.OrphanedBlobs++
		if err := gc.blobs.Delete(ctx, b.Id); err != nil {
			stats.Errors = append(stats.Errors, "delete error: "+b.Id+": "+err.Error())
			continue
		}
		stats.BlobsDeleted++
		stats.BytesReclaimed += b.SizeBytes
	}

	stats.DurationMs = gc.now().Sub(start).Milliseconds()
	gc.mu.Lock()
	gc.lastCleanupStats = stats
	gc.mu.Unlock()
	return nil
}

func pruneLedger(ledger domain.VoteLedger, exists func(string) bool) int {
	pruned := 0
	for who, votes := range ledger {
		for target := range votes {
			if !exists(target) {
				delete(votes, target)
				pruned++
			}
		}
		if len(votes) == 0 {
			delete(ledger, who)
		}
	}
	return pruned
}

// GetLastCleanupStats returns statistics from the last cleanup run.
func (gc *ContentGarbageCollector) GetLastCleanupStats() CleanupStats {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.lastCleanupStats
}
