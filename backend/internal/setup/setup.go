package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/apexcharge/paddock/backend/internal/handler"
	"github.com/apexcharge/paddock/backend/internal/service"
	"github.com/apexcharge/paddock/backend/internal/storage/fs"
	"github.com/apexcharge/paddock/backend/internal/storage/kv"
	"github.com/apexcharge/paddock/backend/internal/storage/minio"
	"github.com/apexcharge/paddock/backend/internal/storage/pg"
	"github.com/apexcharge/paddock/backend/internal/storage/records"
	"github.com/apexcharge/paddock/backend/internal/storage/redis"
	"github.com/apexcharge/paddock/backend/internal/storage/sqlite"
	"github.com/apexcharge/paddock/shared/config"
	"github.com/apexcharge/paddock/shared/jwt"
	mw "github.com/apexcharge/paddock/shared/middleware"
	rl "github.com/apexcharge/paddock/shared/middleware/ratelimiter"
)

const limiterIdleTTL = time.Hour

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Store          *kv.Store
	Records        *records.Records
	Blobs          service.BlobStore
	GC             *service.ContentGarbageCollector
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	ContentLimiter *rl.Limiter
	UploadLimiter  *rl.Limiter
}

// OpenBackend connects the kv backend selected by storage.driver.
func OpenBackend(ctx context.Context, cfg *config.Config) (kv.Backend, error) {
	s := cfg.Public.Storage
	switch s.Driver {
	case "memory":
		return kv.NewMemory(), nil
	case "pg":
		return pg.New(ctx, cfg.Pg())
	case "sqlite":
		return sqlite.New(s.SqlitePath)
	case "redis":
		return redis.New(s.RedisURL)
	}
	return nil, fmt.Errorf("unknown storage driver %q", s.Driver)
}

// OpenBlobs connects the cover store selected by blobs.driver.
func OpenBlobs(ctx context.Context, cfg *config.Config) (service.BlobStore, error) {
	b := cfg.Public.Blobs
	switch b.Driver {
	case "fs":
		return fs.New(b.RootPath)
	case "minio":
		return minio.New(ctx, b, cfg.Minio())
	}
	return nil, fmt.Errorf("unknown blob driver %q", b.Driver)
}

// OpenRecords opens the record store. The caller closes the returned Store.
func OpenRecords(ctx context.Context, cfg *config.Config) (*records.Records, *kv.Store, error) {
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Public.Storage.Driver, err)
	}
	store := kv.NewStore(backend)
	rec := records.New(store, records.NewKeys(cfg.Public.Storage.Namespace), records.NewNormalizer())
	return rec, store, nil
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	rec, store, err := OpenRecords(ctx, cfg)
	if err != nil {
		return nil, err
	}
	blobs, err := OpenBlobs(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open %s blob store: %w", cfg.Public.Blobs.Driver, err)
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	authMw := mw.NewAuth(jwtService, cfg.Public.SecureCookies)

	threads := service.NewThread(rec, &cfg.Public)
	gc := service.NewContentGarbageCollector(rec, rec, blobs, cfg.Public.GC.SafetyThreshold)
	h := handler.New(handler.Services{
		Auth:     service.NewAuth(jwtService, cfg),
		Threads:  threads,
		Comments: service.NewComment(rec, &cfg.Public),
		Media:    service.NewMedia(rec, blobs, &cfg.Public),
		Activity: service.NewActivity(rec, rec, threads),
		GC:       gc,
	}, authMw, cfg)

	limits := cfg.Public.RateLimits
	return &Dependencies{
		Config:         cfg,
		Store:          store,
		Records:        rec,
		Blobs:          blobs,
		GC:             gc,
		Handler:        h,
		AuthMiddleware: authMw,
		ContentLimiter: rl.New(limits.ContentRate, limits.ContentBurst, limiterIdleTTL),
		UploadLimiter:  rl.New(limits.UploadRate, limits.UploadBurst, limiterIdleTTL),
	}, nil
}

// Start launches the background work: garbage collection and limiter sweeps.
// Everything stops when ctx is done.
func (d *Dependencies) Start(ctx context.Context) {
	if d.Config.Public.GC.Interval > 0 {
		d.GC.StartBackgroundCleanup(ctx, d.Config.Public.GC.Interval)
	}
	go d.ContentLimiter.Run(ctx, limiterIdleTTL/4)
	go d.UploadLimiter.Run(ctx, limiterIdleTTL/4)
}

func (d *Dependencies) Cleanup() error {
	return d.Store.Close()
}
