package cli

import (
	"context"
	"fmt"

	cachememory "github.com/custodia-labs/remsync/internal/adapters/driven/cache/memory"
	cachesqlite "github.com/custodia-labs/remsync/internal/adapters/driven/cache/sqlite"
	"github.com/custodia-labs/remsync/internal/adapters/driven/transfer"
	"github.com/custodia-labs/remsync/internal/adapters/driven/transfer/localdir"
	s3transfer "github.com/custodia-labs/remsync/internal/adapters/driven/transfer/s3"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
	"github.com/custodia-labs/remsync/internal/logger"
)

// buildCache builds the metadata cache selected by --cache.
func buildCache() (driven.MetadataCache, error) {
	switch flagCache {
	case "memory":
		return cachememory.NewCache(), nil
	case "sqlite":
		return cachesqlite.NewCache(flagCacheDir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", flagCache)
	}
}

// buildTransfer builds the backend router. The S3 engine is registered
// only when AWS configuration loads; profiles using other backends are
// unaffected when it does not.
func buildTransfer(ctx context.Context, cache driven.MetadataCache) *transfer.Router {
	router := transfer.NewRouter()
	router.Register("localdir", localdir.NewEngine(cache))

	s3Engine, err := s3transfer.NewEngine(ctx, cache)
	if err != nil {
		logger.Warn("S3 backend unavailable: %v", err)
	} else {
		router.Register("s3", s3Engine)
	}
	return router
}
