// Package localdir implements the transfer engine against a local
// destination directory, mirroring the workspace layout beneath the
// profile's remote root.
package localdir

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.TransferEngine = (*Engine)(nil)

// defaultOpsPerSecond limits transfer operations so a burst of save
// events cannot saturate the destination filesystem.
const defaultOpsPerSecond = 20

// Engine is a local-directory implementation of driven.TransferEngine.
// The profile's Remote field is the absolute destination directory.
type Engine struct {
	limiter *rate.Limiter
	cache   driven.MetadataCache
}

// NewEngine creates a local-directory engine. The cache is optional;
// when set, successful transfers record the file state.
func NewEngine(cache driven.MetadataCache) *Engine {
	return &Engine{
		limiter: rate.NewLimiter(rate.Limit(defaultOpsPerSecond), defaultOpsPerSecond),
		cache:   cache,
	}
}

// Upload copies the local file to its mirrored destination path.
func (e *Engine) Upload(ctx context.Context, service *domain.RemoteService, localPath string) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}

	rel, err := service.Rel(localPath)
	if err != nil {
		return fmt.Errorf("%w: %s not governed by %s", domain.ErrTransfer, localPath, service.Profile.Name)
	}
	dest := filepath.Join(service.Profile.Remote, filepath.FromSlash(rel))

	checksum, size, err := copyFile(localPath, dest)
	if err != nil {
		return fmt.Errorf("%w: upload %s: %v", domain.ErrTransfer, localPath, err)
	}

	e.record(ctx, localPath, size, checksum)
	return nil
}

// Download copies the mirrored destination file back over the local file.
func (e *Engine) Download(ctx context.Context, service *domain.RemoteService, localPath string) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}

	rel, err := service.Rel(localPath)
	if err != nil {
		return fmt.Errorf("%w: %s not governed by %s", domain.ErrTransfer, localPath, service.Profile.Name)
	}
	src := filepath.Join(service.Profile.Remote, filepath.FromSlash(rel))

	checksum, size, err := copyFile(src, localPath)
	if err != nil {
		return fmt.Errorf("%w: download %s: %v", domain.ErrTransfer, localPath, err)
	}

	e.record(ctx, localPath, size, checksum)
	return nil
}

// record stores post-transfer file state in the cache, if one is wired.
func (e *Engine) record(ctx context.Context, localPath string, size int64, checksum string) {
	if e.cache == nil {
		return
	}
	state := domain.FileState{
		Path:     localPath,
		Size:     size,
		Checksum: checksum,
		SyncedAt: time.Now(),
	}
	if info, err := os.Stat(localPath); err == nil {
		state.ModTime = info.ModTime()
	}
	// Cache population is best-effort.
	_ = e.cache.Put(ctx, state)
}

// copyFile copies src to dst through a temp file in dst's directory,
// renaming into place so readers never observe a partial write.
// Returns the hex SHA-256 and size of the copied content.
func copyFile(src, dst string) (string, int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".remsync-*")
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	size, err := io.Copy(tmp, io.TeeReader(in, hash))
	if err != nil {
		tmp.Close()
		return "", 0, err
	}
	if err := tmp.Close(); err != nil {
		return "", 0, err
	}

	if info, err := os.Stat(src); err == nil {
		_ = os.Chmod(tmp.Name(), info.Mode().Perm())
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(hash.Sum(nil)), size, nil
}
