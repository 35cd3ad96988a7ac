// Package s3 implements the transfer engine against an S3 bucket.
// The profile's Remote field is the key prefix; the bucket and region
// come from the profile options.
package s3

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.TransferEngine = (*Engine)(nil)

// defaultOpsPerSecond caps S3 calls issued by a burst of events.
const defaultOpsPerSecond = 10

// Engine is an S3 implementation of driven.TransferEngine.
// Credentials come from the default AWS credential chain.
type Engine struct {
	client  *s3.Client
	limiter *rate.Limiter
	cache   driven.MetadataCache
}

// NewEngine creates an S3 engine using the default AWS configuration.
// The cache is optional; when set, successful transfers record the
// file state.
func NewEngine(ctx context.Context, cache driven.MetadataCache) (*Engine, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Engine{
		client:  s3.NewFromConfig(awsCfg),
		limiter: rate.NewLimiter(rate.Limit(defaultOpsPerSecond), defaultOpsPerSecond),
		cache:   cache,
	}, nil
}

// NewEngineWithClient creates an engine over an existing client.
// Useful for tests and custom endpoints.
func NewEngineWithClient(client *s3.Client, cache driven.MetadataCache) *Engine {
	return &Engine{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(defaultOpsPerSecond), defaultOpsPerSecond),
		cache:   cache,
	}
}

// Upload puts the local file at the service's object key.
func (e *Engine) Upload(ctx context.Context, service *domain.RemoteService, localPath string) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}

	bucket := service.Profile.Option("bucket")
	if bucket == "" {
		return fmt.Errorf("%w: profile %q has no bucket option", domain.ErrTransfer, service.Profile.Name)
	}
	key, err := service.RemoteKey(localPath)
	if err != nil {
		return fmt.Errorf("%w: %s not governed by %s", domain.ErrTransfer, localPath, service.Profile.Name)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrTransfer, localPath, err)
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return fmt.Errorf("%w: hash %s: %v", domain.ErrTransfer, localPath, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: rewind %s: %v", domain.ErrTransfer, localPath, err)
	}

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("%w: put s3://%s/%s: %v", domain.ErrTransfer, bucket, key, err)
	}

	e.record(ctx, localPath, hex.EncodeToString(hash.Sum(nil)))
	return nil
}

// Download gets the service's object and replaces the local file,
// writing through a temp file so readers never see a partial object.
func (e *Engine) Download(ctx context.Context, service *domain.RemoteService, localPath string) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}

	bucket := service.Profile.Option("bucket")
	if bucket == "" {
		return fmt.Errorf("%w: profile %q has no bucket option", domain.ErrTransfer, service.Profile.Name)
	}
	key, err := service.RemoteKey(localPath)
	if err != nil {
		return fmt.Errorf("%w: %s not governed by %s", domain.ErrTransfer, localPath, service.Profile.Name)
	}

	out, err := e.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: get s3://%s/%s: %v", domain.ErrTransfer, bucket, key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(localPath), ".remsync-*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	if _, err := io.Copy(tmp, io.TeeReader(out.Body, hash)); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrTransfer, localPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}

	e.record(ctx, localPath, hex.EncodeToString(hash.Sum(nil)))
	return nil
}

// record stores post-transfer file state in the cache, if one is wired.
func (e *Engine) record(ctx context.Context, localPath, checksum string) {
	if e.cache == nil {
		return
	}
	state := domain.FileState{
		Path:     localPath,
		Checksum: checksum,
		SyncedAt: time.Now(),
	}
	if info, err := os.Stat(localPath); err == nil {
		state.Size = info.Size()
		state.ModTime = info.ModTime()
	}
	_ = e.cache.Put(ctx, state)
}
