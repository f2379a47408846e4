// snapshot.go - Scheduled leaderboard snapshot export.
//
// Serializes the full leaderboard to gzipped JSON and uploads it to an
// S3-compatible bucket on a fixed interval, pruning snapshots older than the
// retention period. Off by default; an operator convenience, not part of
// the request path.
package server

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SnapshotConfig configures the snapshot exporter.
type SnapshotConfig struct {
	Enabled       bool
	Interval      time.Duration // e.g. 24h for daily snapshots
	RetentionDays int           // snapshots older than this are pruned
	Endpoint      string        // S3/MinIO endpoint, host:port
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	Prefix        string // object key prefix, e.g. "leaderboard/"
}

// SnapshotManager runs the export schedule.
type SnapshotManager struct {
	cfg    SnapshotConfig
	store  ScoreStore
	client *minio.Client
	stop   chan struct{}
}

// NewSnapshotManager builds a manager and its object-storage client.
func NewSnapshotManager(cfg SnapshotConfig, store ScoreStore) (*SnapshotManager, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return &SnapshotManager{
		cfg:    cfg,
		store:  store,
		client: client,
		stop:   make(chan struct{}),
	}, nil
}

// Start begins the snapshot schedule. No-op when disabled.
func (sm *SnapshotManager) Start() {
	if !sm.cfg.Enabled {
		Info("leaderboard snapshots disabled", nil)
		return
	}

	Info("leaderboard snapshot scheduler started", map[string]any{
		"interval":       sm.cfg.Interval.String(),
		"retention_days": sm.cfg.RetentionDays,
		"bucket":         sm.cfg.Bucket,
	})

	go func() {
		ticker := time.NewTicker(sm.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := sm.Export(context.Background()); err != nil {
					Error("snapshot export failed", nil, err)
					continue
				}
				if err := sm.prune(context.Background()); err != nil {
					Error("snapshot prune failed", nil, err)
				}
			case <-sm.stop:
				return
			}
		}
	}()
}

// Stop halts the schedule. In-flight exports finish.
func (sm *SnapshotManager) Stop() {
	close(sm.stop)
}

// Export serializes the current leaderboard and uploads one gzipped JSON
// object named by timestamp.
func (sm *SnapshotManager) Export(ctx context.Context) error {
	entries, err := sm.store.AllScores(ctx)
	if err != nil {
		return fmt.Errorf("read leaderboard: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(entries); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}

	key := fmt.Sprintf("%sscores-%s.json.gz", sm.cfg.Prefix, time.Now().UTC().Format("20060102T150405Z"))
	_, err = sm.client.PutObject(ctx, sm.cfg.Bucket, key, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/gzip",
	})
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}

	Info("snapshot exported", map[string]any{
		"object":  key,
		"entries": len(entries),
	})
	return nil
}

// prune removes snapshot objects older than the retention period.
func (sm *SnapshotManager) prune(ctx context.Context) error {
	if sm.cfg.RetentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().Add(-time.Duration(sm.cfg.RetentionDays) * 24 * time.Hour)

	for obj := range sm.client.ListObjects(ctx, sm.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    sm.cfg.Prefix + "scores-",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return obj.Err
		}
		if !strings.HasSuffix(obj.Key, ".json.gz") || !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := sm.client.RemoveObject(ctx, sm.cfg.Bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove %s: %w", obj.Key, err)
		}
		Info("snapshot pruned", map[string]any{"object": obj.Key})
	}
	return nil
}
