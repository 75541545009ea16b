package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"abacusisland/internal/logger"
	"abacusisland/internal/progress"

	"github.com/google/uuid"
)

// BackupVersion is written into every export; imports of other versions are refused
const BackupVersion = "1.0"

var (
	ErrBackupVersion = errors.New("unsupported backup version")
	ErrInvalidBackup = errors.New("invalid backup")
)

// BackupData is the complete progress backup
type BackupData struct {
	ID         uuid.UUID         `json:"id"`
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Progress   progress.Snapshot `json:"progress"`
}

// BackupService handles progress export and import
type BackupService struct {
	store *progress.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(store *progress.Store, log *logger.Logger) *BackupService {
	return &BackupService{store: store, log: log.With("component", "backup"), now: time.Now}
}

// Export writes a backup of the whole store to w
func (s *BackupService) Export(w io.Writer) (*BackupData, error) {
	backup := &BackupData{
		ID:         uuid.New(),
		Version:    BackupVersion,
		ExportedAt: s.now().UTC(),
		Progress:   s.store.Snapshot(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Info("progress exported",
		"backup_id", backup.ID,
		"levels", len(backup.Progress.Progress),
		"daily_logs", len(backup.Progress.DailyLogs),
		"completions", len(backup.Progress.Completions),
	)
	return backup, nil
}

// Import restores a backup read from r. With replace set the backup takes the
// place of the stored progress; otherwise it is merged into it.
func (s *BackupService) Import(ctx context.Context, r io.Reader, replace bool) (*BackupData, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("%w: %q", ErrBackupVersion, backup.Version)
	}

	snap := backup.Progress
	if !replace {
		snap = merge(s.store.Snapshot(), snap)
	}
	if err := s.store.Restore(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to restore backup: %w", err)
	}

	s.log.Info("progress imported",
		"backup_id", backup.ID,
		"exported_at", backup.ExportedAt,
		"replace", replace,
	)
	return &backup, nil
}
