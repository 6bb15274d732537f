package usecase

import (
	"context"
	"io"

	"telegram-subscription-admin/internal/domain/ports/adapter"
	"telegram-subscription-admin/internal/infra/logging"

	"github.com/rs/zerolog"
)

var _ BackupUseCase = (*backupUC)(nil)

// BackupUseCase creates operational backups and stages uploaded archives.
// The full restore (verify, extract, replace live files with a pre-restore
// backup in hand, roll back on failure) is a documented extension on top of
// the staged archive.
type BackupUseCase interface {
	CreateBackup(ctx context.Context) (string, error)
	StageRestore(ctx context.Context, r io.Reader) (string, error)
}

type backupUC struct {
	archive adapter.ArchiveService
	log     *zerolog.Logger
}

func NewBackupUseCase(archive adapter.ArchiveService, logger *zerolog.Logger) *backupUC {
	return &backupUC{archive: archive, log: logger}
}

func (uc *backupUC) CreateBackup(ctx context.Context) (string, error) {
	defer logging.TraceDuration(uc.log, "BackupUC.CreateBackup")()
	path, err := uc.archive.CreateBackup(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("backup creation failed")
		return "", err
	}
	uc.log.Info().Str("path", path).Msg("backup created")
	return path, nil
}

func (uc *backupUC) StageRestore(ctx context.Context, r io.Reader) (string, error) {
	defer logging.TraceDuration(uc.log, "BackupUC.StageRestore")()
	path, err := uc.archive.StageUpload(ctx, r)
	if err != nil {
		uc.log.Error().Err(err).Msg("staging uploaded archive failed")
		return "", err
	}
	uc.log.Info().Str("path", path).Msg("uploaded archive staged for restore")
	return path, nil
}
