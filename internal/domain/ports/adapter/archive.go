package adapter

import (
	"context"
	"io"
)

// ArchiveService bundles the live configuration and database files into a
// compressed archive and stages uploaded archives for restore.
type ArchiveService interface {
	// CreateBackup writes a timestamped archive and returns its path.
	// Absent source files are skipped; an archive with zero members is
	// still a valid backup.
	CreateBackup(ctx context.Context) (string, error)
	// StageUpload writes the stream to the fixed staging path, replacing
	// any previously staged archive. It does not validate or extract.
	StageUpload(ctx context.Context, r io.Reader) (string, error)
}
