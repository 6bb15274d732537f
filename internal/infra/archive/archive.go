// Package archive builds and stages the tar.gz bundles used for operational
// backup and restore. Archive members use fixed paths: env/.env for the
// configuration file and db/ajib.sqlite3 for the database file.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/ports/adapter"
)

const (
	memberEnv = "env/.env"
	memberDB  = "db/ajib.sqlite3"

	stagedName = "restore-uploaded.tar.gz"
)

var _ adapter.ArchiveService = (*Service)(nil)

type Service struct {
	envPath    string // optional; skipped when empty or absent
	dbPath     string
	backupsDir string
}

func NewService(envPath, dbPath, backupsDir string) *Service {
	return &Service{envPath: envPath, dbPath: dbPath, backupsDir: backupsDir}
}

// CreateBackup bundles whichever of the config and database files currently
// exist. An archive with zero members is still a valid (empty) backup. The
// archive is written under a temporary name and renamed on success, so a
// failure never leaves a half-written file under the final name.
func (s *Service) CreateBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.backupsDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create backups dir: %v", domain.ErrArchive, err)
	}

	ts := time.Now().UTC().Format("20060102-150405")
	final := filepath.Join(s.backupsDir, fmt.Sprintf("ajib-backup-%s.tar.gz", ts))

	type member struct{ src, arc string }
	var members []member
	if s.envPath != "" {
		if fi, err := os.Stat(s.envPath); err == nil && fi.Mode().IsRegular() {
			members = append(members, member{s.envPath, memberEnv})
		}
	}
	if fi, err := os.Stat(s.dbPath); err == nil && fi.Mode().IsRegular() {
		members = append(members, member{s.dbPath, memberDB})
	}

	tmp, err := os.CreateTemp(s.backupsDir, ".backup-*.tar.gz")
	if err != nil {
		return "", fmt.Errorf("%w: create temp archive: %v", domain.ErrArchive, err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %v", domain.ErrArchive, err)
	}

	gz := gzip.NewWriter(tmp)
	tw := tar.NewWriter(gz)
	for _, m := range members {
		if err := addFile(tw, m.src, m.arc); err != nil {
			return fail(err)
		}
	}
	if err := tw.Close(); err != nil {
		return fail(err)
	}
	if err := gz.Close(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: close archive: %v", domain.ErrArchive, err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: finalize archive: %v", domain.ErrArchive, err)
	}
	return final, nil
}

func addFile(tw *tar.Writer, src, arcname string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(fi, "")
	if err != nil {
		return err
	}
	hdr.Name = arcname
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}

// StageUpload writes an inbound archive stream to the fixed staging path,
// replacing any previously staged file. Validation and extraction are a
// separate step.
func (s *Service) StageUpload(ctx context.Context, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.backupsDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create backups dir: %v", domain.ErrArchive, err)
	}
	final := filepath.Join(s.backupsDir, stagedName)

	tmp, err := os.CreateTemp(s.backupsDir, ".staged-*.tar.gz")
	if err != nil {
		return "", fmt.Errorf("%w: create staging file: %v", domain.ErrArchive, err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: write staging file: %v", domain.ErrArchive, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: close staging file: %v", domain.ErrArchive, err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: finalize staging file: %v", domain.ErrArchive, err)
	}
	return final, nil
}

// Extract unpacks an archive into destDir, preserving the member paths.
// Member names must stay within destDir; anything else is rejected.
// A full restore builds on this: verify, extract to staging, replace live
// files with a pre-restore backup in hand, roll back on failure.
func Extract(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w: open archive: %v", domain.ErrArchive, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("%w: read archive: %v", domain.ErrArchive, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: read archive entry: %v", domain.ErrArchive, err)
		}
		name := filepath.Clean(hdr.Name)
		if filepath.IsAbs(name) || strings.HasPrefix(name, "..") {
			return fmt.Errorf("%w: unsafe member path %q", domain.ErrArchive, hdr.Name)
		}
		dest := filepath.Join(destDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("%w: extract dir: %v", domain.ErrArchive, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("%w: extract dir: %v", domain.ErrArchive, err)
			}
			out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return fmt.Errorf("%w: extract file: %v", domain.ErrArchive, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("%w: extract file: %v", domain.ErrArchive, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("%w: extract file: %v", domain.ErrArchive, err)
			}
		default:
			return fmt.Errorf("%w: unsupported member type in %q", domain.ErrArchive, hdr.Name)
		}
	}
}
