package database

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

const (
	backupTimeLayout = "20060102_150405"
	reasonScheduled  = "scheduled"
	manifestName     = "manifest.yaml"
)

var backupName = regexp.MustCompile(`^(\d{8}_\d{6})_([a-z0-9-]+)\.zip$`)

// Backup is a zip archive holding a copy of the database and a manifest
// of the definitions cached at the time.
type Backup struct {
	Path    string
	Reason  string
	Created time.Time
	Size    int64
}

type backupManifest struct {
	Created       time.Time       `yaml:"created"`
	Reason        string          `yaml:"reason"`
	SchemaVersion int             `yaml:"schema_version"`
	Definitions   []DefinitionKey `yaml:"definitions"`
}

// Backup archives the database for the scheduled maintenance.
func (d *Database) Backup(ctx context.Context) error {
	_, err := d.backup(ctx, reasonScheduled)
	return err
}

func (d *Database) backup(ctx context.Context, reason string) (Backup, error) {
	if err := os.MkdirAll(d.backups, 0o755); err != nil {
		return Backup{}, fmt.Errorf("creating backup directory: %w", err)
	}

	b := Backup{Reason: reason, Created: time.Now().UTC().Truncate(time.Second)}
	base := filepath.Join(d.backups, b.Created.Format(backupTimeLayout)+"_"+reason)
	b.Path = base + ".zip"

	snapshot := base + ".db"
	if _, err := d.write.ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		return Backup{}, fmt.Errorf("copying database to %s: %w", snapshot, err)
	}
	defer func() {
		if err := os.Remove(snapshot); err != nil {
			d.logger.Warn("removing database copy failed", slog.String("path", snapshot), slog.Any("error", err))
		}
	}()

	manifest := backupManifest{Created: b.Created, Reason: reason}
	var err error
	if manifest.SchemaVersion, err = d.Version(ctx); err != nil {
		return Backup{}, err
	}
	if manifest.Definitions, err = d.DefinitionIndex(ctx); err != nil {
		d.logger.Warn("backup manifest has no definitions", slog.Any("error", err))
	}

	raw, err := writeArchive(b.Path, snapshot, filepath.Base(d.path), manifest)
	if err != nil {
		os.Remove(b.Path)
		return Backup{}, err
	}
	if info, err := os.Stat(b.Path); err == nil {
		b.Size = info.Size()
	}

	d.logger.Info("database backup complete",
		slog.String("filename", b.Path),
		slog.String("reason", reason),
		slog.Int("definitions", len(manifest.Definitions)),
		slog.String("size", humanize.Bytes(uint64(b.Size))),
		slog.String("uncompressed", humanize.Bytes(uint64(raw))))

	return b, nil
}

// writeArchive zips the database copy at src under name, followed by
// the manifest. It returns the size of the copy.
func writeArchive(dest, src, name string, manifest backupManifest) (int64, error) {
	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening database copy: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return 0, err
	}
	header.Name = name
	header.Method = zip.Deflate

	zw := zip.NewWriter(out)
	w, err := zw.CreateHeader(header)
	if err != nil {
		return 0, fmt.Errorf("adding %s to archive: %w", name, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return 0, fmt.Errorf("adding %s to archive: %w", name, err)
	}

	w, err = zw.Create(manifestName)
	if err != nil {
		return 0, fmt.Errorf("adding manifest to archive: %w", err)
	}
	if err := yaml.NewEncoder(w).Encode(manifest); err != nil {
		return 0, fmt.Errorf("writing manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("finishing archive: %w", err)
	}
	return info.Size(), out.Close()
}

// Backups lists the backup archives, newest first. Files not named like
// a backup are left out.
func (d *Database) Backups() ([]Backup, error) {
	entries, err := os.ReadDir(d.backups)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var out []Backup
	for _, e := range entries {
		m := backupName.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() {
			continue
		}
		created, err := time.Parse(backupTimeLayout, m[1])
		if err != nil {
			continue
		}
		b := Backup{Path: filepath.Join(d.backups, e.Name()), Reason: m[2], Created: created}
		if info, err := e.Info(); err == nil {
			b.Size = info.Size()
		}
		out = append(out, b)
	}

	slices.SortFunc(out, func(a, b Backup) int { return b.Created.Compare(a.Created) })
	return out, nil
}

// PurgeBackups deletes the backups older than retentionDays. The newest
// backup is always kept.
func (d *Database) PurgeBackups(ctx context.Context, retentionDays int) error {
	if retentionDays < 1 {
		return nil
	}

	backups, err := d.Backups()
	if err != nil {
		return err
	}

	limit := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0
	for i, b := range backups {
		if i == 0 || b.Created.After(limit) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("removing backup %s: %w", b.Path, err)
		}
		removed++
	}

	d.logger.Info("backup purge complete", slog.Int("removed", removed), slog.Int("kept", len(backups)-removed))
	return nil
}
