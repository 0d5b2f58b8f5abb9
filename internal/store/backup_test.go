package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mobilvask/internal/config"
	"mobilvask/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformBackupFileBackend(t *testing.T) {
	logger := zerolog.Nop()
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")

	fs, err := NewFileStore(dir, "bookings", &logger)
	require.NoError(t, err)
	require.NoError(t, fs.Append(context.Background(), sampleRecord("BK-20260901-0001", models.StatusPending)))

	svc := NewBackupService(fs.Path(), "file", config.BackupConfig{
		Enabled:     true,
		StoragePath: backupDir,
	}, &logger)

	require.NoError(t, svc.PerformBackup())

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "backup_")
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))

	src, err := os.ReadFile(fs.Path())
	require.NoError(t, err)
	dst, err := os.ReadFile(filepath.Join(backupDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, src, dst)
}

func TestPerformBackupSQLiteBackend(t *testing.T) {
	logger := zerolog.Nop()
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")

	s, err := NewSQLiteStore(filepath.Join(dir, "bookings.db"), &logger)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), sampleRecord("BK-20260901-0001", models.StatusPending)))
	require.NoError(t, s.Close())

	svc := NewBackupService(s.Path(), "sqlite", config.BackupConfig{
		Enabled:     true,
		StoragePath: backupDir,
	}, &logger)

	require.NoError(t, svc.PerformBackup())

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// The snapshot must be a readable store with the same rows.
	restored, err := NewSQLiteStore(filepath.Join(backupDir, entries[0].Name()), &logger)
	require.NoError(t, err)
	defer restored.Close()

	records, err := restored.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "BK-20260901-0001", records[0].Reference)
}

func TestPerformBackupMissingSource(t *testing.T) {
	logger := zerolog.Nop()
	dir := t.TempDir()

	svc := NewBackupService(filepath.Join(dir, "missing.json"), "file", config.BackupConfig{
		Enabled:     true,
		StoragePath: filepath.Join(dir, "backups"),
	}, &logger)

	assert.Error(t, svc.PerformBackup())
}

func TestCleanupOldBackups(t *testing.T) {
	logger := zerolog.Nop()
	backupDir := t.TempDir()

	oldFile := filepath.Join(backupDir, "backup_20260101_000000.json")
	newFile := filepath.Join(backupDir, "backup_20260901_000000.json")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(newFile, []byte("new"), 0o644))

	past := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	svc := NewBackupService("", "file", config.BackupConfig{
		Enabled:       true,
		StoragePath:   backupDir,
		RetentionDays: 7,
	}, &logger)

	svc.CleanupOldBackups()

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(newFile), entries[0].Name())
}

func TestCleanupDisabledWithoutRetention(t *testing.T) {
	logger := zerolog.Nop()
	backupDir := t.TempDir()

	file := filepath.Join(backupDir, "backup_old.json")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	past := time.Now().AddDate(0, 0, -365)
	require.NoError(t, os.Chtimes(file, past, past))

	svc := NewBackupService("", "file", config.BackupConfig{
		Enabled:     true,
		StoragePath: backupDir,
	}, &logger)

	svc.CleanupOldBackups()

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
