package service

import (
	"co_attainment_backend/internal/config"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveKey(t *testing.T) {
	key := ArchiveKey("test1", "../../etc/PT1 marks.xlsx", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(key, "workbooks/test1/20240305/"))
	assert.True(t, strings.HasSuffix(key, "-PT1 marks.xlsx"))
	assert.NotContains(t, key, "..")
}

func TestLocalArchive(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()
	svc := NewStorageService(cfg)

	url, err := svc.Archive(context.Background(), "ip", "IP.xlsx", strings.NewReader("payload"), 7)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/workbooks/ip/"))

	key := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(cfg.Storage.LocalPath, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, svc.Delete(context.Background(), key))
	_, err = os.Stat(filepath.Join(cfg.Storage.LocalPath, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}
