package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/adminconsole/internal/config"
	"github.com/jask/adminconsole/internal/dashboard"
	"github.com/jask/adminconsole/internal/database/repository"
	"github.com/jask/adminconsole/internal/prefs"
	"github.com/jask/adminconsole/internal/secrets"
	"github.com/jask/adminconsole/internal/storage"
)

func TestOpenStorageMemory(t *testing.T) {
	kv, db, err := openStorage(config.StorageConfig{Backend: "memory"})
	require.NoError(t, err)
	require.Nil(t, db)
	require.IsType(t, &storage.Memory{}, kv)
}

func TestOpenStorageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "layout.json")
	kv, db, err := openStorage(config.StorageConfig{Backend: "file", Path: path})
	require.NoError(t, err)
	require.Nil(t, db)
	require.IsType(t, &prefs.FileStore{}, kv)

	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, dashboard.PlacedKey, `[{"id":1,"label":"Subscribers"}]`))
	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, _, err := openStorage(config.StorageConfig{Backend: "file", Path: path})
	require.NoError(t, err)
	got, ok, err := reopened.Get(ctx, dashboard.PlacedKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, got, "Subscribers")
}

func TestOpenStorageSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "console.db")
	kv, db, err := openStorage(config.StorageConfig{Backend: "sqlite", Path: path})
	require.NoError(t, err)
	require.NotNil(t, db)
	t.Cleanup(func() { _ = db.Close() })
	require.IsType(t, &repository.LocalStorageRepo{}, kv)

	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, dashboard.PlacedKey, "[]"))
	got, ok, err := kv.Get(ctx, dashboard.PlacedKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[]", got)

	var out bytes.Buffer
	require.NoError(t, printEntries(ctx, &out, kv.(*repository.LocalStorageRepo)))
	line := strings.TrimSpace(out.String())
	require.True(t, strings.HasPrefix(line, dashboard.PlacedKey+"\t"), line)
	require.True(t, strings.HasSuffix(line, "\t2 bytes"), line)
}

func TestResolveTokenOrder(t *testing.T) {
	tokens := secrets.NewStore(t.TempDir())
	cfg := config.APIConfig{BaseURL: "https://api.example.com/users", TokenEnv: "ADMINCONSOLE_TEST_TOKEN", Token: "from-config"}
	t.Setenv("ADMINCONSOLE_TEST_TOKEN", "")

	require.Equal(t, "from-config", resolveToken(cfg, tokens))

	require.NoError(t, tokens.StoreToken(cfg.BaseURL, "from-secrets"))
	require.Equal(t, "from-secrets", resolveToken(cfg, tokens))

	t.Setenv("ADMINCONSOLE_TEST_TOKEN", "from-env")
	require.Equal(t, "from-env", resolveToken(cfg, tokens))
}
