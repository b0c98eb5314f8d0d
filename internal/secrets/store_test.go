package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	_, err := s.FetchToken("https://dummyjson.com/users")
	require.Error(t, err)

	require.NoError(t, s.StoreToken("https://DummyJSON.com/users", "tok-123"))
	got, err := s.FetchToken("dummyjson.com")
	require.NoError(t, err)
	require.Equal(t, "tok-123", got)

	raw, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), "tok-123"), "token must not be stored in plain text")

	require.NoError(t, s.DeleteToken("https://dummyjson.com/users"))
	_, err = s.FetchToken("https://dummyjson.com/users")
	require.Error(t, err)
}

func TestHostKey(t *testing.T) {
	require.Equal(t, "dummyjson.com", HostKey("https://dummyjson.com/users"))
	require.Equal(t, "127.0.0.1:8089", HostKey("http://127.0.0.1:8089/users"))
	require.Equal(t, "api.example.com", HostKey("API.example.com"))
	require.Equal(t, "", HostKey("  "))
}

func TestStoreRequiresHost(t *testing.T) {
	s := NewStore(t.TempDir())
	require.Error(t, s.StoreToken("", "x"))
	require.Error(t, s.DeleteToken(""))
}
