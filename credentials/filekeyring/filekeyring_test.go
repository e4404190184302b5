package filekeyring_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lmsdesk/go-admin-client/credentials/filekeyring"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	keyring, err := filekeyring.New(path)
	require.NoError(t, err)

	require.NoError(t, keyring.Set("accessToken", "T1"))
	require.NoError(t, keyring.Set("refreshToken", "R1"))

	value, ok, err := keyring.Get("accessToken")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T1", value)

	// Values survive a reopen.
	reopened, err := filekeyring.New(path)
	require.NoError(t, err)
	value, ok, err = reopened.Get("refreshToken")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "R1", value)
}

func TestGetMissingKey(t *testing.T) {
	keyring, err := filekeyring.New(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)

	_, ok, err := keyring.Get("accessToken")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeleteIsIdempotent(t *testing.T) {
	keyring, err := filekeyring.New(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)

	require.NoError(t, keyring.Set("accessToken", "T1"))
	require.NoError(t, keyring.Delete("accessToken"))
	require.NoError(t, keyring.Delete("accessToken"))

	_, ok, err := keyring.Get("accessToken")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSealedValuesAreUnreadableOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	keyring, err := filekeyring.New(path, filekeyring.WithPassphrase("hunter2"))
	require.NoError(t, err)

	require.NoError(t, keyring.Set("accessToken", "T1-very-secret"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "T1-very-secret")

	value, ok, err := keyring.Get("accessToken")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T1-very-secret", value)
}

func TestWrongPassphraseFailsToOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	keyring, err := filekeyring.New(path, filekeyring.WithPassphrase("hunter2"))
	require.NoError(t, err)
	require.NoError(t, keyring.Set("accessToken", "T1"))

	wrong, err := filekeyring.New(path, filekeyring.WithPassphrase("letmein"))
	require.NoError(t, err)
	_, _, err = wrong.Get("accessToken")
	require.Error(t, err)
}
