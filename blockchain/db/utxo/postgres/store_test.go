package postgres

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	for _, k := range []string{"DB_USER", "DB_PASS", "DB_HOST", "DB_PORT", "DB_NAME", "DB_SSLMODE"} {
		k := k
		old, had := os.LookupEnv(k)
		require.NoError(t, os.Unsetenv(k))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, old)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}

	path := filepath.Join(t.TempDir(), "db.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_USER=gjh\nDB_PASS=secret\nDB_PORT=6432\n"), 0600))

	opts, err := loadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "gjh", opts.User)
	assert.Equal(t, 6432, opts.Port)
	assert.Equal(t, DatabaseName, opts.Name)
	assert.Equal(t, "user=gjh password=secret dbname=utxo sslmode=disable host=127.0.0.1 port=6432", opts.dsn())

	_, err = loadOptions("")
	require.Error(t, err)

	_, err = loadOptions(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}
