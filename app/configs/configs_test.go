package configs

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SITE_TITLE", "")
	t.Setenv("ADMIN_LANGUAGE", "")

	env := LoadEnv()
	assert.Equal(t, "mysql", env.DBDriver)
	assert.Equal(t, DefaultSiteConfig, env.Site)
	assert.Equal(t, "en", env.AdminLanguage)
	assert.Equal(t, "product/default.png", env.DefaultImage)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SITE_HEADER", "Shop Admin")
	t.Setenv("DB_MAX_RETRIES", "nope")

	env := LoadEnv()
	assert.Equal(t, "sqlite", env.DBDriver)
	assert.Equal(t, "Shop Admin", env.Site.SiteHeader)
	assert.Equal(t, 10, env.DBMaxRetries)
}

func TestDialector(t *testing.T) {
	_, dsn, err := Dialector(ENV{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBName: "n"})
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(h:3306)/n?charset=utf8mb4&parseTime=True&loc=UTC", dsn)

	_, dsn, err = Dialector(ENV{DBDriver: "postgres", DBHost: "h", DBName: "n", DBPort: "6543"})
	require.NoError(t, err)
	assert.Contains(t, dsn, "port=6543")

	_, _, err = Dialector(ENV{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestOpenConnectionSQLite(t *testing.T) {
	env := ENV{DBDriver: "sqlite", DBName: filepath.Join(t.TempDir(), "catalog.db"), DBMaxRetries: 1, APP_ENV: "test"}
	db, err := OpenConnection(env)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "u:****@tcp", redact("u:secret@tcp", "secret"))
	assert.Equal(t, "u:@tcp", redact("u:@tcp", ""))
}

func TestSessionKeys(t *testing.T) {
	_, err := LoadSessionKeysFromEnv(ENV{})
	assert.Error(t, err)

	_, err = LoadSessionKeysFromEnv(ENV{
		AppAuthKey: base64.URLEncoding.EncodeToString(make([]byte, 64)),
		AppEncKey:  base64.URLEncoding.EncodeToString(make([]byte, 10)),
	})
	assert.ErrorContains(t, err, "APP_ENC_KEY has invalid length")

	keys, err := SessionKeysOrEphemeral(ENV{APP_ENV: "development"})
	require.NoError(t, err)
	assert.Len(t, keys.AuthKey, 64)
	assert.Len(t, keys.EncKey, 32)

	_, err = SessionKeysOrEphemeral(ENV{APP_ENV: "production"})
	assert.Error(t, err)
}

func TestGenerateAndPrintSessionKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.new_keys")
	require.NoError(t, GenerateAndPrintSessionKeys(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	vals, err := godotenv.Unmarshal(string(raw))
	require.NoError(t, err)

	keys, err := LoadSessionKeysFromEnv(ENV{AppAuthKey: vals["APP_AUTH_KEY"], AppEncKey: vals["APP_ENC_KEY"]})
	require.NoError(t, err)
	assert.Len(t, keys.AuthKey, 64)
	assert.True(t, strings.HasPrefix(string(raw), "APP_AUTH_KEY="))
}
