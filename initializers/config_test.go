package initializers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("HTTPS_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("ALLOW_ADMIN_SIGNUP", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, "443", cfg.HTTPSPort)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.AllowAdminSignup)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTPS_PORT", "8443")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200, https://admin.example ,")
	t.Setenv("ALLOW_ADMIN_SIGNUP", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8443", cfg.HTTPSPort)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, []string{"http://localhost:4200", "https://admin.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.AllowAdminSignup)
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialector(DBConfig{Driver: driver, Name: "svd_mebel"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	_, err := Dialector(DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSyncDatabaseOnSQLite(t *testing.T) {
	db, err := ConnectToDB(DBConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, SyncDatabase(db))
	assert.True(t, db.Migrator().HasTable("cart"))
	assert.True(t, db.Migrator().HasTable("order_items"))
}
