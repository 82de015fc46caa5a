package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForDriver(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			migrationFS, err := ForDriver(driver)
			require.NoError(t, err)

			names, err := fs.Glob(migrationFS, "*.up.sql")
			require.NoError(t, err)
			assert.Equal(t, []string{
				"000001_create_users_table.up.sql",
				"000002_create_access_requests_table.up.sql",
				"000003_create_audit_logs_table.up.sql",
			}, names)

			downs, err := fs.Glob(migrationFS, "*.down.sql")
			require.NoError(t, err)
			assert.Len(t, downs, len(names))
		})
	}
}

func TestForDriver_Unsupported(t *testing.T) {
	_, err := ForDriver("sqlite")
	assert.Error(t, err)
}
