// Package migrations embeds the SQL schema for each supported database driver.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed postgresql/*.sql mysql/*.sql
var files embed.FS

// ForDriver returns the migration files for a database driver ("postgres" or "mysql").
func ForDriver(driver string) (fs.FS, error) {
	var dir string
	switch driver {
	case "postgres":
		dir = "postgresql"
	case "mysql":
		dir = "mysql"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return fs.Sub(files, dir)
}
