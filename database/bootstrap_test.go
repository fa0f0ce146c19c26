package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteMigratesRelations(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "care.db"))
	require.NoError(t, err)

	for _, table := range []string{"plants", "watering_history", "health_issues", "reminders", "transcript_entries"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestDSNAppendsPragmas(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dsn("a.db"))
	assert.Equal(t, "a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dsn("a.db?mode=rwc"))
}
