// Package database provides shared test database helpers.
package database

import (
	"testing"

	"github.com/edgemesh/ruleengine/pkg/database"
	"github.com/edgemesh/ruleengine/test/util"
)

// NewTestClient creates a test database client.
// In CI (when CI_DATABASE_URL is set): connects to external PostgreSQL service container.
// In local dev: spins up a testcontainer with PostgreSQL.
// The container/connection and test schema are cleaned up when the test ends.
func NewTestClient(t *testing.T) *database.Client {
	db := util.SetupTestDatabase(t)
	return database.NewClientFromDB(db)
}
