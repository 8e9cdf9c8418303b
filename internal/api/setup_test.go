package api

import (
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/skyview-tv/skyview/internal/db"
)

// setupTestDB creates a migrated test database
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	repos := db.NewRepositories(database)
	cleanup := func() {
		_ = database.Close()
	}
	return database, repos, cleanup
}

// newTestRouter builds a bare gin router with an /api group
func newTestRouter() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, router.Group("/api")
}

func strPtr(s string) *string {
	return &s
}
