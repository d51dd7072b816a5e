package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localnerve/growthdb/internal/config"
	"github.com/localnerve/growthdb/internal/database"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/testhelpers"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, database.ParseLogLevel("SILENT"))
	assert.Equal(t, logger.Info, database.ParseLogLevel("info"))
	assert.Equal(t, logger.Warn, database.ParseLogLevel("verbose"))
}

func TestDialectorUnsupported(t *testing.T) {
	_, err := database.Dialector(&config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestUniqueConnectionPairTranslated(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	conn := models.Connection{ConnectionID: "c1", FromID: "a", ToID: "b", Status: models.ConnectionPending}
	require.NoError(t, db.Create(&conn).Error)

	dup := models.Connection{ConnectionID: "c2", FromID: "a", ToID: "b", Status: models.ConnectionPending}
	err := db.Create(&dup).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "expected a translated duplicate key error, got %v", err)
}

// Runs the migrations against real server databases in containers.
func TestMigrateServerDatabases(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	if !testhelpers.DockerAvailable(ctx) {
		t.Skip("docker is not available")
	}

	for _, dbType := range []string{"postgres", "mariadb"} {
		t.Run(dbType, func(t *testing.T) {
			startCtx, cancel := context.WithTimeout(ctx, 3*time.Minute)
			defer cancel()

			stack, err := testhelpers.CreateStack(startCtx, t, testhelpers.StackOptions{DBType: dbType})
			require.NoError(t, err)
			t.Cleanup(func() { stack.Terminate(t) })

			cfg := stack.Config
			db, err := database.Connect(&cfg, zerolog.Nop())
			require.NoError(t, err)
			defer database.Close(db)

			require.NoError(t, database.AutoMigrate(db))

			conn := models.Connection{ConnectionID: "c1", FromID: "a", ToID: "b", Status: models.ConnectionPending}
			require.NoError(t, db.Create(&conn).Error)
			dup := models.Connection{ConnectionID: "c2", FromID: "a", ToID: "b", Status: models.ConnectionPending}
			assert.ErrorIs(t, db.Create(&dup).Error, gorm.ErrDuplicatedKey)

			rec := models.FluidRecord{RecordID: "r1", ParentID: "a", ChildName: "Kit", FluidType: "milk", Amount: 90, Unit: "ml", Time: time.Now().UTC()}
			require.NoError(t, db.Create(&rec).Error)
			var count int64
			require.NoError(t, db.Model(&models.FluidRecord{}).Where("taken_at <= ?", time.Now().UTC().Add(time.Minute)).Count(&count).Error)
			assert.Equal(t, int64(1), count)
		})
	}
}
