package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/boxmaster/config"
	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/questx-lab/boxmaster/pkg/logger"
	"github.com/questx-lab/boxmaster/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Auth.TokenSecret = "secret"
	cfg.Auth.Expiration = config.Duration{Duration: time.Minute}
	cfg.Master.Address = Master
	cfg.Master.Admin = Admin
	cfg.Master.FeeTo = FeeTo
	cfg.Master.BaseToken = BaseToken
	cfg.Master.SecondaryToken = SecondaryToken
	cfg.Master.RandomnessOracle = Oracle
	return cfg
}

// MockContext returns a context with a fresh in-memory database whose tables
// are migrated.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to ":memory:" opens its own database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewNopLogger())
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}
