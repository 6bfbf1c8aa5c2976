package xcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/boxmaster/config"
	"github.com/questx-lab/boxmaster/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	requestUserIDKey struct{}
	snowflakeKey     struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg := ctx.Value(configsKey{})
	if cfg == nil {
		return config.Configs{}
	}

	return cfg.(config.Configs)
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	l := ctx.Value(loggerKey{})
	if l == nil {
		return logger.NewNopLogger()
	}

	return l.(logger.Logger)
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

// RequestUserID returns the address of the account which sent the request.
func RequestUserID(ctx context.Context) string {
	id := ctx.Value(requestUserIDKey{})
	if id == nil {
		return ""
	}

	return id.(string)
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	node := ctx.Value(snowflakeKey{})
	if node == nil {
		return nil
	}

	return node.(*snowflake.Node)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction of ctx if any, otherwise the database.
func DB(ctx context.Context) *gorm.DB {
	if holder, ok := ctx.Value(dbTransactionKey{}).(*txHolder); ok && holder.tx != nil {
		return holder.tx.WithContext(ctx)
	}

	db := ctx.Value(dbKey{})
	if db == nil {
		return nil
	}

	return db.(*gorm.DB).WithContext(ctx)
}
