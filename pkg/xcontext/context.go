package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/harmony/config"
	"github.com/questx-lab/harmony/pkg/authenticator"
	"github.com/questx-lab/harmony/pkg/logger"
	"github.com/questx-lab/harmony/pkg/ws"
	"gorm.io/gorm"
)

type (
	configsKey     struct{}
	loggerKey      struct{}
	dbKey          struct{}
	identityKey    struct{}
	httpRequestKey struct{}
	httpWriterKey  struct{}
	responseKey    struct{}
	errorKey       struct{}
	startTimeKey   struct{}
	wsClientKey    struct{}
	snowflakeKey   struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return getValue[config.Configs](ctx, configsKey{})
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	if l := getValue[logger.Logger](ctx, loggerKey{}); l != nil {
		return l
	}

	return logger.NewNopLogger()
}

// WithDB replaces the database handle. Inside a transaction callback, pass the transaction so
// that repositories called with the returned context join it.
func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

func DB(ctx context.Context) *gorm.DB {
	db := getValue[*gorm.DB](ctx, dbKey{})
	if db == nil {
		return nil
	}

	return db.WithContext(ctx)
}

// WithIdentity stores the verified caller of the request.
func WithIdentity(ctx context.Context, identity authenticator.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func Identity(ctx context.Context) authenticator.Identity {
	return getValue[authenticator.Identity](ctx, identityKey{})
}

// WithRequestUserID is a shortcut of WithIdentity when only the user id is known.
func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return WithIdentity(ctx, authenticator.Identity{UserID: userID})
}

// RequestUserID returns the user id of the caller, or an empty string if the request is not
// authenticated.
func RequestUserID(ctx context.Context) string {
	return Identity(ctx).UserID
}

func WithHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

func HTTPRequest(ctx context.Context) *http.Request {
	return getValue[*http.Request](ctx, httpRequestKey{})
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	return getValue[http.ResponseWriter](ctx, httpWriterKey{})
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	return getValue[error](ctx, errorKey{})
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	return getValue[time.Time](ctx, startTimeKey{})
}

func WithWSClient(ctx context.Context, client *ws.Client) context.Context {
	return context.WithValue(ctx, wsClientKey{}, client)
}

func WSClient(ctx context.Context) *ws.Client {
	return getValue[*ws.Client](ctx, wsClientKey{})
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	return getValue[*snowflake.Node](ctx, snowflakeKey{})
}

func getValue[T any](ctx context.Context, key any) T {
	v, ok := ctx.Value(key).(T)
	if !ok {
		var zero T
		return zero
	}

	return v
}
