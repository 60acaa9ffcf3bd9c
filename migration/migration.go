package migration

import (
	"context"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

// AutoMigrate creates or alters every table to match the entities.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.Profile{},
		&entity.Server{},
		&entity.Member{},
		&entity.Channel{},
		&entity.Conversation{},
		&entity.Message{},
	)
}
