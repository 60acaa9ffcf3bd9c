package testutil

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

// SampleMessage creates a new message in database, written by the admin member in the general
// channel unless init overwrites it with non-zero fields.
//
// This function returns the sample message.
func SampleMessage(ctx context.Context, init *entity.Message) (entity.Message, error) {
	now := time.Now()
	sample := &entity.Message{
		ID:            xcontext.SnowFlake(ctx).Generate().Int64(),
		ContainerID:   GeneralChannel.ID,
		ContainerKind: entity.ChannelContainer,
		MemberID:      AdminMember.ID,
		Content:       "sample message",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewMessageRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

// SampleMessages creates n messages in the container, one second apart, the i-th (1-based)
// having content "message i". The result is ordered oldest first.
func SampleMessages(
	ctx context.Context, containerID string, kind entity.ContainerKind, memberID string, n int,
) ([]entity.Message, error) {
	base := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	result := make([]entity.Message, 0, n)
	for i := 1; i <= n; i++ {
		createdAt := base.Add(time.Duration(i) * time.Second)
		msg, err := SampleMessage(ctx, &entity.Message{
			ContainerID:   containerID,
			ContainerKind: kind,
			MemberID:      memberID,
			Content:       fmt.Sprintf("message %d", i),
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		})
		if err != nil {
			return nil, err
		}

		result = append(result, msg)
	}

	return result, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
