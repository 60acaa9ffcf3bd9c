package domain

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/pubsub"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type MessageDomain interface {
	GetList(context.Context, *model.GetMessagesRequest) (*model.GetMessagesResponse, error)
	Create(context.Context, *model.CreateMessageRequest) (*model.CreateMessageResponse, error)
	Edit(context.Context, *model.EditMessageRequest) (*model.EditMessageResponse, error)
	Delete(context.Context, *model.DeleteMessageRequest) (*model.DeleteMessageResponse, error)
}

type messageDomain struct {
	messageRepo       repository.MessageRepository
	containerResolver *common.ContainerResolver
	publisher         pubsub.Publisher
}

func NewMessageDomain(
	messageRepo repository.MessageRepository,
	containerResolver *common.ContainerResolver,
	publisher pubsub.Publisher,
) *messageDomain {
	return &messageDomain{
		messageRepo:       messageRepo,
		containerResolver: containerResolver,
		publisher:         publisher,
	}
}

func (d *messageDomain) GetList(
	ctx context.Context, req *model.GetMessagesRequest,
) (*model.GetMessagesResponse, error) {
	kind, containerID, err := common.ContainerOf(req.ChannelID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	var before *entity.Message
	var cursorID int64
	if req.Cursor != "" {
		id, err := snowflake.ParseString(req.Cursor)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid cursor")
		}
		cursorID = id.Int64()
	}

	container, err := d.containerResolver.Resolve(ctx, kind, containerID)
	if err != nil {
		// Outsiders cannot tell a container they may not read from a missing one.
		if errorx.CodeOf(err) == errorx.PermissionDenied {
			return nil, errorx.New(errorx.NotFound, "Not found %s", kind)
		}

		return nil, err
	}

	if req.Cursor != "" {
		before, err = d.messageRepo.GetByID(ctx, container.ID, cursorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found cursor message")
			}

			xcontext.Logger(ctx).Errorf("Cannot get cursor message: %v", err)
			return nil, errorx.Unknown
		}
	}

	batch := batchSize(ctx, kind)

	// One more row tells whether older history exists beyond this page.
	messages, err := d.messageRepo.GetList(ctx, container.ID, before, batch+1)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get messages: %v", err)
		return nil, errorx.Unknown
	}

	hasMore := len(messages) > batch
	if hasMore {
		messages = messages[:batch]
	}

	items := make([]model.Message, 0, len(messages))
	for i := range messages {
		items = append(items, model.ConvertMessage(&messages[i]))
	}

	resp := &model.GetMessagesResponse{Items: items}
	if hasMore {
		cursor := items[len(items)-1].ID
		resp.NextCursor = &cursor
	}

	return resp, nil
}

func (d *messageDomain) Create(
	ctx context.Context, req *model.CreateMessageRequest,
) (*model.CreateMessageResponse, error) {
	kind, containerID, err := common.ContainerOf(req.ChannelID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty content")
	}

	if req.FileURL != "" && !isAbsoluteURL(req.FileURL) {
		return nil, errorx.New(errorx.BadRequest, "Invalid file url")
	}

	container, err := d.containerResolver.Resolve(ctx, kind, containerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	message := &entity.Message{
		ID:            xcontext.SnowFlake(ctx).Generate().Int64(),
		ContainerID:   container.ID,
		ContainerKind: container.Kind,
		MemberID:      container.Member.ID,
		Content:       req.Content,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if req.FileURL != "" {
		message.FileURL.String = req.FileURL
		message.FileURL.Valid = true
	}

	if err := d.messageRepo.Create(ctx, message); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create message: %v", err)
		return nil, errorx.Unknown
	}

	message.Member = *container.Member
	clientMessage := model.ConvertMessage(message)
	d.publish(ctx, model.MessageCreatedOp, common.TopicMessageCreated(container.ID), container.ID, clientMessage)

	return &model.CreateMessageResponse{Message: clientMessage}, nil
}

func (d *messageDomain) Edit(
	ctx context.Context, req *model.EditMessageRequest,
) (*model.EditMessageResponse, error) {
	kind, containerID, err := common.ContainerOf(req.ChannelID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty content")
	}

	container, message, err := d.load(ctx, kind, containerID, req.MessageID)
	if err != nil {
		return nil, err
	}

	if !common.CanEditMessage(container.Member, message) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can edit this message")
	}

	now := time.Now()
	err = d.messageRepo.UpdateContent(ctx, container.ID, message.ID, req.Content, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found message")
		}

		xcontext.Logger(ctx).Errorf("Cannot update message: %v", err)
		return nil, errorx.Unknown
	}

	message.Content = req.Content
	message.UpdatedAt = now
	clientMessage := model.ConvertMessage(message)
	d.publish(ctx, model.MessageUpdatedOp, common.TopicMessageUpdated(container.ID), container.ID, clientMessage)

	return &model.EditMessageResponse{Message: clientMessage}, nil
}

func (d *messageDomain) Delete(
	ctx context.Context, req *model.DeleteMessageRequest,
) (*model.DeleteMessageResponse, error) {
	kind, containerID, err := common.ContainerOf(req.ChannelID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	container, message, err := d.load(ctx, kind, containerID, req.MessageID)
	if err != nil {
		return nil, err
	}

	if !common.CanDeleteMessage(container.Member, message) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	now := time.Now()
	placeholder := xcontext.Configs(ctx).Chat.DeletedPlaceholder
	err = d.messageRepo.Tombstone(ctx, container.ID, message.ID, placeholder, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found message")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete message: %v", err)
		return nil, errorx.Unknown
	}

	message.Content = placeholder
	message.FileURL.String = ""
	message.FileURL.Valid = false
	message.Deleted = true
	message.UpdatedAt = now
	clientMessage := model.ConvertMessage(message)
	d.publish(ctx, model.MessageUpdatedOp, common.TopicMessageUpdated(container.ID), container.ID, clientMessage)

	return &model.DeleteMessageResponse{Message: clientMessage}, nil
}

// load resolves the container and its active message. A deleted message is reported as not
// found.
func (d *messageDomain) load(
	ctx context.Context, kind entity.ContainerKind, containerID, messageID string,
) (*common.Container, *entity.Message, error) {
	id, err := snowflake.ParseString(messageID)
	if err != nil {
		return nil, nil, errorx.New(errorx.BadRequest, "Invalid message id")
	}

	container, err := d.containerResolver.Resolve(ctx, kind, containerID)
	if err != nil {
		return nil, nil, err
	}

	message, err := d.messageRepo.GetByID(ctx, container.ID, id.Int64())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errorx.New(errorx.NotFound, "Not found message")
		}

		xcontext.Logger(ctx).Errorf("Cannot get message: %v", err)
		return nil, nil, errorx.Unknown
	}

	if message.Deleted {
		return nil, nil, errorx.New(errorx.NotFound, "Message has been deleted")
	}

	return container, message, nil
}

// publish broadcasts the message to the topic. A failure only affects realtime clients, the
// mutation is already committed, so it is logged and not returned.
func (d *messageDomain) publish(
	ctx context.Context, op, topic, containerID string, message model.Message,
) {
	b, err := json.Marshal(message)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal %s event: %v", op, err)
		common.PromCounters[common.RealtimePublishFailure].WithLabelValues(op).Inc()
		return
	}

	err = d.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(containerID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish %s event to %s: %v", op, topic, err)
		common.PromCounters[common.RealtimePublishFailure].WithLabelValues(op).Inc()
		return
	}

	common.PromCounters[common.RealtimePublishTotal].WithLabelValues(op).Inc()
}

func batchSize(ctx context.Context, kind entity.ContainerKind) int {
	cfg := xcontext.Configs(ctx).Chat
	if kind == entity.ConversationContainer {
		return cfg.DirectMessageBatch
	}

	return cfg.ChannelMessageBatch
}

func isAbsoluteURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
