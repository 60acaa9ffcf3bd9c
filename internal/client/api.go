package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/pkg/api"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/valyala/fasthttp"
)

// MessageFetcher loads one page of a container, starting after cursor.
type MessageFetcher interface {
	GetMessages(ctx context.Context, ref model.ContainerRef, cursor string) (*model.GetMessagesResponse, error)
}

// APIClient calls the message endpoints of a harmony server.
type APIClient struct {
	generator   api.Generator
	accessToken string
}

func NewAPIClient(httpClient *fasthttp.Client, accessToken string, domains ...string) *APIClient {
	return &APIClient{
		generator:   api.NewGenerator(httpClient, domains...),
		accessToken: accessToken,
	}
}

type envelope struct {
	Code  int64           `json:"code"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

func (c *APIClient) GetMessages(
	ctx context.Context, ref model.ContainerRef, cursor string,
) (*model.GetMessagesResponse, error) {
	path, query, err := messagePath(ref)
	if err != nil {
		return nil, err
	}

	if cursor != "" {
		query["cursor"] = cursor
	}

	resp, err := c.generator.New(path).Query(query).GET(ctx, c.auth())
	if err != nil {
		return nil, err
	}

	result := &model.GetMessagesResponse{}
	if err := decode(resp, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *APIClient) CreateMessage(
	ctx context.Context, ref model.ContainerRef, content, fileURL string,
) (*model.Message, error) {
	path, query, err := messagePath(ref)
	if err != nil {
		return nil, err
	}

	resp, err := c.generator.New(path).
		Query(query).
		Body(api.JSON{Value: map[string]string{"content": content, "file_url": fileURL}}).
		POST(ctx, c.auth())
	if err != nil {
		return nil, err
	}

	message := &model.Message{}
	if err := decode(resp, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (c *APIClient) EditMessage(
	ctx context.Context, ref model.ContainerRef, messageID, content string,
) (*model.Message, error) {
	path, query, err := messagePath(ref)
	if err != nil {
		return nil, err
	}

	resp, err := c.generator.New("%s/%s", path, messageID).
		Query(query).
		Body(api.JSON{Value: map[string]string{"content": content}}).
		PATCH(ctx, c.auth())
	if err != nil {
		return nil, err
	}

	message := &model.Message{}
	if err := decode(resp, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (c *APIClient) DeleteMessage(
	ctx context.Context, ref model.ContainerRef, messageID string,
) (*model.Message, error) {
	path, query, err := messagePath(ref)
	if err != nil {
		return nil, err
	}

	resp, err := c.generator.New("%s/%s", path, messageID).Query(query).DELETE(ctx, c.auth())
	if err != nil {
		return nil, err
	}

	message := &model.Message{}
	if err := decode(resp, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (c *APIClient) auth() api.Opt {
	return api.OAuth2("Bearer", c.accessToken)
}

func messagePath(ref model.ContainerRef) (string, api.Parameter, error) {
	switch ref.Kind {
	case string(entity.ChannelContainer):
		return "/messages", api.Parameter{"channel_id": ref.ID}, nil
	case string(entity.ConversationContainer):
		return "/direct-messages", api.Parameter{"conversation_id": ref.ID}, nil
	default:
		return "", nil, fmt.Errorf("invalid container kind %q", ref.Kind)
	}
}

// decode unwraps the response envelope. A non-zero code is returned as an errorx.Error.
func decode(resp *api.Response, v any) error {
	var env envelope
	if err := resp.Decode(&env); err != nil {
		return fmt.Errorf("invalid response (status %d): %w", resp.Code, err)
	}

	if env.Code != 0 {
		return errorx.New(errorx.Code(env.Code), env.Error)
	}

	return json.Unmarshal(env.Data, v)
}
