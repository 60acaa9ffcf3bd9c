package model

import "encoding/json"

// Operations carried on the realtime websocket.
const (
	// Server to client.
	MessageCreatedOp = "message_created"
	MessageUpdatedOp = "message_updated"
	SubscribedOp     = "subscribed"
	UnsubscribedOp   = "unsubscribed"
	PongOp           = "pong"
	ErrorOp          = "error"

	// Client to server.
	SubscribeOp   = "subscribe"
	UnsubscribeOp = "unsubscribe"
	PingOp        = "ping"
)

// ContainerRef identifies a message container. Kind is "channel" or "conversation".
type ContainerRef struct {
	Kind string `json:"kind"`
	ID   string `json:"container_id"`
}

// Directive is a frame sent by a realtime client.
type Directive struct {
	Op   string          `json:"o"`
	Data json.RawMessage `json:"d,omitempty"`
}

// ServerFrame is a frame sent to a realtime client. Seq increases by one for every frame of a
// connection.
type ServerFrame struct {
	Op    string          `json:"o"`
	Topic string          `json:"t,omitempty"`
	Seq   uint64          `json:"s"`
	Data  json.RawMessage `json:"d,omitempty"`
}

type ErrorFrameData struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Ref     ContainerRef `json:"ref"`
}

// MessageEvent is a decoded message_created or message_updated frame.
type MessageEvent struct {
	Op      string
	Topic   string
	Message Message
}
