package model

// Requests of message endpoints identify the container by exactly one of ChannelID and
// ConversationID.

type GetMessagesRequest struct {
	ChannelID      string `json:"channel_id"`
	ConversationID string `json:"conversation_id"`
	Cursor         string `json:"cursor"`
}

type GetMessagesResponse struct {
	Items []Message `json:"items"`

	// NextCursor is null when the oldest message of the container has been returned.
	NextCursor *string `json:"next_cursor"`
}

type CreateMessageRequest struct {
	ChannelID      string `json:"channel_id"`
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	FileURL        string `json:"file_url"`
}

type CreateMessageResponse struct {
	Message
}

type EditMessageRequest struct {
	ChannelID      string `json:"channel_id"`
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	Content        string `json:"content"`
}

type EditMessageResponse struct {
	Message
}

type DeleteMessageRequest struct {
	ChannelID      string `json:"channel_id"`
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
}

type DeleteMessageResponse struct {
	Message
}
