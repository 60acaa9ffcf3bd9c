package model

type GetOrCreateConversationRequest struct {
	ServerID string `json:"server_id"`

	// MemberID is the other participant.
	MemberID string `json:"member_id"`
}

type GetOrCreateConversationResponse struct {
	Conversation
}
