package model

type CreateChannelRequest struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
}

type CreateChannelResponse struct {
	Channel
}

type UpdateChannelRequest struct {
	ServerID  string `json:"server_id"`
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}

type UpdateChannelResponse struct {
	Channel
}

type DeleteChannelRequest struct {
	ServerID  string `json:"server_id"`
	ChannelID string `json:"channel_id"`
}

type DeleteChannelResponse struct{}
