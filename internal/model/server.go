package model

type CreateServerRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type CreateServerResponse struct {
	Server
}

type GetServerRequest struct {
	ServerID string `json:"server_id"`
}

type GetServerResponse struct {
	Server
}

type GetMyServersRequest struct{}

type GetMyServersResponse struct {
	Servers []Server `json:"servers"`
}

type UpdateServerRequest struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type UpdateServerResponse struct {
	Server
}

type DeleteServerRequest struct {
	ServerID string `json:"server_id"`
}

type DeleteServerResponse struct{}

type RegenerateInviteCodeRequest struct {
	ServerID string `json:"server_id"`
}

type RegenerateInviteCodeResponse struct {
	Server
}

type JoinServerRequest struct {
	InviteCode string `json:"invite_code"`
}

type JoinServerResponse struct {
	Server
}

type LeaveServerRequest struct {
	ServerID string `json:"server_id"`
}

type LeaveServerResponse struct{}
