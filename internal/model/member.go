package model

type UpdateMemberRoleRequest struct {
	ServerID string `json:"server_id"`
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
}

type UpdateMemberRoleResponse struct {
	Member
}

type KickMemberRequest struct {
	ServerID string `json:"server_id"`
	MemberID string `json:"member_id"`
}

type KickMemberResponse struct{}
