package model

type Profile struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type Member struct {
	ID        string  `json:"id"`
	Role      string  `json:"role"`
	ServerID  string  `json:"server_id"`
	Profile   Profile `json:"profile"`
	CreatedAt string  `json:"created_at"`
}

type Channel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	ServerID  string `json:"server_id"`
	CreatedAt string `json:"created_at"`
}

type Server struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url"`
	InviteCode string    `json:"invite_code,omitempty"`
	ProfileID  string    `json:"profile_id"`
	Channels   []Channel `json:"channels,omitempty"`
	Members    []Member  `json:"members,omitempty"`
	CreatedAt  string    `json:"created_at"`
}

type Conversation struct {
	ID        string `json:"id"`
	MemberOne Member `json:"member_one"`
	MemberTwo Member `json:"member_two"`
}

type Message struct {
	ID          string `json:"id"`
	ContainerID string `json:"container_id"`
	Kind        string `json:"kind"`
	Content     string `json:"content"`
	FileURL     string `json:"file_url,omitempty"`
	Deleted     bool   `json:"deleted"`
	Member      Member `json:"member"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
