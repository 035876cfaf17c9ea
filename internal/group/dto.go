package group

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description,omitempty" validate:"max=1000"`
	PhotoURL    *string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// UpdateGroupRequest represents the request to update a group
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	PhotoURL    *string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// JoinGroupRequest represents the request to join a group by invite code
type JoinGroupRequest struct {
	InviteCode string `json:"invite_code" validate:"required,len=8"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	InviteCode  string            `json:"invite_code"`
	PhotoURL    *string           `json:"photo_url,omitempty"`
	CreatedBy   int64             `json:"created_by"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   string            `json:"created_at"`
	Members     []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents the response for a group member
type MemberResponse struct {
	UserID        int64      `json:"user_id"`
	Username      string     `json:"username,omitempty"`
	Email         string     `json:"email,omitempty"`
	Role          MemberRole `json:"role"`
	ShareLocation bool       `json:"share_location"`
	JoinedAt      string     `json:"joined_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO. Members may be
// nil when the caller does not need the member list included.
func (g *Group) ToResponse(members []*GroupMember) *GroupResponse {
	resp := &GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		InviteCode:  g.InviteCode,
		PhotoURL:    g.PhotoURL,
		CreatedBy:   g.CreatedBy,
		IsActive:    g.IsActive,
		CreatedAt:   g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, m.ToResponse())
	}
	return resp
}

// ToResponse converts a GroupMember model to a MemberResponse DTO
func (m *GroupMember) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:        m.UserID,
		Username:      m.Username,
		Email:         m.Email,
		Role:          m.Role,
		ShareLocation: m.ShareLocation,
		JoinedAt:      m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}
