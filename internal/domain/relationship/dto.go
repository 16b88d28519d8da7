package relationship

import (
	"time"

	"github.com/google/uuid"
)

// SendRequestInput for POST /friends/requests
type SendRequestInput struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
}

// FriendshipResponse presents a friendship record from the viewer's side.
type FriendshipResponse struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"` // the counterpart
	Status    FriendshipStatus `json:"status"`
	Outgoing  bool             `json:"outgoing"` // viewer initiated the request
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

// FriendshipFromEntity converts an entity to a viewer-relative response
func FriendshipFromEntity(f *Friendship, viewer uuid.UUID) *FriendshipResponse {
	return &FriendshipResponse{
		ID:        f.ID,
		UserID:    f.Counterpart(viewer),
		Status:    f.Status,
		Outgoing:  f.UserA == viewer,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
		UpdatedAt: f.UpdatedAt.Format(time.RFC3339),
	}
}

// FriendshipsFromEntities converts a list of records
func FriendshipsFromEntities(fs []*Friendship, viewer uuid.UUID) []*FriendshipResponse {
	out := make([]*FriendshipResponse, 0, len(fs))
	for _, f := range fs {
		out = append(out, FriendshipFromEntity(f, viewer))
	}
	return out
}

// BlockedUserResponse represents one entry of the viewer's blocked list
type BlockedUserResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	BlockedAt string    `json:"blocked_at"`
}

// BlockFromEntity converts a block record to a response
func BlockFromEntity(b *Block) *BlockedUserResponse {
	return &BlockedUserResponse{
		ID:        b.ID,
		UserID:    b.BlockedID,
		BlockedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

// RelationResponse tells the UI which action button to render for a target
// user: the derived relation plus whether a block exists in either direction.
type RelationResponse struct {
	Status  Relation `json:"status"`
	Blocked bool     `json:"blocked"`
}
