package models

import "time"

type AuditLog struct {
	ID string `json:"id"`

	Actor    string `json:"actor"`
	UserID   *int64 `json:"userId,omitempty"`
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	EntityID string `json:"entityId,omitempty"`
	Metadata string `json:"metadata,omitempty"`
	Instance string `json:"instance,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
