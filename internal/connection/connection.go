package connection

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

type Connection struct {
	ID          string     `json:"id"`
	RequesterID string     `json:"requesterId"`
	RecipientID string     `json:"recipientId"`
	Status      Status     `json:"status"`
	Message     string     `json:"message,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// Involves reports whether userID is either side of the connection.
func (c *Connection) Involves(userID string) bool {
	return c.RequesterID == userID || c.RecipientID == userID
}

type CreateConnectionRequest struct {
	RecipientID string `json:"recipientId" validate:"required,max=255"`
	Message     string `json:"message" validate:"max=500"`
}

type RespondConnectionRequest struct {
	Status Status `json:"status" validate:"required,oneof=accepted declined"`
}
