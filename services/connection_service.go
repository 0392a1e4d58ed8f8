package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/connection"
	"skillSwapAPI/internal/store"
)

type ConnectionService struct {
	connections store.Connections
	users       store.Users
}

func NewConnectionService(connections store.Connections, users store.Users) *ConnectionService {
	return &ConnectionService{connections: connections, users: users}
}

func (s *ConnectionService) RequestConnection(ctx context.Context, requesterID string, req *connection.CreateConnectionRequest) (*connection.Connection, error) {
	if req.RecipientID == requesterID {
		return nil, apperr.Validation("You cannot connect with yourself", map[string]any{
			"recipientId": "must differ from the requester",
		})
	}
	if err := requireProfile(ctx, s.users, requesterID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, req.RecipientID); err != nil {
		return nil, storeError("get user", "User", err)
	}

	c := &connection.Connection{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		RecipientID: req.RecipientID,
		Status:      connection.StatusPending,
		Message:     req.Message,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.connections.CreateConnection(ctx, c); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.Conflict("A connection with this user already exists")
		}
		return nil, storeError("create connection", "Connection", err)
	}
	return c, nil
}

// RespondToConnection lets the recipient accept or decline a pending request.
func (s *ConnectionService) RespondToConnection(ctx context.Context, userID, id string, req *connection.RespondConnectionRequest) (*connection.Connection, error) {
	c, err := s.getInvolving(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c.RecipientID != userID {
		return nil, apperr.Forbidden("Only the recipient can respond to a connection request")
	}
	if c.Status != connection.StatusPending {
		return nil, apperr.Conflict("Connection request has already been answered")
	}

	at := time.Now().UTC()
	if err := s.connections.UpdateConnectionStatus(ctx, id, req.Status, at); err != nil {
		return nil, storeError("update connection", "Connection", err)
	}
	c.Status = req.Status
	c.RespondedAt = &at
	return c, nil
}

// RemoveConnection withdraws a request or drops an accepted connection.
// Either party may do this.
func (s *ConnectionService) RemoveConnection(ctx context.Context, userID, id string) error {
	if _, err := s.getInvolving(ctx, userID, id); err != nil {
		return err
	}
	if err := s.connections.DeleteConnection(ctx, id); err != nil {
		return storeError("delete connection", "Connection", err)
	}
	return nil
}

func (s *ConnectionService) ListConnections(ctx context.Context, userID string, status connection.Status) ([]connection.Connection, error) {
	switch status {
	case "", connection.StatusPending, connection.StatusAccepted, connection.StatusDeclined:
	default:
		return nil, apperr.Validation("Request validation failed", map[string]any{
			"status": "must be one of [pending accepted declined]",
		})
	}
	conns, err := s.connections.ListConnections(ctx, userID, status)
	if err != nil {
		return nil, storeError("list connections", "Connection", err)
	}
	return conns, nil
}

func (s *ConnectionService) getInvolving(ctx context.Context, userID, id string) (*connection.Connection, error) {
	c, err := s.connections.GetConnection(ctx, id)
	if err != nil {
		return nil, storeError("get connection", "Connection", err)
	}
	if !c.Involves(userID) {
		return nil, apperr.Forbidden("You are not part of this connection")
	}
	return c, nil
}
