package history

import (
	"context"
	"errors"
	"fmt"

	"rpverse/internal/app/ports"
	"rpverse/internal/domain/rp"
)

var ErrInvalidRequest = errors.New("invalid history request")

const defaultLimit = 20

type Request struct {
	UserID int64 `json:"user_id"`
	Limit  int   `json:"limit,omitempty"`
}

type Response struct {
	UserID int64            `json:"user_id"`
	Events []rp.DomainEvent `json:"events"`
}

// UseCase serves the recent action and recovery events recorded for a user,
// newest first. The group statistics layer reads the same feed.
type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.UserID == 0 {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	events, err := u.Events.ListByUserID(ctx, req.UserID, limit)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return Response{UserID: req.UserID, Events: []rp.DomainEvent{}}, nil
		}
		return Response{}, fmt.Errorf("list events for %d: %w", req.UserID, err)
	}
	return Response{UserID: req.UserID, Events: events}, nil
}
