package realtime

import "github.com/google/uuid"

type SSEEvent string

const (
	SSEEventRoadmapCreated         SSEEvent = "RoadmapCreated"
	SSEEventRoadmapProgressUpdated SSEEvent = "RoadmapProgressUpdated"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// UserChannel is the channel every stream of a user is subscribed to.
func UserChannel(userID uuid.UUID) string {
	return userID.String()
}
