// Package queue defines message payloads exchanged over the message broker.
package queue

// ContentQueueName is the durable queue carrying tour content changes.
const ContentQueueName = "tour.content.changed"

// ContentChangedEvent is published after an admin successfully creates,
// updates or deletes a poster or nav link. It carries enough information
// for downstream consumers to audit or trigger cache refreshes without
// querying the primary database.
type ContentChangedEvent struct {
	Entity     string `json:"entity"`      // "poster" | "nav_link"
	Action     string `json:"action"`      // "created" | "updated" | "deleted"
	ID         uint64 `json:"id"`          // row id of the affected entity
	SceneID    string `json:"scene_id"`    // scene the entity belongs to
	ActorID    uint64 `json:"actor_id"`    // admin user who made the change
	OccurredAt string `json:"occurred_at"` // RFC3339 UTC timestamp
}
