package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// Topics for the events published by the application.
const (
	TopicMatchRecorded = "match-recorded"
)

// MatchRecordedEvent is published after a match result has been committed.
// Consumers look the match up themselves, the event only carries the ID.
type MatchRecordedEvent struct {
	MatchID string `msgpack:"match_id"`
}
