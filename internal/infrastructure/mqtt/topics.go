package mqtt

import "strings"

// DefaultTopicPrefix is used when mqtt.topic_prefix is empty.
const DefaultTopicPrefix = "movieapi"

// Topics builds topic names under a common prefix.
//
//	topics := mqtt.NewTopics("movieapi")
//	topics.Event("user", "deleted") // "movieapi/events/user/deleted"
type Topics struct {
	prefix string
}

// NewTopics returns a topic builder for prefix. Surrounding slashes are
// trimmed; an empty prefix falls back to DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Event returns the topic for an entity event.
//
// Example: movieapi/events/favorite/added
func (t Topics) Event(entity, action string) string {
	return t.prefix + "/events/" + entity + "/" + action
}

// SystemStatus returns the retained online/offline status topic.
//
// Example: movieapi/system/status
func (t Topics) SystemStatus() string {
	return t.prefix + "/system/status"
}
