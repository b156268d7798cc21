package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
)

// PublishScoped publishes msg on {baseTopic}.{scope}, letting consumers follow a
// single challenge with "{baseTopic}.{id}" or all of them with "{baseTopic}.*".
func PublishScoped(bus message.Publisher, baseTopic, scope string, msg *message.Message) error {
	if scope == "" {
		return fmt.Errorf("scope cannot be empty for scoped publish")
	}
	return bus.Publish(ScopedTopic(baseTopic, scope), msg)
}

// ScopedTopic formats a topic with a scope suffix.
func ScopedTopic(baseTopic, scope string) string {
	return fmt.Sprintf("%s.%s", baseTopic, scope)
}
