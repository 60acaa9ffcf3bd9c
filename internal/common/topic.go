package common

import "fmt"

// TopicMessageCreated is the realtime topic of new messages of a container.
func TopicMessageCreated(containerID string) string {
	return fmt.Sprintf("%s:messages", containerID)
}

// TopicMessageUpdated is the realtime topic of edited and deleted messages of a container.
func TopicMessageUpdated(containerID string) string {
	return fmt.Sprintf("%s:messages:update", containerID)
}
