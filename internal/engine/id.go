package engine

import "github.com/google/uuid"

// newConversationID returns a random conversation ID.
func newConversationID() string {
	return uuid.NewString()
}
