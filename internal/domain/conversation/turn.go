// Package conversation holds chat turns and per-user short-term history.
package conversation

// Chat roles as they appear on the wire and in completion requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
