package model

// Role tags a Turn's author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message unit in a conversation.
type Turn struct {
	Role    Role
	Content string
}

// SystemTurn builds the pinned first turn of a conversation.
func SystemTurn(prompt string) Turn {
	return Turn{Role: RoleSystem, Content: prompt}
}
