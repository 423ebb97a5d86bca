package model

import "fmt"

// Scope carries the identity of the user a request acts on behalf of.
type Scope struct {
	UserID   string
	Username string
}

// TelegramScope builds a Scope from a Telegram user id.
func TelegramScope(userID int64, username string) Scope {
	return Scope{
		UserID:   fmt.Sprintf("telegram_%d", userID),
		Username: username,
	}
}
