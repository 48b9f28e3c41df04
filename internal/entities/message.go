package entities

// Message is a single inbound chat message. It lives for one handling pass
// and is never persisted.
type Message struct {
	ChatID    int64
	UserID    int64
	FirstName string
	Text      string
}
