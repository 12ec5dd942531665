package domain

// ChatMessage is a single turn in an assistant conversation. Role is either
// "user" or "assistant".
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}
