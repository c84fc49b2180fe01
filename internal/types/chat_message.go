package types

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one role-tagged turn in a session's conversation log. The log
// is append-only and doubles as the prompt history replayed to the model.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"index;not null" json:"session_id"`
	Seq       int64     `gorm:"not null" json:"seq"`
	Role      string    `gorm:"not null" json:"role"` // "user" | "assistant"
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_message"
}
