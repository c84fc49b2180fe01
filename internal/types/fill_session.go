package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SessionStatusCollecting = "collecting"
	SessionStatusReady      = "ready"
)

// FillSession is one document-filling session: the uploaded .docx bytes, the
// placeholders detected at scan time, and the authoritative placeholder->value
// mapping. The placeholder set is frozen once the session is created.
type FillSession struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FileName     string         `gorm:"not null" json:"file_name"`
	DocxBytes    []byte         `gorm:"type:bytea;not null" json:"-"`
	Placeholders datatypes.JSON `gorm:"not null" json:"placeholders"` // ordered []string
	Contexts     datatypes.JSON `gorm:"not null" json:"contexts"`     // map[token]snippet
	Values       datatypes.JSON `gorm:"not null" json:"values"`       // map[token]value
	Insights     datatypes.JSON `json:"insights,omitempty"`           // map[token]PlaceholderInsight
	Status       string         `gorm:"not null;default:collecting" json:"status"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (FillSession) TableName() string {
	return "fill_session"
}

// PlaceholderInsight is the advisory description/example pair produced by the
// per-placeholder analysis pass. Informational only; never authoritative over
// the value mapping.
type PlaceholderInsight struct {
	Description string `json:"description"`
	Example     string `json:"example"`
}
