package model

import "time"

// TicketArchive is the durable record of a completed ticket (cold table).
// The hot ticket set lives in memory; completed tickets are written here by
// the archive workers so history survives restarts.
type TicketArchive struct {
	ID              string `gorm:"primaryKey;size:36"`
	OrderNumber     string `gorm:"size:32;index;not null"`
	Channel         string `gorm:"size:32;not null"`
	FulfillmentType string `gorm:"size:32"`
	TableNumber     string `gorm:"size:16"`

	CreatedAt   time.Time `gorm:"not null;index"`
	PromisedAt  time.Time `gorm:"not null"`
	StartedAt   *time.Time
	ReadyAt     *time.Time
	CompletedAt *time.Time `gorm:"index"`

	AllergenNotes string `gorm:"size:512"`
	CustomerNotes string `gorm:"size:512"`
	Status        string `gorm:"size:16;not null"`
	RecallCount   int    `gorm:"not null;default:0"`

	// Associations
	Items    []ArchivedItem  `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	Timeline []ArchivedEvent `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
}

// ArchivedItem is one line of an archived ticket.
type ArchivedItem struct {
	ID           string `gorm:"primaryKey;size:36"`
	TicketID     string `gorm:"size:36;index;not null"`
	Name         string `gorm:"size:128;not null"`
	Station      string `gorm:"size:32;index;not null"`
	Modifiers    string `gorm:"size:512"` // newline-joined display strings
	Notes        string `gorm:"size:512"`
	Quantity     int    `gorm:"not null"`
	IsRemake     bool   `gorm:"not null"`
	RemakeReason string `gorm:"size:32"`
}

// ArchivedEvent is one timeline entry of an archived ticket.
type ArchivedEvent struct {
	ID          string    `gorm:"primaryKey;size:36"`
	TicketID    string    `gorm:"size:36;index;not null"`
	Action      string    `gorm:"size:16;not null"`
	Timestamp   time.Time `gorm:"not null"`
	PerformedBy string    `gorm:"size:64;not null"`
	Note        string    `gorm:"size:512"`
}
