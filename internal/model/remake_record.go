package model

import "time"

// RemakeRecord is the persisted form of one remake log entry. The log is
// write-once: records are never edited or deleted, and they deliberately
// outlive the ticket they reference (TicketID is a back-reference, not a
// foreign key) so remake history survives ticket archival.
type RemakeRecord struct {
	ID         string    `gorm:"primaryKey;size:36"`
	TicketID   string    `gorm:"size:36;index;not null"`
	ItemID     string    `gorm:"size:36;not null"`
	ItemName   string    `gorm:"size:128;index;not null"`
	Reason     string    `gorm:"size:32;not null"`
	Station    string    `gorm:"size:32;index;not null"`
	ObservedAt time.Time `gorm:"not null;index"`
}
