package remake

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kitchen-ops-backend/internal/model"
	"kitchen-ops-backend/internal/ticket"
)

// Entry is one remake log record. Entries are independent of the ticket they
// came from; TicketID is a back-reference so remake history survives ticket
// archival.
type Entry struct {
	ID        uuid.UUID           `json:"id"`
	TicketID  uuid.UUID           `json:"ticket_id"`
	ItemID    uuid.UUID           `json:"item_id"`
	ItemName  string              `json:"item_name"`
	Reason    ticket.RemakeReason `json:"reason"`
	Station   string              `json:"station"`
	Timestamp time.Time           `json:"timestamp"`
}

// Log is the write-once remake audit log. Appends go to memory and are
// written through to the database; the in-memory slice is what the mistake
// detector mines each cycle.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	db      *gorm.DB // may be nil in tests
}

// NewLog creates a remake log backed by the given database. A nil db keeps
// the log memory-only.
func NewLog(db *gorm.DB) *Log {
	return &Log{db: db}
}

// Record appends unconditionally. A failed database write is logged but does
// not reject the entry: the in-memory log is the detector's source and the
// write-once guarantee matters more than durability of any single row.
func (l *Log) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()

	if l.db == nil {
		return nil
	}

	rec := model.RemakeRecord{
		ID:         e.ID.String(),
		TicketID:   e.TicketID.String(),
		ItemID:     e.ItemID.String(),
		ItemName:   e.ItemName,
		Reason:     string(e.Reason),
		Station:    e.Station,
		ObservedAt: e.Timestamp,
	}
	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		log.Printf("Error persisting remake record %s: %v", e.ID, err)
		return fmt.Errorf("persist remake record: %w", err)
	}
	return nil
}

// Warm loads persisted entries observed since the given time back into
// memory, so pattern mining keeps its trailing window across restarts.
func (l *Log) Warm(ctx context.Context, since time.Time) error {
	if l.db == nil {
		return nil
	}

	var records []model.RemakeRecord
	if err := l.db.WithContext(ctx).
		Where("observed_at >= ?", since).
		Order("observed_at ASC").
		Find(&records).Error; err != nil {
		return fmt.Errorf("warm remake log: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			log.Printf("Warning: skipping remake record with bad id %q: %v", r.ID, err)
			continue
		}
		ticketID, _ := uuid.Parse(r.TicketID)
		itemID, _ := uuid.Parse(r.ItemID)
		entries = append(entries, Entry{
			ID:        id,
			TicketID:  ticketID,
			ItemID:    itemID,
			ItemName:  r.ItemName,
			Reason:    ticket.RemakeReason(r.Reason),
			Station:   r.Station,
			Timestamp: r.ObservedAt,
		})
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()

	log.Printf("Remake log warmed with %d entries", len(entries))
	return nil
}

// Entries returns a copy of the full in-memory log.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry(nil), l.entries...)
}
