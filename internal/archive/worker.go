package archive

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	"kitchen-ops-backend/internal/model"
	"kitchen-ops-backend/internal/ticket"
)

// WorkerPool persists completed tickets to the durable history tables off
// the operator's critical path. The lifecycle controller dispatches a
// snapshot of the ticket at completion time; workers write it out.
type WorkerPool struct {
	size int
	jobs chan ticket.Ticket
	db   *gorm.DB
}

// NewWorkerPool creates a new archive worker pool.
func NewWorkerPool(size int, db *gorm.DB) *WorkerPool {
	return &WorkerPool{
		size: size,
		jobs: make(chan ticket.Ticket, size),
		db:   db,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Archive worker %d started", id)
	for {
		select {
		case t := <-wp.jobs:
			if err := wp.archiveTicket(ctx, t); err != nil {
				log.Printf("Archive worker %d failed to archive ticket %s: %v", id, t.ID, err)
			}
		case <-ctx.Done():
			log.Printf("Archive worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a ticket snapshot for archival.
func (wp *WorkerPool) Dispatch(t ticket.Ticket) {
	wp.jobs <- t
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan ticket.Ticket {
	return wp.jobs
}

// archiveTicket writes the ticket, its items, and its full timeline in one
// transaction. A re-completed ticket (recall then complete again) replaces
// its earlier archive row.
func (wp *WorkerPool) archiveTicket(ctx context.Context, t ticket.Ticket) error {
	rec := toRecord(t)

	return wp.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replace any earlier archive of the same ticket; associations are
		// cascade-deleted with the parent row.
		if err := tx.Select("Items", "Timeline").Delete(&model.TicketArchive{ID: rec.ID}).Error; err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Create(&rec).Error
	})
}

func toRecord(t ticket.Ticket) model.TicketArchive {
	recalls := 0
	for _, ev := range t.Timeline {
		if ev.Action == ticket.ActionRecall {
			recalls++
		}
	}

	rec := model.TicketArchive{
		ID:              t.ID.String(),
		OrderNumber:     t.OrderNumber,
		Channel:         string(t.Channel),
		FulfillmentType: t.FulfillmentType,
		TableNumber:     t.TableNumber,
		CreatedAt:       t.CreatedAt,
		PromisedAt:      t.PromisedAt,
		StartedAt:       t.StartedAt,
		ReadyAt:         t.ReadyAt,
		CompletedAt:     t.CompletedAt,
		AllergenNotes:   t.AllergenNotes,
		CustomerNotes:   t.CustomerNotes,
		Status:          string(t.Status),
		RecallCount:     recalls,
	}

	for _, it := range t.Items {
		rec.Items = append(rec.Items, model.ArchivedItem{
			ID:           it.ID.String(),
			TicketID:     rec.ID,
			Name:         it.Name,
			Station:      it.Station,
			Modifiers:    strings.Join(it.Modifiers, "\n"),
			Notes:        it.Notes,
			Quantity:     it.Quantity,
			IsRemake:     it.IsRemake,
			RemakeReason: string(it.RemakeReason),
		})
	}

	for _, ev := range t.Timeline {
		rec.Timeline = append(rec.Timeline, model.ArchivedEvent{
			ID:          ev.ID.String(),
			TicketID:    rec.ID,
			Action:      string(ev.Action),
			Timestamp:   ev.Timestamp,
			PerformedBy: ev.PerformedBy,
			Note:        ev.Note,
		})
	}

	return rec
}
