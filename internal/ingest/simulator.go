package ingest

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"kitchen-ops-backend/config"
	"kitchen-ops-backend/internal/kitchen"
	"kitchen-ops-backend/internal/ticket"
)

// menuEntry is a static catalog line: the simulator only needs a name, a
// station, and plausible modifiers. A real deployment gets the same shape
// from the external menu store.
type menuEntry struct {
	name      string
	station   string
	modifiers []string
	allergens string
}

var menu = []menuEntry{
	{name: "Lamb Biryani", station: "curry", modifiers: []string{"extra raita", "mild", "spicy"}},
	{name: "Butter Chicken", station: "curry", modifiers: []string{"no cilantro", "extra sauce"}},
	{name: "Ribeye Steak", station: "grill", modifiers: []string{"rare", "medium", "well done"}, allergens: "dairy in herb butter"},
	{name: "Grilled Salmon", station: "grill", modifiers: []string{"no skin", "lemon on side"}, allergens: "fish"},
	{name: "Fries", station: "fry", modifiers: []string{"extra salt", "no salt"}},
	{name: "Calamari", station: "fry", modifiers: []string{"extra aioli"}, allergens: "shellfish"},
	{name: "Cheesecake", station: "dessert", modifiers: []string{"berry compote"}, allergens: "dairy, gluten"},
	{name: "Sticky Toffee Pudding", station: "dessert", modifiers: []string{"extra custard"}},
	{name: "House Negroni", station: "bar", modifiers: []string{"less bitter"}},
	{name: "Side Salad", station: "prep", modifiers: []string{"dressing on side", "no onion"}},
}

var channels = []ticket.Channel{
	ticket.ChannelDineIn,
	ticket.ChannelDelivery,
	ticket.ChannelPickup,
	ticket.ChannelMarketplace,
}

// Service manufactures tickets at a fixed interval and submits them through
// the lifecycle controller, standing in for real order intake.
type Service struct {
	cfg     *config.Config
	kitchen *kitchen.Service
	rng     *rand.Rand
	seq     atomic.Int64
}

// NewService creates a ticket ingestion simulator. A non-zero seed makes the
// stream reproducible.
func NewService(cfg *config.Config, k *kitchen.Service) *Service {
	seed := cfg.Ingest.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Service{
		cfg:     cfg,
		kitchen: k,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Run submits tickets in a loop until the context is cancelled. The first
// ticket is submitted immediately.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Ingest.Enabled {
		log.Println("Ingest simulator is disabled. Not starting.")
		return
	}
	log.Println("Starting ingest simulator...")

	s.IngestOnce(ctx)

	timer := time.NewTimer(s.cfg.Ingest.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Ingest simulator shutting down.")
			return
		case <-timer.C:
			s.IngestOnce(ctx)
			timer.Reset(s.cfg.Ingest.Interval)
		}
	}
}

// IngestOnce builds and submits a single plausible ticket.
func (s *Service) IngestOnce(ctx context.Context) {
	t := s.generate()
	stored, err := s.kitchen.SubmitTicket(ctx, t, s.cfg.Ingest.Operator)
	if err != nil {
		log.Printf("Error submitting simulated ticket: %v", err)
		return
	}
	log.Printf("Ingested ticket %s (%d items, due %s)",
		stored.OrderNumber, len(stored.Items), stored.PromisedAt.Format(time.Kitchen))
}

func (s *Service) generate() *ticket.Ticket {
	now := time.Now().UTC()
	n := s.seq.Add(1)

	itemCount := 1 + s.rng.Intn(4)
	items := make([]ticket.Item, 0, itemCount)
	allergens := ""
	for i := 0; i < itemCount; i++ {
		entry := menu[s.rng.Intn(len(menu))]
		item := ticket.Item{
			Name:     entry.name,
			Station:  entry.station,
			Quantity: 1 + s.rng.Intn(2),
		}
		if len(entry.modifiers) > 0 && s.rng.Intn(2) == 0 {
			item.Modifiers = []string{entry.modifiers[s.rng.Intn(len(entry.modifiers))]}
		}
		if entry.allergens != "" && s.rng.Intn(4) == 0 {
			allergens = entry.allergens
		}
		items = append(items, item)
	}

	ch := channels[s.rng.Intn(len(channels))]
	t := &ticket.Ticket{
		OrderNumber:   fmt.Sprintf("K-%04d", n),
		Channel:       ch,
		CreatedAt:     now,
		PromisedAt:    now.Add(time.Duration(8+s.rng.Intn(13)) * time.Minute),
		Items:         items,
		AllergenNotes: allergens,
	}
	if ch == ticket.ChannelDineIn {
		t.TableNumber = fmt.Sprintf("%d", 1+s.rng.Intn(24))
	}
	return t
}
