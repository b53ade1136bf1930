package services

import (
	"database/sql"
	"log"

	"github.com/FelipeHuencho/intranet-csah/app/database"
	"github.com/robfig/cron/v3"
)

// StartScheduler runs the recurring background jobs. Currently a single
// nightly sweep that materializes the overdue status on pending payments
// past their due date.
func StartScheduler(db *sql.DB) *cron.Cron {
	c := cron.New()

	store := database.NewPaymentStore(db)

	// 01:00 every day, after the banking day has closed.
	if _, err := c.AddFunc("0 1 * * *", func() {
		n, err := store.MarkOverdue()
		if err != nil {
			log.Printf("Overdue sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Overdue sweep: %d payments marked overdue", n)
		}
	}); err != nil {
		log.Printf("Failed to schedule overdue sweep: %v", err)
	}

	c.Start()
	log.Println("Scheduler started")
	return c
}
