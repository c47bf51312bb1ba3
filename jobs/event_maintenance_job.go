// File: /jobs/event_maintenance_job.go
package jobs

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"mutiroes-api/repositories"
	"mutiroes-api/services"
)

// EventMaintenanceJob periodically completes expired events and sends
// reminder emails for events starting soon
type EventMaintenanceJob struct {
	db             *gorm.DB
	events         *repositories.EventRepository
	participations *repositories.ParticipationRepository
	email          *services.EmailService
	reminderWindow time.Duration
	ticker         *time.Ticker
	done           chan bool
}

// NewEventMaintenanceJob creates a new event maintenance job
func NewEventMaintenanceJob(db *gorm.DB, email *services.EmailService,
	interval, reminderWindow time.Duration) *EventMaintenanceJob {
	return &EventMaintenanceJob{
		db:             db,
		events:         repositories.NewEventRepository(db),
		participations: repositories.NewParticipationRepository(db),
		email:          email,
		reminderWindow: reminderWindow,
		ticker:         time.NewTicker(interval),
		done:           make(chan bool),
	}
}

// Start begins the maintenance job
func (j *EventMaintenanceJob) Start() {
	fmt.Println("Event maintenance job started")

	go func() {
		// Run immediately on start
		j.run()

		// Then run on schedule
		for {
			select {
			case <-j.ticker.C:
				j.run()
			case <-j.done:
				fmt.Println("Event maintenance job stopped")
				return
			}
		}
	}()
}

// Stop stops the maintenance job
func (j *EventMaintenanceJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *EventMaintenanceJob) run() {
	now := time.Now()
	j.completeExpired(now)
	j.sendReminders(now)
}

// completeExpired moves published events past their end date to completed
func (j *EventMaintenanceJob) completeExpired(now time.Time) {
	completed, err := j.events.CompleteExpired(now)
	if err != nil {
		fmt.Printf("Error completing expired events: %v\n", err)
		return
	}
	if completed > 0 {
		fmt.Printf("Marked %d events as completed\n", completed)
	}
}

// sendReminders emails confirmed participants of events starting within the
// reminder window, once per event
func (j *EventMaintenanceJob) sendReminders(now time.Time) {
	events, err := j.events.DueForReminder(now, j.reminderWindow)
	if err != nil {
		fmt.Printf("Error fetching events for reminders: %v\n", err)
		return
	}

	for i := range events {
		event := &events[i]

		participants, err := j.participations.ListConfirmed(event.ID)
		if err != nil {
			fmt.Printf("Error fetching participants for event %s: %v\n", event.ID, err)
			continue
		}

		for k := range participants {
			if err := j.email.SendEventReminder(&participants[k].User, event); err != nil {
				fmt.Printf("Error sending reminder to %s: %v\n", participants[k].User.Email, err)
			}
		}

		if err := j.events.MarkReminderSent(event.ID); err != nil {
			fmt.Printf("Error marking reminder sent for event %s: %v\n", event.ID, err)
		}
	}
}
