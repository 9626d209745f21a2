package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/habitloop-dev/habitloop/db"
	"github.com/habitloop-dev/habitloop/internal/models"
	"github.com/habitloop-dev/habitloop/internal/services"
)

const DefaultSchedule = "@every 15m"

// Scheduler periodically recomputes every user reminder's next/prev fire
// times and dispatches the reminders that have come due. One record failing
// never aborts a sweep; failures are counted and logged in aggregate.
type Scheduler struct {
	cron        *cron.Cron
	dispatchers []services.Dispatcher
	mu          sync.Mutex // one sweep at a time
}

func NewScheduler(dispatchers ...services.Dispatcher) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		dispatchers: dispatchers,
	}
}

// Start registers the sweep on the given cron schedule (e.g. "@every 15m")
// and runs one sweep immediately so fresh deploys don't wait a full period.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	if _, err := s.cron.AddFunc(schedule, s.RunSweep); err != nil {
		return err
	}

	s.cron.Start()
	go s.RunSweep()

	log.Printf("Scheduler started with schedule %q", schedule)
	return nil
}

func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Println("Scheduler stopped")
}

// RunSweep refreshes cached trigger dates and then dispatches due reminders.
func (s *Scheduler) RunSweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	updated, failed := s.refreshAll(now)
	log.Printf("Trigger refresh complete: %d updated, %d failed", updated, failed)

	sent, failedSends := s.dispatchDue(now)
	if sent > 0 || failedSends > 0 {
		log.Printf("Reminder dispatch complete: %d sent, %d failed", sent, failedSends)
	}
}

func (s *Scheduler) refreshAll(now time.Time) (updated, failed int) {
	u, f := s.refreshUserActions(now)
	updated, failed = updated+u, failed+f

	u, f = s.refreshUserGoals(now)
	updated, failed = updated+u, failed+f

	u, f = s.refreshUserBehaviors(now)
	return updated + u, failed + f
}

func (s *Scheduler) refreshUserActions(now time.Time) (updated, failed int) {
	var userActions []models.UserAction

	err := db.DB.
		Preload("User").
		Preload("CustomTrigger").
		Preload("Action").
		Preload("Action.DefaultTrigger").
		Find(&userActions).Error
	if err != nil {
		log.Printf("Failed to load user actions for refresh: %v", err)
		return 0, 0
	}

	for i := range userActions {
		ua := &userActions[i]

		trigger := ua.Trigger()
		if trigger == nil {
			continue
		}

		ctx := ua.ResolveContext(now)

		next, err := trigger.NextOccurrence(ctx)
		if err != nil {
			failed++
			log.Printf("Failed to resolve trigger %d for user action %d: %v", trigger.ID, ua.ID, err)
			continue
		}

		prev, err := trigger.PreviousOccurrence(ctx)
		if err != nil {
			failed++
			log.Printf("Failed to resolve trigger %d for user action %d: %v", trigger.ID, ua.ID, err)
			continue
		}

		err = db.DB.Model(ua).Updates(map[string]interface{}{
			"next_trigger_date": next,
			"prev_trigger_date": prev,
		}).Error
		if err != nil {
			failed++
			log.Printf("Failed to store trigger dates for user action %d: %v", ua.ID, err)
			continue
		}

		updated++
	}

	return updated, failed
}

func (s *Scheduler) refreshUserGoals(now time.Time) (updated, failed int) {
	var userGoals []models.UserGoal

	err := db.DB.
		Preload("User").
		Preload("CustomTrigger").
		Where("custom_trigger_id IS NOT NULL").
		Find(&userGoals).Error
	if err != nil {
		log.Printf("Failed to load user goals for refresh: %v", err)
		return 0, 0
	}

	for i := range userGoals {
		ug := &userGoals[i]
		if ug.CustomTrigger == nil {
			continue
		}

		anchor := ug.CreatedAt
		loc := ug.User.Location()
		ctx := models.ResolveContext{Now: now.In(loc), Location: loc, Anchor: &anchor}

		next, err := ug.CustomTrigger.NextOccurrence(ctx)
		if err != nil {
			failed++
			log.Printf("Failed to resolve trigger %d for user goal %d: %v", ug.CustomTrigger.ID, ug.ID, err)
			continue
		}
		prev, err := ug.CustomTrigger.PreviousOccurrence(ctx)
		if err != nil {
			failed++
			log.Printf("Failed to resolve trigger %d for user goal %d: %v", ug.CustomTrigger.ID, ug.ID, err)
			continue
		}

		err = db.DB.Model(ug).Updates(map[string]interface{}{
			"next_trigger_date": next,
			"prev_trigger_date": prev,
		}).Error
		if err != nil {
			failed++
			log.Printf("Failed to store trigger dates for user goal %d: %v", ug.ID, err)
			continue
		}

		updated++
	}

	return updated, failed
}

func (s *Scheduler) refreshUserBehaviors(now time.Time) (updated, failed int) {
	var userBehaviors []models.UserBehavior

	err := db.DB.
		Preload("User").
		Preload("CustomTrigger").
		Where("custom_trigger_id IS NOT NULL").
		Find(&userBehaviors).Error
	if err != nil {
		log.Printf("Failed to load user behaviors for refresh: %v", err)
		return 0, 0
	}

	for i := range userBehaviors {
		ub := &userBehaviors[i]
		if ub.CustomTrigger == nil {
			continue
		}

		anchor := ub.CreatedAt
		loc := ub.User.Location()
		ctx := models.ResolveContext{Now: now.In(loc), Location: loc, Anchor: &anchor}

		next, err := ub.CustomTrigger.NextOccurrence(ctx)
		if err != nil {
			failed++
			log.Printf("Failed to resolve trigger %d for user behavior %d: %v", ub.CustomTrigger.ID, ub.ID, err)
			continue
		}
		prev, err := ub.CustomTrigger.PreviousOccurrence(ctx)
		if err != nil {
			failed++
			log.Printf("Failed to resolve trigger %d for user behavior %d: %v", ub.CustomTrigger.ID, ub.ID, err)
			continue
		}

		err = db.DB.Model(ub).Updates(map[string]interface{}{
			"next_trigger_date": next,
			"prev_trigger_date": prev,
		}).Error
		if err != nil {
			failed++
			log.Printf("Failed to store trigger dates for user behavior %d: %v", ub.ID, err)
			continue
		}

		updated++
	}

	return updated, failed
}

// dispatchDue delivers reminders whose cached next fire time has arrived,
// then advances the cache so a reminder fires once per occurrence.
func (s *Scheduler) dispatchDue(now time.Time) (sent, failed int) {
	var due []models.UserAction

	err := db.DB.
		Preload("User").
		Preload("CustomTrigger").
		Preload("Action").
		Preload("Action.DefaultTrigger").
		Where("next_trigger_date IS NOT NULL AND next_trigger_date <= ? AND completed = ?", now, false).
		Find(&due).Error
	if err != nil {
		log.Printf("Failed to load due reminders: %v", err)
		return 0, 0
	}

	for i := range due {
		ua := &due[i]

		trigger := ua.Trigger()
		if trigger == nil || ua.NextTriggerDate == nil {
			continue
		}

		reminder := services.Reminder{
			MessageID:    uuid.NewString(),
			UserID:       ua.UserID,
			UserActionID: ua.ID,
			Title:        ua.Action.Title,
			Message:      ua.Action.NotificationText,
			FireAt:       ua.NextTriggerDate.UTC(),
		}

		if s.deliver(ua, reminder) {
			sent++
		} else {
			failed++
		}

		// Advance the cache past the fired occurrence.
		ctx := ua.ResolveContext(now)
		next, err := trigger.NextOccurrence(ctx)
		if err != nil {
			log.Printf("Failed to advance trigger %d for user action %d: %v", trigger.ID, ua.ID, err)
			continue
		}

		err = db.DB.Model(ua).Updates(map[string]interface{}{
			"prev_trigger_date": ua.NextTriggerDate,
			"next_trigger_date": next,
		}).Error
		if err != nil {
			log.Printf("Failed to advance trigger dates for user action %d: %v", ua.ID, err)
		}
	}

	return sent, failed
}

// deliver fans the reminder out to every channel and records the outcome.
// Returns true when at least one channel accepted it.
func (s *Scheduler) deliver(ua *models.UserAction, reminder services.Reminder) bool {
	delivered := false

	for _, dispatcher := range s.dispatchers {
		status := "sent"

		if err := dispatcher.Deliver(reminder); err != nil {
			status = "failed"
			log.Printf("Reminder %s via %s failed: %v", reminder.MessageID, dispatcher.Name(), err)
		} else {
			delivered = true
		}

		sentAt := time.Now().UTC()
		notification := models.Notification{
			UserID:       ua.UserID,
			UserActionID: ua.ID,
			MessageID:    reminder.MessageID + ":" + dispatcher.Name(),
			Channel:      dispatcher.Name(),
			Status:       status,
			Title:        reminder.Title,
			Message:      reminder.Message,
			SentAt:       &sentAt,
		}
		if err := db.DB.Create(&notification).Error; err != nil {
			log.Printf("Failed to store notification for reminder %s: %v", reminder.MessageID, err)
		}
	}

	return delivered
}

// Global scheduler instance
var globalScheduler *Scheduler

// Initialize creates and starts the global scheduler.
func Initialize(schedule string, dispatchers ...services.Dispatcher) error {
	globalScheduler = NewScheduler(dispatchers...)
	return globalScheduler.Start(schedule)
}

// Shutdown stops the global scheduler.
func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}

// RunSweep triggers an immediate sweep on the global scheduler, used after
// trigger edits so the cache doesn't lag a full period behind.
func RunSweep() {
	if globalScheduler != nil {
		go globalScheduler.RunSweep()
	}
}
