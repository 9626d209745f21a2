package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitloop-dev/habitloop/db"
	"github.com/habitloop-dev/habitloop/internal/models"
	"github.com/habitloop-dev/habitloop/internal/recurrence"
	"github.com/habitloop-dev/habitloop/internal/scheduler"
	"github.com/habitloop-dev/habitloop/internal/utils"
)

type TriggerRequest struct {
	Name              string  `json:"name"`
	Disabled          bool    `json:"disabled"`
	Time              *string `json:"time"`         // "HH:MM"
	TriggerDate       *string `json:"trigger_date"` // "YYYY-MM-DD"
	RRule             string  `json:"rrule"`
	Frequency         string  `json:"frequency"`
	TimeOfDay         string  `json:"time_of_day"`
	RelativeValue     int     `json:"relative_value"`
	RelativeUnits     string  `json:"relative_units"`
	StartWhenSelected bool    `json:"start_when_selected"`
	StopOnComplete    bool    `json:"stop_on_complete"`
}

type TriggerResponse struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Disabled       bool       `json:"disabled"`
	Custom         bool       `json:"custom"`
	DisplayText    string     `json:"display_text"`
	NextOccurrence *time.Time `json:"next_occurrence"`
}

// GetTrigger returns the trigger in effect for the user action (custom or
// action default) with its display text and a next-occurrence preview.
func GetTrigger(ctx *gin.Context) {
	userAction, ok := findUserAction(ctx)
	if !ok {
		return
	}

	trigger := userAction.Trigger()
	if trigger == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "No trigger configured"})
		return
	}

	respondWithTrigger(ctx, http.StatusOK, userAction, trigger)
}

// UpdateTrigger creates or replaces the user's custom trigger for the action.
func UpdateTrigger(ctx *gin.Context) {
	var req TriggerRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userAction, ok := findUserAction(ctx)
	if !ok {
		return
	}

	trigger, err := triggerFromRequest(req, userAction.UserID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if userAction.CustomTriggerID != nil {
		trigger.ID = *userAction.CustomTriggerID
		if userAction.CustomTrigger != nil {
			// Save writes every field; keep the original creation time.
			trigger.CreatedAt = userAction.CustomTrigger.CreatedAt
		}
	}

	if err := db.DB.Save(trigger).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save trigger"})
		return
	}

	if userAction.CustomTriggerID == nil {
		err = db.DB.Model(userAction).Update("custom_trigger_id", trigger.ID).Error
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach trigger"})
			return
		}
		userAction.CustomTriggerID = &trigger.ID
	}
	userAction.CustomTrigger = trigger

	// Recompute cached dates promptly rather than waiting a full period.
	scheduler.RunSweep()

	respondWithTrigger(ctx, http.StatusOK, userAction, trigger)
}

// DeleteTrigger removes the custom trigger; reminders fall back to the
// action's default.
func DeleteTrigger(ctx *gin.Context) {
	userAction, ok := findUserAction(ctx)
	if !ok {
		return
	}

	if userAction.CustomTriggerID == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "No custom trigger to remove"})
		return
	}

	triggerID := *userAction.CustomTriggerID

	if err := db.DB.Model(userAction).Update("custom_trigger_id", nil).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach trigger"})
		return
	}

	if err := db.DB.Delete(&models.Trigger{}, triggerID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove trigger"})
		return
	}

	scheduler.RunSweep()

	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}

func findUserAction(ctx *gin.Context) (*models.UserAction, bool) {
	userID, userActionID, err := utils.GetUserAndActionID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var userAction models.UserAction

	err = db.DB.
		Preload("User").
		Preload("CustomTrigger").
		Preload("Action").
		Preload("Action.DefaultTrigger").
		Where("id = ? AND user_id = ?", userActionID, userID).
		First(&userAction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User action not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user action"})
		}
		return nil, false
	}

	return &userAction, true
}

func triggerFromRequest(req TriggerRequest, userID uint) (*models.Trigger, error) {
	trigger := &models.Trigger{
		UserID:            &userID,
		Name:              req.Name,
		Disabled:          req.Disabled,
		Recurrences:       req.RRule,
		RelativeValue:     req.RelativeValue,
		StartWhenSelected: req.StartWhenSelected,
		StopOnComplete:    req.StopOnComplete,
	}

	if req.RRule != "" {
		if err := recurrence.ValidateRule(req.RRule); err != nil {
			return nil, err
		}
	}

	if req.Frequency != "" {
		frequency := recurrence.Frequency(req.Frequency)
		if !frequency.Valid() {
			return nil, errors.New("invalid frequency")
		}
		trigger.Frequency = frequency
	}

	if req.TimeOfDay != "" {
		bucket := recurrence.Bucket(req.TimeOfDay)
		if !bucket.Valid() {
			return nil, errors.New("invalid time of day")
		}
		trigger.TimeOfDay = bucket
	}

	if req.Time != nil {
		clock, err := recurrence.ParseClockTime(*req.Time)
		if err != nil {
			return nil, err
		}
		trigger.Time = &clock
	}

	if req.TriggerDate != nil {
		date, err := time.Parse("2006-01-02", *req.TriggerDate)
		if err != nil {
			return nil, errors.New("invalid trigger date, expected YYYY-MM-DD")
		}
		trigger.TriggerDate = &date
	}

	if req.RelativeValue != 0 {
		switch req.RelativeUnits {
		case models.RelativeDays, models.RelativeWeeks, models.RelativeMonths, models.RelativeYears:
			trigger.RelativeUnits = req.RelativeUnits
		default:
			return nil, errors.New("invalid relative units")
		}
	}

	return trigger, nil
}

func respondWithTrigger(ctx *gin.Context, status int, userAction *models.UserAction, trigger *models.Trigger) {
	resolveCtx := userAction.ResolveContext(time.Now())

	next, err := trigger.NextOccurrence(resolveCtx)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(status, TriggerResponse{
		ID:             trigger.ID,
		Name:           trigger.Name,
		Disabled:       trigger.Disabled,
		Custom:         !trigger.IsDefault(),
		DisplayText:    trigger.DisplayText(),
		NextOccurrence: next,
	})
}
