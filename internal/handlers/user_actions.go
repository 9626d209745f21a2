package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitloop-dev/habitloop/db"
	"github.com/habitloop-dev/habitloop/internal/models"
	"github.com/habitloop-dev/habitloop/internal/utils"
)

type SelectActionRequest struct {
	ActionID uint `json:"action_id" binding:"required"`
}

type UserActionSummary struct {
	ID              uint       `json:"id"`
	ActionID        uint       `json:"action_id"`
	Title           string     `json:"title"`
	Completed       bool       `json:"completed"`
	NextTriggerDate *time.Time `json:"next_trigger_date"`
	PrevTriggerDate *time.Time `json:"prev_trigger_date"`
	Trigger         string     `json:"trigger,omitempty"`
	CustomTrigger   bool       `json:"custom_trigger"`
}

// SelectAction adds an action to the user's list. The selection time becomes
// the anchor date for relative and start-when-selected triggers, and the
// action is snapshotted so later content edits don't rewrite history.
func SelectAction(ctx *gin.Context) {
	var req SelectActionRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	var action models.Action

	if err := db.DB.Preload("DefaultTrigger").First(&action, req.ActionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Action not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve action"})
		}
		return
	}

	snapshot, err := json.Marshal(ActionSummary{
		ID:               action.ID,
		BehaviorID:       action.BehaviorID,
		Title:            action.Title,
		Description:      action.Description,
		NotificationText: action.NotificationText,
		Keywords:         action.Keywords,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to snapshot action"})
		return
	}

	userAction := models.UserAction{
		UserID:           user.ID,
		ActionID:         action.ID,
		SerializedAction: snapshot,
	}

	if err := db.DB.Create(&userAction).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select action"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": userAction.ID})
}

func ListUserActions(ctx *gin.Context) {
	userID, err := utils.GetUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var userActions []models.UserAction

	err = db.DB.
		Preload("CustomTrigger").
		Preload("Action").
		Preload("Action.DefaultTrigger").
		Where("user_id = ?", userID).
		Find(&userActions).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user actions"})
		return
	}

	summaries := make([]UserActionSummary, 0, len(userActions))

	for i := range userActions {
		ua := &userActions[i]

		summary := UserActionSummary{
			ID:              ua.ID,
			ActionID:        ua.ActionID,
			Title:           ua.Action.Title,
			Completed:       ua.Completed,
			NextTriggerDate: ua.NextTriggerDate,
			PrevTriggerDate: ua.PrevTriggerDate,
			CustomTrigger:   ua.CustomTrigger != nil,
		}

		if trigger := ua.Trigger(); trigger != nil {
			summary.Trigger = trigger.DisplayText()
		}

		summaries = append(summaries, summary)
	}

	ctx.JSON(http.StatusOK, gin.H{"user_actions": summaries})
}

// CompleteUserAction marks the action done. Triggers with stop_on_complete
// stop scheduling on the next sweep.
func CompleteUserAction(ctx *gin.Context) {
	userID, userActionID, err := utils.GetUserAndActionID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var userAction models.UserAction

	if err := db.DB.Where("id = ? AND user_id = ?", userActionID, userID).First(&userAction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User action not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user action"})
		}
		return
	}

	completedAt := time.Now().UTC()

	err = db.DB.Model(&userAction).Updates(map[string]interface{}{
		"completed":    true,
		"completed_at": completedAt,
	}).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete user action"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"completed": true, "completed_at": completedAt})
}
