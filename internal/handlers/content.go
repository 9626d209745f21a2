package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/habitloop-dev/habitloop/db"
	"github.com/habitloop-dev/habitloop/internal/models"
)

type CategorySummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	GoalCount   int    `json:"goal_count"`
}

type GoalSummary struct {
	ID          uint   `json:"id"`
	CategoryID  uint   `json:"category_id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
}

type ActionSummary struct {
	ID               uint     `json:"id"`
	BehaviorID       uint     `json:"behavior_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	NotificationText string   `json:"notification_text"`
	Keywords         []string `json:"keywords"`
	DefaultTrigger   string   `json:"default_trigger,omitempty"`
}

func ListCategories(ctx *gin.Context) {
	var categories []models.Category

	if err := db.DB.Preload("Goals").Order(`"order" asc`).Find(&categories).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	summaries := make([]CategorySummary, 0, len(categories))

	for _, category := range categories {
		summaries = append(summaries, CategorySummary{
			ID:          category.ID,
			Title:       category.Title,
			Description: category.Description,
			Color:       category.Color,
			GoalCount:   len(category.Goals),
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"categories": summaries})
}

func ListGoals(ctx *gin.Context) {
	var goals []models.Goal

	query := db.DB
	if categoryID := ctx.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	if err := query.Find(&goals).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goals"})
		return
	}

	summaries := make([]GoalSummary, 0, len(goals))

	for _, goal := range goals {
		summaries = append(summaries, GoalSummary{
			ID:          goal.ID,
			CategoryID:  goal.CategoryID,
			Title:       goal.Title,
			Subtitle:    goal.Subtitle,
			Description: goal.Description,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"goals": summaries})
}

func ListActions(ctx *gin.Context) {
	var actions []models.Action

	query := db.DB.Preload("DefaultTrigger")
	if behaviorID := ctx.Query("behavior_id"); behaviorID != "" {
		query = query.Where("behavior_id = ?", behaviorID)
	}

	if err := query.Order("sequence asc").Find(&actions).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve actions"})
		return
	}

	summaries := make([]ActionSummary, 0, len(actions))

	for _, action := range actions {
		summary := ActionSummary{
			ID:               action.ID,
			BehaviorID:       action.BehaviorID,
			Title:            action.Title,
			Description:      action.Description,
			NotificationText: action.NotificationText,
			Keywords:         action.Keywords,
		}

		if action.DefaultTrigger != nil {
			summary.DefaultTrigger = action.DefaultTrigger.DisplayText()
		}

		summaries = append(summaries, summary)
	}

	ctx.JSON(http.StatusOK, gin.H{"actions": summaries})
}
