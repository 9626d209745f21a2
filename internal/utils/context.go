package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetUserID(ctx *gin.Context) (uint64, error) {
	userIDStr := ctx.Param("user_id")

	if userIDStr == "" {
		return 0, errors.New("User ID not found")
	}

	userID, err := strconv.ParseUint(userIDStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid User ID")
	}

	return userID, nil
}

func GetUserActionID(ctx *gin.Context) (uint64, error) {
	userActionIDStr := ctx.Param("useraction_id")

	if userActionIDStr == "" {
		return 0, errors.New("User Action ID not found")
	}

	userActionID, err := strconv.ParseUint(userActionIDStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid User Action ID")
	}

	return userActionID, nil
}

func GetUserAndActionID(ctx *gin.Context) (uint64, uint64, error) {
	userID, err := GetUserID(ctx)

	if err != nil {
		return 0, 0, err
	}

	userActionID, err := GetUserActionID(ctx)

	if err != nil {
		return 0, 0, err
	}

	return userID, userActionID, nil
}
