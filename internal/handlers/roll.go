package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/campforge-dev/campforge/db"
	"github.com/campforge-dev/campforge/internal/access"
	"github.com/campforge-dev/campforge/internal/dice"
	"github.com/campforge-dev/campforge/internal/models"
	"github.com/campforge-dev/campforge/internal/utils"
	"github.com/campforge-dev/campforge/internal/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type RollRequest struct {
	Expression string `json:"expression" binding:"required"`
}

type RollResponse struct {
	Expression string        `json:"expression"`
	UserID     uint          `json:"user_id"`
	Result     *dice.Outcome `json:"result"`
}

func (h *Handler) Roll(ctx *gin.Context) {
	campaignID, err := utils.GetCampaignID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := h.Access.Require(campaignID, userID, access.RolePlayer); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var body RollRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Expression is required"})
		return
	}

	// Validation happens before any write: an unparsable expression leaves
	// no roll record and no message.
	outcome, err := dice.Evaluate(body.Expression)

	if err != nil {
		if errors.Is(err, dice.ErrInvalidExpression) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dice expression"})
		} else {
			log.Printf("Failed to evaluate dice expression: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	resultJSON, err := json.Marshal(outcome)

	if err != nil {
		log.Printf("Failed to marshal roll outcome: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	roll := models.DiceRoll{
		CampaignID: campaignID,
		UserID:     userID,
		Expression: body.Expression,
		Result:     datatypes.JSON(resultJSON),
	}

	if err := db.DB.Create(&roll).Error; err != nil {
		log.Printf("Failed to record dice roll: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record roll"})
		return
	}

	message := models.Message{
		CampaignID: &campaignID,
		AuthorID:   userID,
		Content:    rollAnnouncement(body.Expression, outcome),
		Kind:       models.MessageKindRoll,
	}

	if err := db.DB.Create(&message).Error; err != nil {
		log.Printf("Failed to create roll message: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record roll"})
		return
	}

	response := RollResponse{
		Expression: body.Expression,
		UserID:     userID,
		Result:     outcome,
	}

	h.Hub.Broadcast(ws.CampaignRoom(campaignID), "roll", response)

	ctx.JSON(http.StatusOK, response)
}

// rollAnnouncement renders the chat line for a roll, e.g.
// "Rolled 3d6+2: 4+2+6+2 = 14".
func rollAnnouncement(expression string, outcome *dice.Outcome) string {
	parts := make([]string, 0, len(outcome.Rolls)+1)

	for _, r := range outcome.Rolls {
		parts = append(parts, strconv.Itoa(r))
	}

	sum := strings.Join(parts, "+")

	if outcome.Modifier > 0 {
		sum += fmt.Sprintf("+%d", outcome.Modifier)
	} else if outcome.Modifier < 0 {
		sum += strconv.Itoa(outcome.Modifier)
	}

	return fmt.Sprintf("Rolled %s: %s = %d", strings.TrimSpace(expression), sum, outcome.Total)
}
