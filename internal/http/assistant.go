package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssistantController struct {
	assistant Assistant
	logger    *zap.Logger
}

func NewAssistantController(assistant Assistant, logger *zap.Logger) *AssistantController {
	return &AssistantController{assistant: assistant, logger: logger}
}

type askRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer   string `json:"answer"`
	Provider string `json:"provider"`
}

// Ask forwards one question; there is no conversation history.
func (a *AssistantController) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	answer, err := a.assistant.AskFor(c.Request.Context(), ownerID(c), req.Question)
	if err != nil {
		if status, _, _ := classify(localizer(c), err); status == http.StatusInternalServerError {
			// Anything unclassified came from the model provider.
			a.logger.Warn("Assistant provider failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error: localizer(c).T("assistant.failed"),
				Code:  "assistant_failed",
			})
			return
		}
		respondError(c, a.logger, err)
		return
	}

	c.JSON(http.StatusOK, AskResponse{Answer: answer, Provider: a.assistant.Name()})
}
