package handlers

import (
	"errors"
	"net/http"

	"pocketclass/models"
	"pocketclass/services/intelligence"
	"pocketclass/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AIHandler serves the AI assisted endpoints.
type AIHandler struct {
	Analyzer intelligence.ReviewAnalyzer
}

func NewAIHandler(analyzer intelligence.ReviewAnalyzer) *AIHandler {
	return &AIHandler{Analyzer: analyzer}
}

// AnalyzeReview scores a class review with the language model.
func (h *AIHandler) AnalyzeReview(c *gin.Context) {
	var req models.ReviewAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	analysis, err := h.Analyzer.AnalyzeReview(c.Request.Context(), req.Text)
	switch {
	case errors.Is(err, intelligence.ErrEmptyReview):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	case err != nil:
		getLogger(c).Error("Review analysis failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Review analysis failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, analysis)
}
