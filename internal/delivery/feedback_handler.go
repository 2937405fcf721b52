package delivery

import (
	"net/http"

	"pizzahunt/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type FeedbackHandler struct {
	useCase domain.FeedbackUseCase
	log     *logrus.Logger
}

func NewFeedbackHandler(uc domain.FeedbackUseCase, logger *logrus.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *FeedbackHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/feedback", h.Submit)
}

type feedbackRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for feedback: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	feedback, err := h.useCase.Submit(c.Request.Context(), &domain.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: domain.FeedbackSubject(req.Subject),
		Message: req.Message,
	})
	if err != nil {
		respondError(c, h.log, "Failed to submit feedback", err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Thank you for your feedback! We will contact you soon.", feedback)
}
