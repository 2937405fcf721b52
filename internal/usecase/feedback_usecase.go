package usecase

import (
	"context"
	"strings"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.FeedbackUseCase = (*feedbackUseCase)(nil)

type feedbackUseCase struct {
	feedbackRepo domain.FeedbackRepository
	log          *logrus.Logger
}

func NewFeedbackUseCase(repo domain.FeedbackRepository, logger *logrus.Logger) domain.FeedbackUseCase {
	return &feedbackUseCase{
		feedbackRepo: repo,
		log:          logger,
	}
}

func (uc *feedbackUseCase) Submit(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error) {
	var err error
	if feedback.Name, err = requireText("name", feedback.Name, 100); err != nil {
		return nil, err
	}
	feedback.Email = normalizeEmail(feedback.Email)
	if !isValidEmail(feedback.Email) {
		return nil, invalid("invalid email format")
	}
	feedback.Phone = strings.TrimSpace(feedback.Phone)
	if !domain.IsValidSubject(feedback.Subject) {
		return nil, invalid("unknown subject %q", feedback.Subject)
	}
	if feedback.Message, err = requireText("message", feedback.Message, 0); err != nil {
		return nil, err
	}
	feedback.IsProcessed = false

	stored, err := uc.feedbackRepo.CreateFeedback(ctx, feedback)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to store feedback from %s: %v", feedback.Email, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Feedback %d received (subject: %s)", stored.ID, stored.Subject)
	return stored, nil
}
