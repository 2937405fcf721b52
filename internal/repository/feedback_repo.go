package repository

import (
	"context"
	"fmt"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresFeedbackRepository struct {
	db  DBTX
	log *logrus.Logger
}

func NewPostgresFeedbackRepository(db DBTX, logger *logrus.Logger) domain.FeedbackRepository {
	return &postgresFeedbackRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresFeedbackRepository) CreateFeedback(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error) {
	query := `
        INSERT INTO feedback (name, email, phone, subject, message)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, is_processed, created_at`
	err := r.db.QueryRowContext(ctx, query,
		feedback.Name, feedback.Email, feedback.Phone, string(feedback.Subject), feedback.Message,
	).Scan(&feedback.ID, &feedback.IsProcessed, &feedback.CreatedAt)
	if err != nil {
		if pqCode(err) == pqCheckViolation {
			return nil, fmt.Errorf("unknown subject %q: %w", feedback.Subject, domain.ErrInvalidInput)
		}
		r.log.Errorf("Repository: Failed to store feedback from %s: %v", feedback.Email, err)
		return nil, fmt.Errorf("could not create feedback: %w", err)
	}
	r.log.Infof("Repository: Feedback %d stored (subject: %s)", feedback.ID, feedback.Subject)
	return feedback, nil
}
