package domain

import (
	"context"
	"time"
)

type FeedbackSubject string

const (
	SubjectComplaint   FeedbackSubject = "complaint"
	SubjectSuggestion  FeedbackSubject = "suggestion"
	SubjectQuestion    FeedbackSubject = "question"
	SubjectDelivery    FeedbackSubject = "delivery"
	SubjectCooperation FeedbackSubject = "cooperation"
	SubjectOther       FeedbackSubject = "other"
)

func IsValidSubject(subject FeedbackSubject) bool {
	switch subject {
	case SubjectComplaint, SubjectSuggestion, SubjectQuestion, SubjectDelivery, SubjectCooperation, SubjectOther:
		return true
	default:
		return false
	}
}

type Feedback struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone,omitempty"`
	Subject     FeedbackSubject `json:"subject"`
	Message     string          `json:"message"`
	IsProcessed bool            `json:"is_processed"`
	CreatedAt   time.Time       `json:"created_at"`
}

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, feedback *Feedback) (*Feedback, error)
}

type FeedbackUseCase interface {
	Submit(ctx context.Context, feedback *Feedback) (*Feedback, error)
}
