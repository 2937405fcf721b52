package usecase

import (
	"context"
	"fmt"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	defaultOrdersLimit = 10
	maxOrdersLimit     = 100
)

var _ domain.OrderUseCase = (*orderUseCase)(nil)

type orderUseCase struct {
	orderRepo domain.OrderRepository
	log       *logrus.Logger
}

func NewOrderUseCase(repo domain.OrderRepository, logger *logrus.Logger) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo: repo,
		log:       logger,
	}
}

func ownsOrder(owner domain.Owner, order *domain.Order) bool {
	if order.OwnerKey == owner.Key() {
		return true
	}
	return owner.IsAuthenticated() && order.UserID != nil && *order.UserID == owner.UserID
}

func (uc *orderUseCase) GetOrder(ctx context.Context, owner domain.Owner, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, invalid("invalid order ID")
	}
	order, err := uc.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to get order %d: %v", id, err)
		return nil, err
	}
	if !ownsOrder(owner, order) {
		uc.log.Warnf("Use Case: %s tried to read order %d", owner, id)
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrForbidden)
	}
	return order, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("order history: %w", domain.ErrUnauthenticated)
	}
	if limit <= 0 {
		limit = defaultOrdersLimit
	}
	if limit > maxOrdersLimit {
		limit = maxOrdersLimit
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := uc.orderRepo.ListOrdersByUserID(ctx, userID, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list orders of user %d: %v", userID, err)
		return nil, err
	}
	uc.log.Debugf("Use Case: Listed %d orders of user %d", len(orders), userID)
	return orders, nil
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	uc.log.Infof("Use Case: Attempting to update status for order %d to %s", id, status)

	if id <= 0 {
		return nil, invalid("invalid order ID")
	}
	if !domain.IsValidStatus(status) {
		return nil, invalid("unknown order status %q", status)
	}

	current, err := uc.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, status) {
		uc.log.Warnf("Use Case: Order %d cannot move from %s to %s", id, current.Status, status)
		return nil, fmt.Errorf("order %d from %s to %s: %w", id, current.Status, status, domain.ErrInvalidTransition)
	}

	updated, err := uc.orderRepo.UpdateOrderStatus(ctx, id, current.Status, status)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update status of order %d: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Order %d status updated to %s", id, updated.Status)
	return updated, nil
}
