package usecase

import (
	"context"
	"fmt"
	"strings"

	"pizzahunt/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.CheckoutUseCase = (*checkoutUseCase)(nil)

type checkoutUseCase struct {
	tx  domain.TxManager
	log *logrus.Logger
}

func NewCheckoutUseCase(tx domain.TxManager, logger *logrus.Logger) domain.CheckoutUseCase {
	return &checkoutUseCase{
		tx:  tx,
		log: logger,
	}
}

func validateDetails(details domain.CheckoutDetails) (domain.CheckoutDetails, error) {
	var err error
	if details.Name, err = requireText("name", details.Name, 100); err != nil {
		return details, err
	}
	if details.Phone, err = requireText("phone", details.Phone, 20); err != nil {
		return details, err
	}
	if details.Address, err = requireText("address", details.Address, 0); err != nil {
		return details, err
	}
	details.Email = normalizeEmail(details.Email)
	if details.Email != "" && !isValidEmail(details.Email) {
		return details, invalid("invalid email format")
	}
	details.Comment = strings.TrimSpace(details.Comment)
	if details.PaymentMethod == "" {
		details.PaymentMethod = domain.PaymentCash
	}
	if !domain.IsValidPaymentMethod(details.PaymentMethod) {
		return details, invalid("unknown payment method %q", details.PaymentMethod)
	}
	return details, nil
}

// Checkout turns the owner's cart into an order. Creating the order, copying
// the lines and emptying the cart happen in one transaction.
func (uc *checkoutUseCase) Checkout(ctx context.Context, owner domain.Owner, details domain.CheckoutDetails) (*domain.Order, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	details, err := validateDetails(details)
	if err != nil {
		uc.log.Warnf("Use Case: Checkout rejected for %s: %v", owner, err)
		return nil, err
	}

	var created *domain.Order
	err = uc.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		cart, err := lockedCart(ctx, repos, owner)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return fmt.Errorf("checkout for %s: %w", owner, domain.ErrEmptyCart)
		}

		cartID := cart.ID
		order := &domain.Order{
			Name:          details.Name,
			Phone:         details.Phone,
			Email:         details.Email,
			Address:       details.Address,
			Comment:       details.Comment,
			CartID:        &cartID,
			OwnerKey:      owner.Key(),
			TotalPrice:    cart.TotalPrice(),
			Status:        domain.StatusNew,
			PaymentMethod: details.PaymentMethod,
			PaymentStatus: false,
			Items:         make([]domain.OrderItem, 0, len(cart.Items)),
		}
		if owner.IsAuthenticated() {
			userID := owner.UserID
			order.UserID = &userID
		}
		for _, item := range cart.Items {
			order.Items = append(order.Items, domain.SnapshotItem(item))
		}

		if created, err = repos.Orders.CreateOrder(ctx, order); err != nil {
			return err
		}
		if _, err := repos.Carts.ClearCart(ctx, cart.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Checkout failed for %s: %v", owner, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d placed by %s with %d items, total %s",
		created.ID, owner, len(created.Items), created.TotalPrice.StringFixed(2))
	return created, nil
}
