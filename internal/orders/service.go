package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/logger"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/pagination"
)

// StatusNotifier delivers the customer-facing email for an order status change.
type StatusNotifier interface {
	OrderStatusChanged(ctx context.Context, order *models.Order) error
}

// Service defines order reads and the status transition operation.
type Service interface {
	Get(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListSupplierOrders(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListAllOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*models.Order, error)
}

type service struct {
	repo     Repository
	notifier StatusNotifier
	log      *logger.Logger
}

// NewService constructs an orders service.
func NewService(repo Repository, notifier StatusNotifier, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("status notifier is required")
	}
	return &service{repo: repo, notifier: notifier, log: log}, nil
}

func (s *service) Get(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, order, actorID, actorRole); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customer orders")
	}
	return list, nil
}

func (s *service) ListSupplierOrders(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListBySupplier(ctx, supplierID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supplier orders")
	}
	return list, nil
}

func (s *service) ListAllOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	list, err := s.repo.ListAll(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return list, nil
}

func (s *service) SetStatus(ctx context.Context, input SetStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.load(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	switch input.ActorRole {
	case enums.UserRoleAdmin:
	case enums.UserRoleSupplier:
		owns, err := s.repo.ContainsSupplierProducts(ctx, order.ID, input.ActorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check supplier ownership")
		}
		if !owns {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not contain supplier products")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot change order status")
	}

	if !order.Status.CanTransitionTo(input.Target) {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, input.Target),
		)
	}

	updates := map[string]any{"status": input.Target}
	if input.Target == enums.OrderStatusShipped {
		if input.TrackingCode != nil {
			updates["tracking_code"] = *input.TrackingCode
		}
		if input.EstimatedDelivery != nil {
			updates["estimated_delivery"] = *input.EstimatedDelivery
		}
	}

	if err := s.repo.Update(ctx, order.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}

	order.Status = input.Target
	if input.Target == enums.OrderStatusShipped {
		if input.TrackingCode != nil {
			order.TrackingCode = input.TrackingCode
		}
		if input.EstimatedDelivery != nil {
			order.EstimatedDelivery = input.EstimatedDelivery
		}
	}

	// Delivery failures never roll back the transition.
	if err := s.notifier.OrderStatusChanged(ctx, order); err != nil && s.log != nil {
		logCtx := s.log.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"status":   string(order.Status),
		})
		s.log.Error(logCtx, "order status email failed", err)
	}

	return order, nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) authorize(ctx context.Context, order *models.Order, actorID uuid.UUID, actorRole enums.UserRole) error {
	switch actorRole {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleSupplier:
		owns, err := s.repo.ContainsSupplierProducts(ctx, order.ID, actorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check supplier ownership")
		}
		if !owns {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not contain supplier products")
		}
		return nil
	default:
		if order.CustomerID != actorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
		}
		return nil
	}
}
