package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/internal/cart"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/internal/orders"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/internal/products"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/config"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/logger"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/paystack"
	"github.com/shopspring/decimal"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentGateway interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResult, error)
	Verify(ctx context.Context, reference string) (*paystack.VerifyResult, error)
	VerifyWebhookSignature(body []byte, signature string) bool
}

// PaymentNotifier delivers the order confirmation email after payment.
type PaymentNotifier interface {
	PaymentReceived(ctx context.Context, order *models.Order) error
}

// Service drives checkout submission and payment verification.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	VerifyPayment(ctx context.Context, reference string) (*VerifyResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	ConfirmOfflinePayment(ctx context.Context, orderID uuid.UUID) (*VerifyResult, error)
}

type service struct {
	tx       txRunner
	orders   orders.Repository
	products products.Repository
	carts    cart.Repository
	gateway  paymentGateway
	notifier PaymentNotifier
	cfg      config.PaystackConfig
	log      *logger.Logger
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Tx           txRunner
	OrdersRepo   orders.Repository
	ProductsRepo products.Repository
	CartRepo     cart.Repository
	Gateway      paymentGateway
	Notifier     PaymentNotifier
	Paystack     config.PaystackConfig
	Logger       *logger.Logger
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.ProductsRepo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("payment notifier is required")
	}
	return &service{
		tx:       params.Tx,
		orders:   params.OrdersRepo,
		products: params.ProductsRepo,
		carts:    params.CartRepo,
		gateway:  params.Gateway,
		notifier: params.Notifier,
		cfg:      params.Paystack,
		log:      params.Logger,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}

	userCart, err := s.carts.FindByUser(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(userCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	items, total, err := s.buildOrderItems(ctx, userCart.Items)
	if err != nil {
		return nil, err
	}

	reference := newReference()
	order := &models.Order{
		CustomerID:       input.CustomerID,
		Status:           enums.OrderStatusPending,
		PaymentStatus:    enums.PaymentStatusPending,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: &reference,
		TotalAmount:      total,
		ShippingAddress:  strings.TrimSpace(input.ShippingAddress),
		ContactPhone:     strings.TrimSpace(input.ContactPhone),
		CustomerEmail:    input.CustomerEmail,
		Items:            items,
	}

	result := &SubmitResult{
		Reference:   reference,
		TotalAmount: total,
	}

	// Gateway first: a failed initialize leaves nothing behind, while an
	// orphaned gateway transaction for a rolled-back order is harmless.
	if input.PaymentMethod.RequiresGateway() {
		init, err := s.gateway.Initialize(ctx, paystack.InitializeRequest{
			Email:       input.CustomerEmail,
			Amount:      toSubunits(total),
			Reference:   reference,
			CallbackURL: s.cfg.CallbackURL,
			Channels:    channelsFor(input.PaymentMethod),
			Metadata:    map[string]any{"customer_id": input.CustomerID.String()},
		})
		if err != nil {
			return nil, err
		}
		result.AuthorizationURL = init.AuthorizationURL
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		if err := s.carts.WithTx(tx).Clear(ctx, input.CustomerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.OrderID = order.ID
	return result, nil
}

func (s *service) buildOrderItems(ctx context.Context, cartItems models.CartItems) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(cartItems))
	for _, item := range cartItems {
		ids = append(ids, item.ProductID)
	}

	loaded, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	byID := make(map[uuid.UUID]models.Product, len(loaded))
	for _, p := range loaded {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(cartItems))
	total := decimal.Zero
	for _, item := range cartItems {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "cart references a product that no longer exists")
		}
		if !product.Purchasable() {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %s is not available for purchase", product.Name))
		}
		if item.Quantity < 1 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if product.Stock < item.Quantity {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("insufficient stock for %s", product.Name))
		}

		unit := product.DiscountedPrice()
		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			ProductName:     product.Name,
			Quantity:        item.Quantity,
			Size:            item.Size,
			Color:           item.Color,
			PriceAtPurchase: unit,
		})
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return items, total.Round(2), nil
}

func (s *service) VerifyPayment(ctx context.Context, reference string) (*VerifyResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}

	order, err := s.orders.FindByPaymentReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found for reference")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	// Terminal states short-circuit so repeated verification stays idempotent.
	if order.PaymentStatus.IsTerminal() {
		return verifyResultFor(order), nil
	}

	if !order.PaymentMethod.RequiresGateway() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order does not use a payment gateway")
	}

	gatewayResult, err := s.verifyWithRetry(ctx, reference)
	if err != nil {
		// Gateway unreachable: leave the payment pending for a later attempt.
		return nil, err
	}

	if !gatewayResult.Success {
		// Paystack reports transient states (pending, ongoing, abandoned)
		// while the customer can still complete checkout. Only a final
		// failure is recorded; anything else stays pending for a later pass.
		if !gatewayReportsFailure(gatewayResult.Status) {
			return verifyResultFor(order), nil
		}
		if err := s.orders.Update(ctx, order.ID, map[string]any{
			"payment_status": enums.PaymentStatusFailed,
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark payment failed")
		}
		order.PaymentStatus = enums.PaymentStatusFailed
		return verifyResultFor(order), nil
	}

	return s.settle(ctx, order)
}

// ConfirmOfflinePayment settles an order paid outside the gateway, such as a
// bank transfer an admin has reconciled against the account statement.
func (s *service) ConfirmOfflinePayment(ctx context.Context, orderID uuid.UUID) (*VerifyResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if order.PaymentStatus.IsTerminal() {
		return verifyResultFor(order), nil
	}
	if order.PaymentMethod.RequiresGateway() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is settled through the payment gateway")
	}

	return s.settle(ctx, order)
}

// settle flips the order to paid and decrements stock in one transaction.
// The paid flip is conditional on the status still being pending, so a
// concurrent verification (webhook racing the return-path GET) settles the
// order exactly once.
func (s *service) settle(ctx context.Context, order *models.Order) (*VerifyResult, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		productsRepo := s.products.WithTx(tx)

		if err := ordersRepo.MarkPaid(ctx, order.ID); err != nil {
			if errors.Is(err, orders.ErrAlreadySettled) {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark payment paid")
		}

		for _, item := range order.Items {
			if err := productsRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, products.ErrInsufficientStock) {
					return pkgerrors.New(pkgerrors.CodeConflict,
						fmt.Sprintf("stock exhausted for %s", item.ProductName))
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, orders.ErrAlreadySettled) {
			settled, findErr := s.orders.FindByID(ctx, order.ID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "reload settled order")
			}
			return verifyResultFor(settled), nil
		}
		return nil, err
	}

	order.PaymentStatus = enums.PaymentStatusPaid

	// Email is best-effort; the payment outcome is already committed.
	if err := s.notifier.PaymentReceived(ctx, order); err != nil && s.log != nil {
		logCtx := s.log.WithField(ctx, "order_id", order.ID.String())
		s.log.Error(logCtx, "order confirmation email failed", err)
	}

	return verifyResultFor(order), nil
}

// gatewayReportsFailure distinguishes Paystack's terminal failure states from
// the transient ones that can still transition to success.
func gatewayReportsFailure(status string) bool {
	switch status {
	case "failed", "reversed":
		return true
	}
	return false
}

func (s *service) verifyWithRetry(ctx context.Context, reference string) (*paystack.VerifyResult, error) {
	attempts := s.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 200 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "verify cancelled")
			case <-time.After(backoff):
			}
		}

		result, err := s.gateway.Verify(ctx, reference)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Definitive answers are not retried.
		if typed := pkgerrors.As(err); typed != nil && typed.Code() != pkgerrors.CodeDependency {
			return nil, err
		}
	}
	return nil, lastErr
}

// webhookEvent is the subset of the Paystack webhook payload we act on.
type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

func (s *service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(body, signature) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature")
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload")
	}

	switch event.Event {
	case "charge.success":
		if event.Data.Reference == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "webhook missing reference")
		}
		_, err := s.VerifyPayment(ctx, event.Data.Reference)
		return err
	default:
		// Unhandled events are acknowledged without action.
		return nil
	}
}

func verifyResultFor(order *models.Order) *VerifyResult {
	reference := ""
	if order.PaymentReference != nil {
		reference = *order.PaymentReference
	}
	return &VerifyResult{
		OrderID:       order.ID,
		Reference:     reference,
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   order.Status,
	}
}

func newReference() string {
	return "C9W-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:20])
}

func toSubunits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func channelsFor(method enums.PaymentMethod) []string {
	switch method {
	case enums.PaymentMethodMTNMobile, enums.PaymentMethodTelecel:
		return []string{"mobile_money"}
	case enums.PaymentMethodCreditCard:
		return []string{"card"}
	default:
		return nil
	}
}
