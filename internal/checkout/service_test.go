package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/internal/cart"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/internal/orders"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/internal/products"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/config"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/pagination"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/paystack"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrdersRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindByPaymentReference(ctx context.Context, reference string) (*models.Order, error) {
	for _, o := range s.orders {
		if o.PaymentReference != nil && *o.PaymentReference == reference {
			copied := *o
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersRepo) ListAll(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersRepo) ContainsSupplierProducts(ctx context.Context, orderID, supplierID uuid.UUID) (bool, error) {
	return false, nil
}

func (s *stubOrdersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["payment_status"].(enums.PaymentStatus); ok {
		order.PaymentStatus = status
	}
	return nil
}

func (s *stubOrdersRepo) MarkPaid(ctx context.Context, id uuid.UUID) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if order.PaymentStatus != enums.PaymentStatusPending {
		return orders.ErrAlreadySettled
	}
	order.PaymentStatus = enums.PaymentStatusPaid
	return nil
}

type stubProductsRepo struct {
	products map[uuid.UUID]*models.Product
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductsRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProductsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubProductsRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubProductsRepo) ListPublic(ctx context.Context, params pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func (s *stubProductsRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func (s *stubProductsRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	if p, ok := s.products[id]; ok {
		p.Stock = stock
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (s *stubProductsRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	p, ok := s.products[id]
	if !ok || p.Stock < qty {
		return products.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

type stubCartRepo struct {
	carts   map[uuid.UUID]*models.Cart
	cleared []uuid.UUID
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: map[uuid.UUID]*models.Cart{}}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if c, ok := s.carts[userID]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Upsert(ctx context.Context, userID uuid.UUID, items models.CartItems) (*models.Cart, error) {
	c := &models.Cart{ID: uuid.New(), UserID: userID, Items: items}
	s.carts[userID] = c
	return c, nil
}

func (s *stubCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	s.cleared = append(s.cleared, userID)
	if c, ok := s.carts[userID]; ok {
		c.Items = models.CartItems{}
	}
	return nil
}

type stubGateway struct {
	initCalls    []paystack.InitializeRequest
	initErr      error
	verifyCalls  int
	verifyResult *paystack.VerifyResult
	verifyErr    error
	verifyErrs   []error
	verifyHook   func()
	validSig     bool
}

func (s *stubGateway) Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResult, error) {
	s.initCalls = append(s.initCalls, req)
	if s.initErr != nil {
		return nil, s.initErr
	}
	return &paystack.InitializeResult{
		AuthorizationURL: "https://checkout.paystack.com/abc123",
		AccessCode:       "abc123",
		Reference:        req.Reference,
	}, nil
}

func (s *stubGateway) Verify(ctx context.Context, reference string) (*paystack.VerifyResult, error) {
	s.verifyCalls++
	if s.verifyHook != nil {
		s.verifyHook()
	}
	if len(s.verifyErrs) > 0 {
		err := s.verifyErrs[0]
		s.verifyErrs = s.verifyErrs[1:]
		if err != nil {
			return nil, err
		}
	} else if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	if s.verifyResult != nil {
		return s.verifyResult, nil
	}
	return &paystack.VerifyResult{Success: true, Status: "success", Reference: reference}, nil
}

func (s *stubGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return s.validSig
}

type stubPaymentNotifier struct {
	received []uuid.UUID
	err      error
}

func (s *stubPaymentNotifier) PaymentReceived(ctx context.Context, order *models.Order) error {
	s.received = append(s.received, order.ID)
	return s.err
}

type checkoutFixture struct {
	svc      Service
	orders   *stubOrdersRepo
	products *stubProductsRepo
	carts    *stubCartRepo
	gateway  *stubGateway
	notifier *stubPaymentNotifier
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	f := &checkoutFixture{
		orders:   newStubOrdersRepo(),
		products: newStubProductsRepo(),
		carts:    newStubCartRepo(),
		gateway:  &stubGateway{validSig: true},
		notifier: &stubPaymentNotifier{},
	}
	svc, err := NewService(ServiceParams{
		Tx:           stubTx{},
		OrdersRepo:   f.orders,
		ProductsRepo: f.products,
		CartRepo:     f.carts,
		Gateway:      f.gateway,
		Notifier:     f.notifier,
		Paystack: config.PaystackConfig{
			CallbackURL: "https://shop.cloud9wear.com/payments/callback",
			MaxRetries:  3,
		},
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *checkoutFixture) seedProduct(price float64, discount, stock int) *models.Product {
	p := &models.Product{
		ID:              uuid.New(),
		SupplierID:      uuid.New(),
		Name:            "Heavyweight Tee",
		Price:           decimal.NewFromFloat(price),
		DiscountPercent: discount,
		Stock:           stock,
		IsActive:        true,
	}
	f.products.products[p.ID] = p
	return p
}

func (f *checkoutFixture) seedCart(userID uuid.UUID, items ...models.CartItem) {
	f.carts.carts[userID] = &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items:  items,
	}
}

func TestSubmitComputesDiscountedTotal(t *testing.T) {
	f := newCheckoutFixture(t)
	customer := uuid.New()

	product := f.seedProduct(20, 10, 5)
	f.seedCart(customer, models.CartItem{ProductID: product.ID, Quantity: 2, Size: "M", Color: "black"})

	result, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerID:      customer,
		CustomerEmail:   "customer@example.com",
		PaymentMethod:   enums.PaymentMethodCreditCard,
		ShippingAddress: "12 Ring Road, Accra",
		ContactPhone:    "+233200000000",
	})
	require.NoError(t, err)

	assert.Equal(t, "36", result.TotalAmount.String())
	assert.NotEmpty(t, result.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)

	// Gateway got the subunit amount.
	require.Len(t, f.gateway.initCalls, 1)
	assert.EqualValues(t, 3600, f.gateway.initCalls[0].Amount)
	assert.Equal(t, []string{"card"}, f.gateway.initCalls[0].Channels)

	// Order snapshot carries the discounted unit price; stock not yet touched.
	order := f.orders.orders[result.OrderID]
	require.NotNil(t, order)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "18", order.Items[0].PriceAtPurchase.String())
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 5, f.products.products[product.ID].Stock)

	// Cart cleared in the same transaction.
	assert.Equal(t, []uuid.UUID{customer}, f.carts.cleared)
}

func TestSubmitBankTransferSkipsGateway(t *testing.T) {
	f := newCheckoutFixture(t)
	customer := uuid.New()

	product := f.seedProduct(15, 0, 3)
	f.seedCart(customer, models.CartItem{ProductID: product.ID, Quantity: 1})

	result, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerID:      customer,
		CustomerEmail:   "customer@example.com",
		PaymentMethod:   enums.PaymentMethodBankTransfer,
		ShippingAddress: "12 Ring Road, Accra",
		ContactPhone:    "+233200000000",
	})
	require.NoError(t, err)
	assert.Empty(t, result.AuthorizationURL)
	assert.Empty(t, f.gateway.initCalls)
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerID:      uuid.New(),
		CustomerEmail:   "customer@example.com",
		PaymentMethod:   enums.PaymentMethodCreditCard,
		ShippingAddress: "12 Ring Road, Accra",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSubmitRejectsComingSoonProduct(t *testing.T) {
	f := newCheckoutFixture(t)
	customer := uuid.New()

	product := f.seedProduct(20, 0, 5)
	product.ComingSoon = true
	f.seedCart(customer, models.CartItem{ProductID: product.ID, Quantity: 1})

	_, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerID:      customer,
		CustomerEmail:   "customer@example.com",
		PaymentMethod:   enums.PaymentMethodCreditCard,
		ShippingAddress: "12 Ring Road, Accra",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, f.gateway.initCalls)
}

func TestSubmitRejectsInsufficientStock(t *testing.T) {
	f := newCheckoutFixture(t)
	customer := uuid.New()

	product := f.seedProduct(20, 0, 1)
	f.seedCart(customer, models.CartItem{ProductID: product.ID, Quantity: 2})

	_, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerID:      customer,
		CustomerEmail:   "customer@example.com",
		PaymentMethod:   enums.PaymentMethodCreditCard,
		ShippingAddress: "12 Ring Road, Accra",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func submitPaidOrder(t *testing.T, f *checkoutFixture, product *models.Product, qty int) *SubmitResult {
	t.Helper()

	customer := uuid.New()
	f.seedCart(customer, models.CartItem{ProductID: product.ID, Quantity: qty})

	result, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerID:      customer,
		CustomerEmail:   "customer@example.com",
		PaymentMethod:   enums.PaymentMethodCreditCard,
		ShippingAddress: "12 Ring Road, Accra",
		ContactPhone:    "+233200000000",
	})
	require.NoError(t, err)
	return result
}

func TestVerifyPaymentSuccessDecrementsStockOnce(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 10, 5)
	result := submitPaidOrder(t, f, product, 2)

	verify, err := f.svc.VerifyPayment(context.Background(), result.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, verify.PaymentStatus)
	assert.Equal(t, 3, f.products.products[product.ID].Stock)
	assert.Len(t, f.notifier.received, 1)

	// Second verification short-circuits: no second decrement, no second email.
	again, err := f.svc.VerifyPayment(context.Background(), result.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, again.PaymentStatus)
	assert.Equal(t, 3, f.products.products[product.ID].Stock)
	assert.Len(t, f.notifier.received, 1)
	assert.Equal(t, 1, f.gateway.verifyCalls)
}

func TestVerifyPaymentFailureLeavesStock(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 0, 5)
	result := submitPaidOrder(t, f, product, 2)

	f.gateway.verifyResult = &paystack.VerifyResult{Success: false, Status: "failed", Reference: result.Reference}

	verify, err := f.svc.VerifyPayment(context.Background(), result.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, verify.PaymentStatus)
	assert.Equal(t, 5, f.products.products[product.ID].Stock)
	assert.Empty(t, f.notifier.received)
}

func TestVerifyPaymentAbandonedLeavesPending(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 0, 5)
	result := submitPaidOrder(t, f, product, 1)

	f.gateway.verifyResult = &paystack.VerifyResult{Success: false, Status: "abandoned", Reference: result.Reference}

	verify, err := f.svc.VerifyPayment(context.Background(), result.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, verify.PaymentStatus)
	assert.Equal(t, 5, f.products.products[product.ID].Stock)
	assert.Empty(t, f.notifier.received)

	// The customer completes checkout later; the charge.success webhook must
	// still be able to settle the order.
	f.gateway.verifyResult = nil
	body := []byte(`{"event":"charge.success","data":{"reference":"` + result.Reference + `"}}`)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, "sig"))

	order, err := f.orders.FindByPaymentReference(context.Background(), result.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, 4, f.products.products[product.ID].Stock)
	assert.Len(t, f.notifier.received, 1)
}

func TestVerifyPaymentOngoingDoesNotLatchFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 0, 5)
	result := submitPaidOrder(t, f, product, 1)

	for _, status := range []string{"pending", "ongoing", "processing", "queued"} {
		f.gateway.verifyResult = &paystack.VerifyResult{Success: false, Status: status, Reference: result.Reference}

		verify, err := f.svc.VerifyPayment(context.Background(), result.Reference)
		require.NoError(t, err, status)
		assert.Equal(t, enums.PaymentStatusPending, verify.PaymentStatus, status)
	}
}

func TestVerifyPaymentConcurrentSettleRunsOnce(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 0, 5)
	result := submitPaidOrder(t, f, product, 2)

	// A webhook delivery settles the order after this verification has read
	// it as pending but before it writes.
	f.gateway.verifyHook = func() {
		for _, o := range f.orders.orders {
			if o.PaymentReference != nil && *o.PaymentReference == result.Reference {
				o.PaymentStatus = enums.PaymentStatusPaid
			}
		}
	}

	verify, err := f.svc.VerifyPayment(context.Background(), result.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, verify.PaymentStatus)

	// The racing writer owns the side effects; this pass must add none.
	assert.Equal(t, 5, f.products.products[product.ID].Stock)
	assert.Empty(t, f.notifier.received)
}

func TestVerifyPaymentGatewayOutageLeavesPending(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 0, 5)
	result := submitPaidOrder(t, f, product, 1)

	f.gateway.verifyErr = pkgerrors.New(pkgerrors.CodeDependency, "gateway timeout")

	_, err := f.svc.VerifyPayment(context.Background(), result.Reference)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Equal(t, 3, f.gateway.verifyCalls)

	order, findErr := f.orders.FindByPaymentReference(context.Background(), result.Reference)
	require.NoError(t, findErr)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 5, f.products.products[product.ID].Stock)
}

func TestVerifyPaymentRetriesThenSucceeds(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 0, 5)
	result := submitPaidOrder(t, f, product, 1)

	f.gateway.verifyErrs = []error{
		pkgerrors.New(pkgerrors.CodeDependency, "gateway timeout"),
		nil,
	}

	verify, err := f.svc.VerifyPayment(context.Background(), result.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, verify.PaymentStatus)
	assert.Equal(t, 2, f.gateway.verifyCalls)
}

func TestVerifyPaymentUnknownReference(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.VerifyPayment(context.Background(), "C9W-UNKNOWN")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestVerifyPaymentEmailFailureStillPaid(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 0, 5)
	result := submitPaidOrder(t, f, product, 1)

	f.notifier.err = assert.AnError

	verify, err := f.svc.VerifyPayment(context.Background(), result.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, verify.PaymentStatus)
	assert.Equal(t, 4, f.products.products[product.ID].Stock)
}

func submitBankTransferOrder(t *testing.T, f *checkoutFixture, product *models.Product, qty int) *SubmitResult {
	t.Helper()

	customer := uuid.New()
	f.seedCart(customer, models.CartItem{ProductID: product.ID, Quantity: qty})

	result, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerID:      customer,
		CustomerEmail:   "customer@example.com",
		PaymentMethod:   enums.PaymentMethodBankTransfer,
		ShippingAddress: "12 Ring Road, Accra",
		ContactPhone:    "+233200000000",
	})
	require.NoError(t, err)
	return result
}

func TestConfirmOfflinePaymentSettlesBankTransfer(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 0, 5)
	result := submitBankTransferOrder(t, f, product, 2)

	verify, err := f.svc.ConfirmOfflinePayment(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, verify.PaymentStatus)
	assert.Equal(t, 3, f.products.products[product.ID].Stock)
	assert.Len(t, f.notifier.received, 1)
	assert.Zero(t, f.gateway.verifyCalls)

	// Confirming again short-circuits on the terminal status.
	again, err := f.svc.ConfirmOfflinePayment(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, again.PaymentStatus)
	assert.Equal(t, 3, f.products.products[product.ID].Stock)
	assert.Len(t, f.notifier.received, 1)
}

func TestConfirmOfflinePaymentRejectsGatewayOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 0, 5)
	result := submitPaidOrder(t, f, product, 1)

	_, err := f.svc.ConfirmOfflinePayment(context.Background(), result.OrderID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, 5, f.products.products[product.ID].Stock)
}

func TestConfirmOfflinePaymentUnknownOrder(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.ConfirmOfflinePayment(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	f := newCheckoutFixture(t)
	f.gateway.validSig = false

	err := f.svc.HandleWebhook(context.Background(), []byte(`{"event":"charge.success"}`), "bad")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestHandleWebhookChargeSuccessVerifies(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedProduct(20, 0, 5)
	result := submitPaidOrder(t, f, product, 1)

	body := []byte(`{"event":"charge.success","data":{"reference":"` + result.Reference + `"}}`)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, "sig"))

	order, err := f.orders.FindByPaymentReference(context.Background(), result.Reference)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, 4, f.products.products[product.ID].Stock)
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	f := newCheckoutFixture(t)

	err := f.svc.HandleWebhook(context.Background(), []byte(`{"event":"transfer.success","data":{}}`), "sig")
	require.NoError(t, err)
}
