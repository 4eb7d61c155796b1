package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordersvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/orders"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/pagination"
)

type stubOrderService struct {
	order     *models.Order
	list      *ordersvc.OrderList
	statusIn  ordersvc.SetStatusInput
	err       error
}

func (s *stubOrderService) Get(ctx context.Context, orderID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ordersvc.OrderList, error) {
	return s.list, s.err
}

func (s *stubOrderService) ListSupplierOrders(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*ordersvc.OrderList, error) {
	return s.list, s.err
}

func (s *stubOrderService) ListAllOrders(ctx context.Context, params pagination.Params, filters ordersvc.ListFilters) (*ordersvc.OrderList, error) {
	return s.list, s.err
}

func (s *stubOrderService) SetStatus(ctx context.Context, input ordersvc.SetStatusInput) (*models.Order, error) {
	s.statusIn = input
	return s.order, s.err
}

func sampleOrder(customerID uuid.UUID) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		Status:        enums.OrderStatusProcessing,
		PaymentStatus: enums.PaymentStatusPaid,
		TotalAmount:   decimal.NewFromInt(240),
		Items: []models.OrderItem{{
			ID:        uuid.New(),
			ProductID: uuid.New(),
			Quantity:  2,
		}},
	}
}

func TestCustomerOrderListSuccess(t *testing.T) {
	customerID := uuid.New()
	svc := &stubOrderService{list: &ordersvc.OrderList{Orders: []models.Order{*sampleOrder(customerID)}}}
	handler := CustomerOrderList(svc, nil)

	req := asUser(newRequest(http.MethodGet, "/api/orders", nil), customerID.String(), string(enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data orderListResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 {
		t.Fatalf("expected one order, got %d", len(envelope.Data.Orders))
	}
	if len(envelope.Data.Orders[0].Items) != 1 {
		t.Fatalf("expected order items in payload, got %+v", envelope.Data.Orders[0].Items)
	}
}

func TestCustomerOrderDetailForbidden(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeForbidden, "not your order")}
	handler := CustomerOrderDetail(svc, nil)

	req := asUser(newRequest(http.MethodGet, "/api/orders/x", nil), uuid.NewString(), string(enums.UserRoleCustomer))
	req = withURLParam(req, "orderId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestSupplierOrderSetStatusSuccess(t *testing.T) {
	supplierID := uuid.New()
	order := sampleOrder(uuid.New())
	order.Status = enums.OrderStatusShipped
	svc := &stubOrderService{order: order}
	handler := SupplierOrderSetStatus(svc, nil)

	orderID := order.ID
	body := []byte(`{"status":"shipped","tracking_code":"GH-123456"}`)
	req := asUser(newRequest(http.MethodPatch, "/api/supplier/orders/x/status", body), supplierID.String(), string(enums.UserRoleSupplier))
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.statusIn.OrderID != orderID {
		t.Fatalf("unexpected order id %s", svc.statusIn.OrderID)
	}
	if svc.statusIn.Target != enums.OrderStatusShipped {
		t.Fatalf("unexpected target status %q", svc.statusIn.Target)
	}
	if svc.statusIn.TrackingCode == nil || *svc.statusIn.TrackingCode != "GH-123456" {
		t.Fatalf("tracking code not threaded through: %+v", svc.statusIn.TrackingCode)
	}
	if svc.statusIn.ActorRole != enums.UserRoleSupplier {
		t.Fatalf("unexpected actor role %q", svc.statusIn.ActorRole)
	}
}

func TestSetStatusInvalidTransition(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move delivered order back")}
	handler := AdminOrderSetStatus(svc, nil)

	body := []byte(`{"status":"pending"}`)
	req := asUser(newRequest(http.MethodPatch, "/api/admin/orders/x/status", body), uuid.NewString(), string(enums.UserRoleAdmin))
	req = withURLParam(req, "orderId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
