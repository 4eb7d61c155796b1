package controllers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/api/responses"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/api/validators"
	checkoutsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/checkout"
	ordersvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/orders"
	userpkg "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/users"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/logger"
)

// AdminOrderList returns every order, optionally filtered by status and
// payment status.
func AdminOrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListAllOrders(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toOrderListResponse(list))
	}
}

func parseOrderFilters(r *http.Request) (ordersvc.ListFilters, error) {
	var filters ordersvc.ListFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status filter")
		}
		filters.PaymentStatus = &status
	}
	return filters, nil
}

// AdminOrderConfirmPayment settles an order paid outside the gateway, such
// as a bank transfer reconciled against the account statement.
func AdminOrderConfirmPayment(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		orderID, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ConfirmOfflinePayment(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type userListResponse struct {
	Users      []userpkg.UserDTO `json:"users"`
	NextCursor *string           `json:"next_cursor,omitempty"`
}

// AdminUserList returns the paginated user directory, optionally by role.
func AdminUserList(repo userpkg.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user repository unavailable"))
			return
		}

		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters userpkg.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err := enums.ParseUserRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role filter"))
				return
			}
			filters.Role = &role
		}

		list, err := repo.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := userListResponse{Users: []userpkg.UserDTO{}, NextCursor: list.NextCursor}
		for i := range list.Users {
			resp.Users = append(resp.Users, *userpkg.FromModel(&list.Users[i]))
		}
		responses.WriteSuccess(w, resp)
	}
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// AdminUserSetRole changes a user's role. Supplier accounts are promoted
// through this endpoint.
func AdminUserSetRole(repo userpkg.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user repository unavailable"))
			return
		}

		userID, err := pathID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setRoleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		if err := repo.UpdateRole(r.Context(), userID, role); err != nil {
			responses.WriteError(r.Context(), logg, w, mapUserNotFound(err))
			return
		}

		user, err := repo.FindByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, mapUserNotFound(err))
			return
		}

		responses.WriteSuccess(w, userpkg.FromModel(user))
	}
}

// The users repository speaks raw gorm errors; the admin endpoints sit on it
// directly, so the translation happens here.
func mapUserNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}
	return err
}
