package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/api/responses"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/api/validators"
	checkoutsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/checkout"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/logger"
)

// customerDirectory resolves the authenticated customer's profile. Satisfied
// by users.Repository.
type customerDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CheckoutSubmit turns the caller's cart into a pending order and, for
// gateway payment methods, returns the Paystack authorization URL.
func CheckoutSubmit(svc checkoutsvc.Service, directory customerDirectory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		if directory == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user directory unavailable"))
			return
		}

		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := directory.FindByID(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "customer lookup failed"))
			return
		}

		var payload checkoutsvc.SubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), checkoutsvc.SubmitInput{
			CustomerID:      customerID,
			CustomerEmail:   customer.Email,
			PaymentMethod:   payload.PaymentMethod,
			ShippingAddress: payload.ShippingAddress,
			ContactPhone:    payload.ContactPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
