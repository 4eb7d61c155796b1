package notifications

import (
	"fmt"
	"strings"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
)

func shortOrderID(order *models.Order) string {
	id := order.ID.String()
	if len(id) >= 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

func paymentReceivedBody(order *models.Order) (subject, text string) {
	ref := shortOrderID(order)
	subject = fmt.Sprintf("Order %s confirmed — thank you!", ref)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi,\n\nWe received your payment of GHS %s for order %s.\n\n", order.TotalAmount.StringFixed(2), ref)
	b.WriteString("Your order:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  - %dx %s", item.Quantity, item.ProductName)
		if item.Size != "" {
			fmt.Fprintf(&b, " (size %s", item.Size)
			if item.Color != "" {
				fmt.Fprintf(&b, ", %s", item.Color)
			}
			b.WriteString(")")
		}
		fmt.Fprintf(&b, " @ GHS %s\n", item.PriceAtPurchase.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nShipping to: %s\n\nWe'll email you again when your order ships.\n\nCloud9Wear", order.ShippingAddress)
	return subject, b.String()
}

func statusChangedBody(order *models.Order) (subject, text string) {
	ref := shortOrderID(order)

	switch order.Status {
	case enums.OrderStatusProcessing:
		subject = fmt.Sprintf("Order %s is being prepared", ref)
		text = fmt.Sprintf("Hi,\n\nYour order %s is now being prepared for shipment.\n\nCloud9Wear", ref)
	case enums.OrderStatusShipped:
		subject = fmt.Sprintf("Order %s has shipped", ref)
		var b strings.Builder
		fmt.Fprintf(&b, "Hi,\n\nYour order %s is on its way.\n", ref)
		if order.TrackingCode != nil && *order.TrackingCode != "" {
			fmt.Fprintf(&b, "Tracking code: %s\n", *order.TrackingCode)
		}
		if order.EstimatedDelivery != nil {
			fmt.Fprintf(&b, "Estimated delivery: %s\n", order.EstimatedDelivery.Format("Monday, 2 January 2006"))
		}
		b.WriteString("\nCloud9Wear")
		text = b.String()
	case enums.OrderStatusDelivered:
		subject = fmt.Sprintf("Order %s delivered", ref)
		text = fmt.Sprintf("Hi,\n\nYour order %s has been delivered. We'd love to hear what you think — leave a review any time.\n\nCloud9Wear", ref)
	case enums.OrderStatusCancelled:
		subject = fmt.Sprintf("Order %s cancelled", ref)
		text = fmt.Sprintf("Hi,\n\nYour order %s has been cancelled. If you were charged, the amount will be refunded to your payment method.\n\nCloud9Wear", ref)
	default:
		subject = fmt.Sprintf("Order %s update", ref)
		text = fmt.Sprintf("Hi,\n\nYour order %s status is now %s.\n\nCloud9Wear", ref, order.Status)
	}
	return subject, text
}
