package models

// Severity is the display pair of a status.
type Severity struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// OrderState is the delivery state of an order.
type OrderState int

const (
	OrderOpen OrderState = iota
	OrderCompletelyDelivered
	OrderReturned
	OrderCanceled
	OrderUnknown
)

var orderSeverities = map[OrderState]Severity{
	OrderOpen:                {Color: "info", Label: "open"},
	OrderCompletelyDelivered: {Color: "success", Label: "completely delivered"},
	OrderReturned:            {Color: "warning", Label: "returned"},
	OrderCanceled:            {Color: "error", Label: "canceled"},
	OrderUnknown:             {Color: "default", Label: "unknown"},
}

// OrderStateAt classifies an upstream status position. Positions outside the
// known range map to OrderUnknown.
func OrderStateAt(position int) OrderState {
	if position < int(OrderOpen) || position >= int(OrderUnknown) {
		return OrderUnknown
	}
	return OrderState(position)
}

// Severity returns the display pair of the state.
func (s OrderState) Severity() Severity {
	if sev, ok := orderSeverities[s]; ok {
		return sev
	}
	return orderSeverities[OrderUnknown]
}

// PaymentState is the payment state of an order.
type PaymentState int

const (
	PaymentOpen PaymentState = iota
	PaymentCompletelyPaid
	PaymentPartlyInvoiced
	PaymentCompletelyInvoiced
	PaymentUnknown
)

var paymentSeverities = map[PaymentState]Severity{
	PaymentOpen:               {Color: "info", Label: "open"},
	PaymentCompletelyPaid:     {Color: "success", Label: "completely paid"},
	PaymentPartlyInvoiced:     {Color: "warning", Label: "partly invoiced"},
	PaymentCompletelyInvoiced: {Color: "error", Label: "completely invoiced"},
	PaymentUnknown:            {Color: "default", Label: "unknown"},
}

// PaymentStateAt classifies an upstream payment status position.
func PaymentStateAt(position int) PaymentState {
	if position < int(PaymentOpen) || position >= int(PaymentUnknown) {
		return PaymentUnknown
	}
	return PaymentState(position)
}

// Severity returns the display pair of the state.
func (s PaymentState) Severity() Severity {
	if sev, ok := paymentSeverities[s]; ok {
		return sev
	}
	return paymentSeverities[PaymentUnknown]
}

// OrderSeverity is a shortcut for the order's delivery status pair.
func (o Order) OrderSeverity() Severity {
	return OrderStateAt(o.OrderStatus.Position).Severity()
}

// PaymentSeverity is a shortcut for the order's payment status pair.
func (o Order) PaymentSeverity() Severity {
	return PaymentStateAt(o.PaymentStatus.Position).Severity()
}
