package razorpay

// Recognized provider event tags. Anything else is acknowledged without
// processing so the provider stops redelivering.
const (
	EventPaymentLinkPaid    = "payment_link.paid"
	EventPaymentLinkFailed  = "payment_link.failed"
	EventPaymentLinkExpired = "payment_link.expired"
	EventPaymentAuthorized  = "payment.authorized"
	EventPaymentCaptured    = "payment.captured"
	EventPaymentFailed      = "payment.failed"
)

// Event is the provider's webhook envelope. The payload is a tagged union:
// which wrapper is populated depends on the event name.
type Event struct {
	Event   string  `json:"event" validate:"required"`
	Payload Payload `json:"payload"`
}

type Payload struct {
	PaymentLink *PaymentLinkWrapper `json:"payment_link,omitempty"`
	Payment     *PaymentWrapper     `json:"payment,omitempty"`
}

type PaymentLinkWrapper struct {
	Entity PaymentLinkEntity `json:"entity"`
}

// PaymentLinkEntity carries the paid amount in minor units and the merchant
// notes echoed back from link creation.
type PaymentLinkEntity struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Notes  Notes  `json:"notes"`
}

type PaymentWrapper struct {
	Entity PaymentEntity `json:"entity"`
}

type PaymentEntity struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Method string `json:"method"`
	Notes  Notes  `json:"notes"`
}

// Notes is the merchant metadata attached at link creation. BillNo is the
// correlation key back to the order.
type Notes struct {
	BillNo string `json:"bill_no"`
}

// IsRecognized reports whether the event tag is one this service handles.
func (e *Event) IsRecognized() bool {
	switch e.Event {
	case EventPaymentLinkPaid, EventPaymentLinkFailed, EventPaymentLinkExpired,
		EventPaymentAuthorized, EventPaymentCaptured, EventPaymentFailed:
		return true
	}
	return false
}

// BillNo extracts the bill number, preferring payment-link notes over
// payment notes.
func (e *Event) BillNo() string {
	if e.Payload.PaymentLink != nil && e.Payload.PaymentLink.Entity.Notes.BillNo != "" {
		return e.Payload.PaymentLink.Entity.Notes.BillNo
	}
	if e.Payload.Payment != nil {
		return e.Payload.Payment.Entity.Notes.BillNo
	}
	return ""
}

// PaymentDetails returns the provider payment id, the instrument method and
// the paid amount in minor units, drawing from whichever entity is present.
// Payment-link events without a nested payment entity report method "link".
func (e *Event) PaymentDetails() (id, method string, amountMinor int64) {
	if e.Payload.Payment != nil {
		entity := e.Payload.Payment.Entity
		id, method, amountMinor = entity.ID, entity.Method, entity.Amount
	}
	if e.Payload.PaymentLink != nil {
		entity := e.Payload.PaymentLink.Entity
		if id == "" {
			id = entity.ID
		}
		if entity.Amount > 0 {
			amountMinor = entity.Amount
		}
		if method == "" {
			method = "link"
		}
	}
	return id, method, amountMinor
}
