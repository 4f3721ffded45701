package enums

// PaymentMethod mirrors the method reported by the payment provider
// (upi, card, netbanking, wallet). Stored verbatim; "link" is used when the
// provider reports none.
type PaymentMethod string

const (
	PaymentMethodLink       PaymentMethod = "link"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
)

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}
