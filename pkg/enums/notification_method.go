package enums

// NotificationMethod records which channel delivered the order confirmation.
type NotificationMethod string

const (
	NotificationMethodNone      NotificationMethod = "none"
	NotificationMethodInstagram NotificationMethod = "instagram"
	NotificationMethodSMS       NotificationMethod = "sms"
)

// String implements fmt.Stringer.
func (n NotificationMethod) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationMethod.
func (n NotificationMethod) IsValid() bool {
	switch n {
	case NotificationMethodNone, NotificationMethodInstagram, NotificationMethodSMS:
		return true
	}
	return false
}
