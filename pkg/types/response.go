package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// WebhookAck is the success payload returned to the payment provider.
type WebhookAck struct {
	Status      string `json:"status"`
	Event       string `json:"event"`
	ProcessedAt string `json:"processedAt"`
}
