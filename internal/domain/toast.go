package domain

// ToastType controls how a notification is styled
type ToastType string

const (
	ToastInfo    ToastType = "info"
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
)

// Toast is a one-shot notification shown on the next rendered page
type Toast struct {
	Title   string    `json:"title"`
	Message string    `json:"message,omitempty"`
	Type    ToastType `json:"type"`
}
