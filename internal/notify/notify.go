// Package notify queues toasts that are shown once on the next rendered page.
package notify

import (
	"encoding/json"

	"evote/internal/domain"

	"github.com/gorilla/sessions"
)

const flashKey = "_toasts"

// Push queues a toast on the session. The session must be saved afterwards.
func Push(sess *sessions.Session, toast domain.Toast) {
	if toast.Type == "" {
		toast.Type = domain.ToastInfo
	}
	data, err := json.Marshal(toast)
	if err != nil {
		return
	}
	sess.AddFlash(string(data), flashKey)
}

// Success queues a success toast
func Success(sess *sessions.Session, title, message string) {
	Push(sess, domain.Toast{Title: title, Message: message, Type: domain.ToastSuccess})
}

// Error queues an error toast
func Error(sess *sessions.Session, title, message string) {
	Push(sess, domain.Toast{Title: title, Message: message, Type: domain.ToastError})
}

// Drain removes and returns every queued toast in the order pushed
func Drain(sess *sessions.Session) []domain.Toast {
	flashes := sess.Flashes(flashKey)
	toasts := make([]domain.Toast, 0, len(flashes))
	for _, f := range flashes {
		raw, ok := f.(string)
		if !ok {
			continue
		}
		var t domain.Toast
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			continue
		}
		toasts = append(toasts, t)
	}
	return toasts
}
