package notify

import (
	"context"
	"errors"
)

// Sender define la interfaz para enviar mensajes push a un chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendMessage(_ context.Context, _ int64, _ string) error {
	if s.reason == "" {
		return errors.New("sender disabled")
	}
	return errors.New(s.reason)
}
