package services

import (
	"context"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

// Notifier renders user-visible messages produced at action boundaries.
type Notifier interface {
	Notify(ctx context.Context, notice domain.Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, notice domain.Notice)

func (f NotifierFunc) Notify(ctx context.Context, notice domain.Notice) { f(ctx, notice) }

// reject reports a validation failure and returns it as an error.
func reject(ctx context.Context, n Notifier, msg string) error {
	n.Notify(ctx, domain.ErrorNotice(msg))
	return &domain.ValidationError{Message: msg}
}
