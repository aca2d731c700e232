package notify

import (
	"context"
	"errors"

	"labflow/internal/core/ports"
)

// FanOut delivers every alert to all notifiers. One failing channel does not
// stop delivery to the others; the failures are joined.
type FanOut struct {
	notifiers []ports.AlertNotifier
}

func NewFanOut(notifiers ...ports.AlertNotifier) *FanOut {
	return &FanOut{notifiers: notifiers}
}

func (f *FanOut) Notify(ctx context.Context, alert ports.Alert) error {
	var err error
	for _, n := range f.notifiers {
		err = errors.Join(err, n.Notify(ctx, alert))
	}
	return err
}
