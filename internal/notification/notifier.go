// Package notification delivers trade-event alerts to external channels.
package notification

import (
	"context"
	"fmt"
	"log"

	"signal-systemv1/internal/model"
)

// Alert is one trade notification.
type Alert struct {
	Symbol   string           `json:"symbol"`
	Interval string           `json:"interval"`
	Event    model.TradeEvent `json:"event"`
}

// Summary renders a one-line human-readable form of the alert.
func (a Alert) Summary() string {
	return fmt.Sprintf("%s %s %s @ %.4f (profit %.2f%%)",
		a.Event.TradeType, a.Symbol, a.Interval, a.Event.Price, a.Event.Profit)
}

// Notifier is the interface for all notification backends. Delivery is
// best effort; live sessions never block on it.
type Notifier interface {
	Send(ctx context.Context, alert Alert) error
}

// LogNotifier logs alerts. The default backend when no webhook is
// configured.
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(_ context.Context, alert Alert) error {
	log.Printf("[notify] %s", alert.Summary())
	return nil
}
