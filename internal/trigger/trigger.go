// Package trigger nudges the synchronizer when record changes are
// announced on NATS. Messages carry no task data: the change log remains
// the source of truth, a notification only pulls the next pass forward
// instead of waiting for the scheduled tick.
package trigger

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Subscriber listens on a NATS subject and invokes notify on every message.
type Subscriber struct {
	nc      *nats.Conn
	subject string
	notify  func()
	logger  *slog.Logger

	sub *nats.Subscription
}

// NewSubscriber creates a subscriber. notify is typically Runner.Trigger.
func NewSubscriber(nc *nats.Conn, subject string, notify func(), logger *slog.Logger) (*Subscriber, error) {
	if nc == nil {
		return nil, fmt.Errorf("nats connection cannot be nil")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject cannot be empty")
	}
	if notify == nil {
		return nil, fmt.Errorf("notify callback cannot be nil")
	}
	return &Subscriber{
		nc:      nc,
		subject: subject,
		notify:  notify,
		logger:  logger.With("component", "trigger"),
	}, nil
}

// Start subscribes to the subject.
func (s *Subscriber) Start() error {
	sub, err := s.nc.Subscribe(s.subject, func(msg *nats.Msg) {
		s.logger.Debug("change notification received", "subject", msg.Subject)
		s.notify()
	})
	if err != nil {
		return fmt.Errorf("subscribe to %q: %w", s.subject, err)
	}
	s.sub = sub
	s.logger.Info("trigger subscription started", "subject", s.subject)
	return nil
}

// Stop unsubscribes. Safe to call before Start.
func (s *Subscriber) Stop() error {
	if s.sub == nil {
		return nil
	}
	if err := s.sub.Unsubscribe(); err != nil {
		return err
	}
	s.sub = nil
	s.logger.Info("trigger subscription stopped", "subject", s.subject)
	return nil
}
