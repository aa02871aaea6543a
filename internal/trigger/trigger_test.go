package trigger

import (
	"io"
	"log/slog"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
)

func TestNewSubscriber_Validation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notify := func() {}

	_, err := NewSubscriber(nil, "changes", notify, logger)
	assert.Error(t, err)

	_, err = NewSubscriber(&nats.Conn{}, "", notify, logger)
	assert.Error(t, err)

	_, err = NewSubscriber(&nats.Conn{}, "changes", nil, logger)
	assert.Error(t, err)
}

func TestSubscriber_StopBeforeStart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewSubscriber(&nats.Conn{}, "changes", func() {}, logger)
	assert.NoError(t, err)
	assert.NoError(t, s.Stop())
}
