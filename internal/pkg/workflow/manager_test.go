package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStopLeavesStopChannelClosed(t *testing.T) {
	m := &Manager{
		queue:              NewQueue(1),
		stopCh:             make(chan struct{}),
		quoteExpiryTicker:  time.NewTicker(time.Hour),
		counterFlushTicker: time.NewTicker(time.Hour),
	}
	m.running = true

	m.Stop()

	assert.False(t, m.IsRunning())
	// a worker whose select re-evaluates after Stop must see a closed
	// channel, not a nil one it would block on forever
	require.NotNil(t, m.stopCh)
	select {
	case <-m.stopCh:
	default:
		t.Fatal("stop channel should read as closed after Stop")
	}
}

func TestManagerStopIsIdempotent(t *testing.T) {
	m := &Manager{
		queue:              NewQueue(1),
		stopCh:             make(chan struct{}),
		quoteExpiryTicker:  time.NewTicker(time.Hour),
		counterFlushTicker: time.NewTicker(time.Hour),
	}
	m.running = true

	m.Stop()
	assert.NotPanics(t, m.Stop)
}
