package ws

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestPublish_EncodesEvent(t *testing.T) {
	h := NewHub(quietLogger())
	agency := uuid.New()

	h.Publish(EventStatsUpdated, &agency, map[string]int{"total_sold": 3})

	msg := <-h.broadcast
	assert.Equal(t, &agency, msg.agencyID)

	var ev Event
	require.NoError(t, json.Unmarshal(msg.data, &ev))
	assert.Equal(t, EventStatsUpdated, ev.Type)
	require.NotNil(t, ev.AgencyID)
	assert.Equal(t, agency, *ev.AgencyID)
	assert.False(t, ev.SentAt.IsZero())
}

func TestPublish_DropsWhenQueueFull(t *testing.T) {
	h := NewHub(quietLogger())
	for i := 0; i < cap(h.broadcast)+5; i++ {
		h.Publish(EventDashboardRefresh, nil, nil)
	}
	assert.Len(t, h.broadcast, cap(h.broadcast))
}

func TestReceives(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	assert.True(t, receives(&Client{}, &a))
	assert.True(t, receives(&Client{AgencyID: &a}, nil))
	assert.True(t, receives(&Client{AgencyID: &a}, &a))
	assert.False(t, receives(&Client{AgencyID: &a}, &b))
}

func TestJoinAndLeave_AfterStopDoNotBlock(t *testing.T) {
	h := NewHub(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.Run(ctx)

	finished := make(chan bool, 1)
	go func() {
		joined := h.Join(&Client{})
		h.Leave(nil)
		finished <- joined
	}()

	select {
	case joined := <-finished:
		assert.False(t, joined)
	case <-time.After(time.Second):
		t.Fatal("Join/Leave blocked after the hub stopped")
	}
}
