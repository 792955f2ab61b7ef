package kafka

import (
	"context"
	"testing"

	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBookingEvent(t *testing.T) {
	event, err := DecodeBookingEvent([]byte(`{"type":"booking_confirmed","booking_id":"BK-1","points_earned":30}`))
	require.NoError(t, err)
	assert.Equal(t, EventBookingConfirmed, event.Type)
	assert.Equal(t, "BK-1", event.BookingID)
	assert.Equal(t, int64(30), event.PointsEarned)

	_, err = DecodeBookingEvent([]byte(`{"type":"booking_confirmed"}`))
	assert.Error(t, err)

	_, err = DecodeBookingEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestProducer_CloseAndCheck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	p := NewProducer(nil, logger.NewNop())
	assert.ErrorContains(t, p.CheckConnection(ctx), "no kafka brokers configured")
	assert.NoError(t, p.Close())

	var c *Consumer
	assert.NoError(t, c.Close())
}
