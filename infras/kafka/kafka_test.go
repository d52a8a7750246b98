package kafka_test

import (
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"ghumakad/infras/kafka"
)

type bookingEventPayload struct {
	Event     string `json:"event"`
	BookingID string `json:"booking_id"`
}

func TestMessage_RoundTrip(t *testing.T) {
	message := kafka.Message{
		Key: "booking-id-123",
		Value: bookingEventPayload{
			Event:     "booking.confirmed",
			BookingID: "booking-id-123",
		},
	}

	encoded, err := message.ToKafkaMessage()
	assert.NoError(t, err)
	assert.Equal(t, "booking-id-123", string(encoded.Key))

	decoded, err := kafka.DecodeKafkaMessage[bookingEventPayload](encoded)
	assert.NoError(t, err)
	assert.Equal(t, "booking-id-123", decoded.Key)

	payload, ok := decoded.Value.(bookingEventPayload)
	assert.True(t, ok)
	assert.Equal(t, "booking.confirmed", payload.Event)
	assert.Equal(t, "booking-id-123", payload.BookingID)
}

func TestDecodeKafkaMessage_MalformedPayload(t *testing.T) {
	_, err := kafka.DecodeKafkaMessage[bookingEventPayload](kafkaGo.Message{
		Key:   []byte("booking-id-123"),
		Value: []byte("{not json"),
	})

	assert.Error(t, err)
}
