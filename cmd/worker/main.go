package main

import (
	"context"
	"os/signal"
	"syscall"

	"ghumakad/config"
	"ghumakad/infras/kafka"
	"ghumakad/internal/domains/booking/service"
	"ghumakad/shared/logger"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Booking-events worker: follows the topic the API publishes to and writes
// an audit line per booking lifecycle event.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	topic := cfg.Kafka.Topics.BookingEvents
	if topic == "" {
		log.Fatal().Msg("Booking events topic is not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := kafka.New(cfg)

	log.Info().Str("topic", topic).Msg("Consuming booking events")

	client.Consume(ctx, cfg.Kafka.ConsumerGroup, topic, handleBookingEvent)
}

func handleBookingEvent(msg kafkaGo.Message) {
	decoded, err := kafka.DecodeKafkaMessage[service.BookingEvent](msg)
	if err != nil {
		log.Error().Err(err).Str("key", string(msg.Key)).Msg("Failed to decode booking event")

		return
	}

	event, ok := decoded.Value.(service.BookingEvent)
	if !ok {
		log.Error().Str("key", decoded.Key).Msg("Unexpected booking event payload")

		return
	}

	log.Info().
		Str("event", event.Event).
		Str("booking", event.BookingID).
		Str("type", event.Type).
		Str("reference", event.ReferenceID).
		Str("user", event.UserID).
		Int64("totalPrice", event.TotalPrice).
		Time("occurredAt", event.OccurredAt).
		Msg("Booking event received")
}
