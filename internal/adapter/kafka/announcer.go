// Package kafka publishes dataset refresh announcements so downstream
// consumers can react to ephemeris reloads without polling the API.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/dhannywi/surfwax-iss/internal/config"
	"github.com/dhannywi/surfwax-iss/internal/domain"
)

// Announcement is the payload published after each successful reload.
type Announcement struct {
	Source       string    `json:"source"`
	FetchedAt    time.Time `json:"fetched_at"`
	StateVectors int       `json:"state_vectors"`
	FirstEpoch   string    `json:"first_epoch"`
	LastEpoch    string    `json:"last_epoch"`
}

// Announcer produces refresh announcements to a Kafka topic.
// It implements refresh.Announcer.
type Announcer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAnnouncer creates a Kafka producer for the configured announcement topic.
func NewAnnouncer(cfg *config.Config, logger *slog.Logger) *Announcer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Announcer{writer: w, logger: logger}
}

// AnnounceRefresh publishes one announcement describing the dataset.
func (a *Announcer) AnnounceRefresh(ctx context.Context, ds *domain.Dataset) error {
	msg, err := serializeAnnouncement(ds)
	if err != nil {
		return err
	}
	return a.writer.WriteMessages(ctx, msg)
}

func (a *Announcer) Close() error {
	return a.writer.Close()
}

// serializeAnnouncement marshals a dataset summary into a Kafka message.
// Messages are keyed by feed URL, so announcements for one feed stay on
// one partition in publish order.
func serializeAnnouncement(ds *domain.Dataset) (kafkago.Message, error) {
	ann := Announcement{
		Source:       ds.Source,
		FetchedAt:    ds.FetchedAt,
		StateVectors: len(ds.StateVectors),
	}
	if n := len(ds.StateVectors); n > 0 {
		ann.FirstEpoch = ds.StateVectors[0].Epoch
		ann.LastEpoch = ds.StateVectors[n-1].Epoch
	}

	data, err := json.Marshal(ann)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize refresh announcement: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ds.Source),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(ds.Source)},
			{Key: "fetched_at", Value: []byte(ds.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
