// Package kafka publishes per-spot forecast snapshots to a Kafka topic so
// downstream consumers (alerting, archival) see each refresh.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/levantkite/windforecast/internal/config"
	"github.com/levantkite/windforecast/internal/report"
)

// Writer produces forecast snapshots to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// snapshot is the wire form of one spot's slice of a refresh.
type snapshot struct {
	GeneratedAt   string              `json:"generated_at"`
	Spot          report.SpotReport   `json:"spot"`
	KiteableHours int                 `json:"kiteable_hours"`
	Days          []report.DaySummary `json:"days,omitempty"`
	Models        []report.ModelRun   `json:"models,omitempty"`
}

// PublishSnapshot publishes one message per spot, keyed by spot name so a
// compacted topic keeps each spot's latest forecast. All messages go in a
// single WriteMessages call.
func (w *Writer) PublishSnapshot(ctx context.Context, doc *report.Document) error {
	if len(doc.Spots) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, len(doc.Spots))
	for i := range doc.Spots {
		msg, err := serializeToMessage(doc, &doc.Spots[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write snapshot messages: %w", err)
	}
	w.logger.Debug("snapshots published", "spots", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one spot's snapshot into a Kafka message.
func serializeToMessage(doc *report.Document, spot *report.SpotReport) (kafkago.Message, error) {
	kiteable := 0
	for _, cell := range spot.Hours {
		if cell.Best.Kiteable {
			kiteable++
		}
	}

	snap := snapshot{
		GeneratedAt:   doc.GeneratedAt,
		Spot:          *spot,
		KiteableHours: kiteable,
		Models:        doc.Models,
	}
	for _, day := range doc.Days {
		filtered := report.DaySummary{Date: day.Date}
		for _, s := range day.Spots {
			if s.Spot == spot.Name {
				filtered.Spots = append(filtered.Spots, s)
			}
		}
		if len(filtered.Spots) > 0 {
			snap.Days = append(snap.Days, filtered)
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot for %s: %w", spot.Name, err)
	}
	return kafkago.Message{
		Key:   []byte(spot.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "generated_at", Value: []byte(doc.GeneratedAt)},
			{Key: "spot", Value: []byte(spot.Name)},
		},
	}, nil
}
