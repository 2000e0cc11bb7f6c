//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/levantkite/windforecast/internal/adapter/kafka"
	"github.com/levantkite/windforecast/internal/config"
	"github.com/levantkite/windforecast/internal/domain"
	"github.com/levantkite/windforecast/internal/pipeline"
)

const testSnapshotTopic = "test-kiteable-forecasts"

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("windforecast-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial kafka")
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func fl(v float64) *float64 { return &v }

func point(hour int, windKn, dirDeg float64) domain.RawPoint {
	return domain.RawPoint{
		Time:      time.Date(2025, 6, 14, hour, 0, 0, 0, time.UTC),
		WindKn:    fl(windKn),
		GustKn:    fl(windKn + 5),
		DirDeg:    fl(dirDeg),
		PrecipMmH: fl(0),
	}
}

func testBundle() domain.Bundle {
	return domain.Bundle{
		Series: []domain.SpotSeries{
			{
				Spot:   domain.Spot{Name: "Levante Point", Lat: 36.31, Lon: -6.15},
				Hourly: []domain.RawPoint{point(9, 18, 250), point(10, 21, 255)},
			},
			{
				Spot:   domain.Spot{Name: "Calm Cove", Lat: 36.01, Lon: -5.61},
				Hourly: []domain.RawPoint{point(9, 8, 100)},
			},
		},
		ModelUpdates: []domain.ModelUpdate{
			{Model: "meteofrance_arome_france_hd", Run: "2025-06-14T06:00:00Z"},
		},
	}
}

func testConditions() domain.Conditions {
	return domain.Conditions{
		Bands: domain.Bands{
			{Label: "too much", MinKn: 40},
			{Label: "good", MinKn: 17},
			{Label: "light", MinKn: 12},
			{Label: domain.BandBelow, MinKn: 0},
		},
		RainLimit: 0.5,
	}
}

// TestSnapshotPublish verifies the Kafka writer end to end: one message per
// spot lands on the topic with the spot name as key and readable headers.
func TestSnapshotPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSnapshotTopic,
	}

	doc, _, err := pipeline.Build(testBundle(), testConditions(), domain.TimeWindow{DayStart: 8, DayEnd: 21})
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishSnapshot(ctx, &doc))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSnapshotTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	byKey := map[string]kafkago.Message{}
	for len(byKey) < 2 {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read snapshot message")
		byKey[string(msg.Key)] = msg
	}

	windy, ok := byKey["Levante Point"]
	require.True(t, ok, "expected a snapshot for Levante Point")

	headers := map[string]string{}
	for _, h := range windy.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "Levante Point", headers["spot"])
	_, err = time.Parse(time.RFC3339, headers["generated_at"])
	assert.NoError(t, err, "generated_at header should be RFC3339")

	var snap struct {
		GeneratedAt   string `json:"generated_at"`
		KiteableHours int    `json:"kiteable_hours"`
		Spot          struct {
			Name string `json:"name"`
		} `json:"spot"`
	}
	require.NoError(t, json.Unmarshal(windy.Value, &snap))
	assert.Equal(t, "Levante Point", snap.Spot.Name)
	assert.Equal(t, 2, snap.KiteableHours)

	calm, ok := byKey["Calm Cove"]
	require.True(t, ok, "expected a snapshot for Calm Cove")
	require.NoError(t, json.Unmarshal(calm.Value, &snap))
	assert.Equal(t, 0, snap.KiteableHours)
}
