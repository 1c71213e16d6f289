//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"signup/internal/audit"
	"signup/pkg/testutil/containers"
)

func TestKafkaStoreProducesKeyedRecords(t *testing.T) {
	broker := containers.NewRedpandaContainer(t).Broker
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const topic = "signup.audit.test"
	client, err := audit.NewKafkaClient([]string{broker}, topic)
	require.NoError(t, err)
	defer client.Close()

	store := audit.NewKafkaStore(client, topic)
	require.NoError(t, store.EnsureTopic(ctx, 1, 1))
	require.NoError(t, store.EnsureTopic(ctx, 1, 1), "existing topic is not an error")

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, audit.Event{
		Category:  audit.CategoryCompliance,
		Action:    audit.ActionAccountRegistered,
		Subject:   "id-123",
		Username:  "alice",
		RequestID: "req-1",
		Device:    "Firefox on Linux",
		Timestamp: at,
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.Len(t, records, 1)

	assert.Equal(t, "id-123", string(records[0].Key))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(records[0].Value, &payload))
	assert.Equal(t, "account_registered", payload["action"])
	assert.Equal(t, "compliance", payload["category"])
	assert.Equal(t, "alice", payload["username"])
	assert.Equal(t, "Firefox on Linux", payload["device"])
	assert.Equal(t, at.Format(time.RFC3339Nano), payload["timestamp"])
	assert.NotEmpty(t, payload["id"])
}
