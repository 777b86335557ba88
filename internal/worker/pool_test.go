package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUpdater struct {
	calls []struct {
		partID  uuid.UUID
		counter int
	}
	failures int // fail this many calls before succeeding
}

func (u *stubUpdater) UpdatePricing(_ context.Context, partID uuid.UUID, counter int) error {
	u.calls = append(u.calls, struct {
		partID  uuid.UUID
		counter int
	}{partID, counter})
	if u.failures > 0 {
		u.failures--
		return errors.New("transient failure")
	}
	return nil
}

func TestProcessRecalc(t *testing.T) {
	u := &stubUpdater{}
	partID := uuid.New()
	raw, err := json.Marshal(RecalcPayload{PartID: partID.String(), Counter: 2})
	require.NoError(t, err)

	require.NoError(t, processRecalc(context.Background(), u, raw))
	require.Len(t, u.calls, 1)
	assert.Equal(t, partID, u.calls[0].partID)
	assert.Equal(t, 2, u.calls[0].counter)
}

func TestProcessRecalcRetriesTransientFailures(t *testing.T) {
	u := &stubUpdater{failures: 2}
	raw, _ := json.Marshal(RecalcPayload{PartID: uuid.NewString(), Counter: 0})

	require.NoError(t, processRecalc(context.Background(), u, raw))
	assert.Len(t, u.calls, 3)
}

func TestProcessRecalcExhaustsRetries(t *testing.T) {
	u := &stubUpdater{failures: maxAttempts}
	raw, _ := json.Marshal(RecalcPayload{PartID: uuid.NewString(), Counter: 0})

	err := processRecalc(context.Background(), u, raw)
	require.Error(t, err)
	assert.Len(t, u.calls, maxAttempts)
}

func TestProcessRecalcDropsMalformedPayloads(t *testing.T) {
	u := &stubUpdater{}

	// Not JSON at all.
	require.NoError(t, processRecalc(context.Background(), u, json.RawMessage(`{`)))
	// Valid JSON, invalid part id.
	require.NoError(t, processRecalc(context.Background(), u, json.RawMessage(`{"part_id":"nope","counter":0}`)))

	assert.Empty(t, u.calls)
}

func TestJobEnvelopeRoundTrip(t *testing.T) {
	payload, err := json.Marshal(RecalcPayload{PartID: uuid.NewString(), Counter: 1})
	require.NoError(t, err)
	encoded, err := json.Marshal(Job{Type: "pricing_recalc", Payload: payload})
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal(encoded, &job))
	assert.Equal(t, "pricing_recalc", job.Type)

	var got RecalcPayload
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, 1, got.Counter)
}
