package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare/entities"
	"plantcare/pkg/apperr"
)

var now = time.Date(2024, 5, 1, 9, 0, 30, 0, time.UTC)

func TestResolveRejectsMalformedTriggers(t *testing.T) {
	at := now.Add(time.Hour)
	cases := map[string]Trigger{
		"empty":          {},
		"two fields":     {At: &at, After: time.Minute},
		"negative after": {After: -time.Second},
		"zero at":        {At: &time.Time{}},
		"bad cron":       {Cron: "every tuesday"},
		"never fires":    {Cron: "0 0 30 2 *"},
	}
	for name, tr := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(tr, now, time.UTC)
			assert.True(t, apperr.IsInvalidTrigger(err), "got %v", err)
		})
	}
}

func TestResolveKinds(t *testing.T) {
	p, err := Resolve(Trigger{After: 30 * time.Second}, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, entities.TriggerAfter, p.Kind)
	assert.Equal(t, "30s", p.Payload)
	assert.Equal(t, now.Add(30*time.Second), p.First)

	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	p, err = Resolve(Trigger{At: &at}, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, entities.TriggerAt, p.Kind)
	assert.Equal(t, "2024-06-01T06:00:00Z", p.Payload)
	assert.True(t, p.First.Equal(at))

	p, err = Resolve(Trigger{Cron: " 0 8 * * * "}, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, entities.TriggerCron, p.Kind)
	assert.Equal(t, "0 8 * * *", p.Payload)
	assert.Equal(t, time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC), p.First)
}

func TestNextOccurrenceIsStrictlyAfter(t *testing.T) {
	on := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	next, err := NextOccurrence("0 8 * * *", on, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, on.Add(24*time.Hour), next)

	next, err = NextOccurrence("@daily", on, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), next)
}

func TestNextOccurrenceUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	next, err := NextOccurrence("0 8 * * *", now, tokyo)
	require.NoError(t, err)
	// 08:00 JST is 23:00 UTC the previous day
	assert.Equal(t, time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC), next)
}

func TestTriggerUnmarshalAfter(t *testing.T) {
	var tr Trigger
	require.NoError(t, json.Unmarshal([]byte(`{"after":"90s"}`), &tr))
	assert.Equal(t, 90*time.Second, tr.After)

	require.NoError(t, json.Unmarshal([]byte(`{"after":30}`), &tr))
	assert.Equal(t, 30*time.Second, tr.After)

	require.NoError(t, json.Unmarshal([]byte(`{"cron":"@hourly"}`), &tr))
	assert.Zero(t, tr.After)
	assert.Equal(t, "@hourly", tr.Cron)

	err := json.Unmarshal([]byte(`{"after":"soon"}`), &tr)
	assert.True(t, apperr.IsInvalidTrigger(err))
}
