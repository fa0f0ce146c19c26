// Package types holds the reminder trigger forms and their next-fire
// arithmetic.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"plantcare/entities"
	"plantcare/pkg/apperr"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Trigger selects when a reminder fires. Exactly one field must be set.
type Trigger struct {
	At    *time.Time    `json:"at,omitempty"`
	After time.Duration `json:"after,omitempty"`
	Cron  string        `json:"cron,omitempty"`
}

// UnmarshalJSON accepts "after" as a Go duration string ("30s", "2h") or a
// number of seconds.
func (t *Trigger) UnmarshalJSON(b []byte) error {
	var raw struct {
		At    *time.Time      `json:"at"`
		After json.RawMessage `json:"after"`
		Cron  string          `json:"cron"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t.At, t.Cron, t.After = raw.At, raw.Cron, 0
	if len(raw.After) == 0 || string(raw.After) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.After, &s); err == nil {
		d, err := time.ParseDuration(s)
		if err != nil {
			return apperr.InvalidTrigger("after is not a duration", err)
		}
		t.After = d
		return nil
	}
	var secs float64
	if err := json.Unmarshal(raw.After, &secs); err != nil {
		return apperr.InvalidTrigger("after must be a duration string or seconds", err)
	}
	t.After = time.Duration(secs * float64(time.Second))
	return nil
}

// Plan is a validated trigger ready to persist.
type Plan struct {
	Kind    string
	Payload string
	First   time.Time
}

// Resolve validates t and computes its first fire time relative to now.
// Cron expressions are evaluated in loc.
func Resolve(t Trigger, now time.Time, loc *time.Location) (Plan, error) {
	set := 0
	if t.At != nil {
		set++
	}
	if t.After != 0 {
		set++
	}
	if strings.TrimSpace(t.Cron) != "" {
		set++
	}
	switch {
	case set == 0:
		return Plan{}, apperr.InvalidTrigger("one of at, after or cron is required", nil)
	case set > 1:
		return Plan{}, apperr.InvalidTrigger("only one of at, after or cron may be set", nil)
	}

	switch {
	case t.At != nil:
		if t.At.IsZero() {
			return Plan{}, apperr.InvalidTrigger("at must be a valid instant", nil)
		}
		at := t.At.UTC().Truncate(time.Millisecond)
		return Plan{Kind: entities.TriggerAt, Payload: at.Format(time.RFC3339Nano), First: at}, nil
	case t.After != 0:
		if t.After < 0 {
			return Plan{}, apperr.InvalidTrigger("after must be positive", nil)
		}
		return Plan{Kind: entities.TriggerAfter, Payload: t.After.String(), First: now.Add(t.After)}, nil
	default:
		expr := strings.TrimSpace(t.Cron)
		next, err := NextOccurrence(expr, now, loc)
		if err != nil {
			return Plan{}, err
		}
		return Plan{Kind: entities.TriggerCron, Payload: expr, First: next}, nil
	}
}

// NextOccurrence returns the first activation of expr strictly after t.
func NextOccurrence(expr string, after time.Time, loc *time.Location) (time.Time, error) {
	sched, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, apperr.InvalidTrigger(fmt.Sprintf("cron %q does not parse", expr), err)
	}
	if loc == nil {
		loc = time.UTC
	}
	next := sched.Next(after.In(loc))
	if next.IsZero() {
		return time.Time{}, apperr.InvalidTrigger(fmt.Sprintf("cron %q never fires", expr), nil)
	}
	return next.UTC().Truncate(time.Millisecond), nil
}
