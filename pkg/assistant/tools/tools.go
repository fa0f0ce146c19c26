// Package tools exposes the assistant facade as named tools taking JSON
// arguments, the shape a chat tool-calling layer sends.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"plantcare/pkg/apperr"
	"plantcare/pkg/assistant/service"
	plantsvc "plantcare/pkg/plant/service"
	"plantcare/pkg/schedule/types"
)

type handler func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error)

var registry = map[string]handler{
	"add_plant": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var in plantsvc.NewPlant
		if err := decode(args, &in); err != nil {
			return invalid(err), nil
		}
		return f.AddPlant(ctx, in)
	},
	"list_plants": func(ctx context.Context, f service.Facade, _ json.RawMessage) (service.Reply, error) {
		return f.ListPlants(ctx)
	},
	"get_plant": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			PlantID string `json:"plant_id"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.GetPlant(ctx, a.PlantID)
	},
	"update_plant": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			PlantID string `json:"plant_id"`
			plantsvc.PlantPatch
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.UpdatePlant(ctx, a.PlantID, a.PlantPatch)
	},
	"remove_plant": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			PlantID string `json:"plant_id"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.RemovePlant(ctx, a.PlantID)
	},
	"record_watering": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			PlantID string `json:"plant_id"`
			Notes   string `json:"notes"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.RecordWatering(ctx, a.PlantID, a.Notes)
	},
	"watering_history": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			PlantID string `json:"plant_id"`
			Limit   int    `json:"limit"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.WateringHistory(ctx, a.PlantID, a.Limit)
	},
	"check_due": func(ctx context.Context, f service.Facade, _ json.RawMessage) (service.Reply, error) {
		return f.CheckDue(ctx)
	},
	"diagnose": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			PlantID  string `json:"plant_id"`
			Symptoms string `json:"symptoms"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.Diagnose(ctx, a.PlantID, a.Symptoms)
	},
	"set_diagnosis": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			IssueID   string `json:"issue_id"`
			Diagnosis string `json:"diagnosis"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.SetDiagnosis(ctx, a.IssueID, a.Diagnosis)
	},
	"health_issues": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			PlantID         string `json:"plant_id"`
			IncludeResolved bool   `json:"include_resolved"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.HealthIssues(ctx, a.PlantID, a.IncludeResolved)
	},
	"resolve_issue": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			IssueID string `json:"issue_id"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.ResolveIssue(ctx, a.IssueID)
	},
	"schedule_reminder": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var trig types.Trigger
		if err := decode(args, &trig); err != nil {
			return invalid(err), nil
		}
		var a struct {
			PlantID     string `json:"plant_id"`
			Description string `json:"description"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.ScheduleReminder(ctx, trig, a.PlantID, a.Description)
	},
	"list_reminders": func(ctx context.Context, f service.Facade, _ json.RawMessage) (service.Reply, error) {
		return f.ListReminders(ctx)
	},
	"cancel_reminder": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			ReminderID string `json:"reminder_id"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		return f.CancelReminder(ctx, a.ReminderID)
	},
	"snooze_reminder": func(ctx context.Context, f service.Facade, args json.RawMessage) (service.Reply, error) {
		var a struct {
			ReminderID string `json:"reminder_id"`
			Duration   string `json:"duration"`
		}
		if err := decode(args, &a); err != nil {
			return invalid(err), nil
		}
		d, err := time.ParseDuration(a.Duration)
		if err != nil {
			return invalid(apperr.Validation("duration", "must be a duration like 10m")), nil
		}
		return f.SnoozeReminder(ctx, a.ReminderID, d)
	},
}

func decode(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}

func invalid(err error) service.Reply {
	return service.Reply{Status: service.StatusInvalid, Text: "Bad arguments: " + err.Error()}
}

// Names lists the registered tools in order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Call runs tool with the given JSON arguments.
func Call(ctx context.Context, f service.Facade, tool string, args json.RawMessage) (service.Reply, error) {
	h, ok := registry[tool]
	if !ok {
		return service.Reply{Status: service.StatusInvalid, Text: fmt.Sprintf("Unknown tool %q.", tool)}, nil
	}
	return h(ctx, f, args)
}
