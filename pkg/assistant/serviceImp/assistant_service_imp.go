package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/assistant/service"
	"plantcare/pkg/careprofile"
	plantsvc "plantcare/pkg/plant/service"
	schedsvc "plantcare/pkg/schedule/service"
	"plantcare/pkg/schedule/types"
)

const timeLayout = "Mon 2 Jan 15:04 MST"

type facade struct {
	plants   plantsvc.PlantStore
	sched    schedsvc.ScheduleManager
	profiles *careprofile.Catalogue
	log      *zap.Logger
	loc      *time.Location
}

// New wires the facade. A nil catalogue disables species defaults; loc is
// used for rendering times in reply text.
func New(plants plantsvc.PlantStore, sched schedsvc.ScheduleManager, profiles *careprofile.Catalogue, loc *time.Location, log *zap.Logger) service.Facade {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &facade{plants: plants, sched: sched, profiles: profiles, log: log.Named("assistant"), loc: loc}
}

func ok(text string, data any) (service.Reply, error) {
	return service.Reply{Status: service.StatusOK, Text: text, Data: data}, nil
}

// settle turns result-variant errors into replies and passes storage
// failures through.
func (f *facade) settle(err error) (service.Reply, error) {
	var nf *apperr.NotFoundError
	switch {
	case errors.As(err, &nf):
		return service.Reply{Status: service.StatusNotFound, Text: fmt.Sprintf("I couldn't find a %s with id %s.", nf.Kind, nf.ID)}, nil
	case apperr.IsValidation(err), apperr.IsInvalidTrigger(err):
		return service.Reply{Status: service.StatusInvalid, Text: "That didn't work: " + err.Error()}, nil
	default:
		f.log.Error("assistant call failed", zap.Error(err))
		return service.Reply{}, err
	}
}

func (f *facade) when(t time.Time) string { return t.In(f.loc).Format(timeLayout) }

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func describe(p *entities.Plant) string {
	if p.Location != "" {
		return fmt.Sprintf("%s (%s, %s)", p.Name, p.Type, p.Location)
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Type)
}

func (f *facade) AddPlant(ctx context.Context, in plantsvc.NewPlant) (service.Reply, error) {
	if prof, found := f.profiles.Lookup(in.Type); found {
		if in.WaterFrequencyDays == nil {
			days := prof.WaterFrequencyDays
			in.WaterFrequencyDays = &days
		}
		if strings.TrimSpace(in.Light) == "" {
			in.Light = prof.Light
		}
	}
	p, err := f.plants.AddPlant(ctx, in)
	if err != nil {
		return f.settle(err)
	}
	return ok(fmt.Sprintf("Added %s. I'll expect it to need water every %d %s.",
		describe(p), p.WaterFrequencyDays, plural(p.WaterFrequencyDays, "day", "days")), p)
}

func (f *facade) ListPlants(ctx context.Context) (service.Reply, error) {
	ps, err := f.plants.ListPlants(ctx)
	if err != nil {
		return f.settle(err)
	}
	if len(ps) == 0 {
		return ok("You haven't added any plants yet.", ps)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d %s:", len(ps), plural(len(ps), "plant", "plants"))
	for i := range ps {
		fmt.Fprintf(&b, "\n- %s", describe(&ps[i]))
	}
	return ok(b.String(), ps)
}

func (f *facade) GetPlant(ctx context.Context, id string) (service.Reply, error) {
	p, err := f.plants.GetPlant(ctx, id)
	if err != nil {
		return f.settle(err)
	}
	last := "never watered"
	if p.LastWatered != nil {
		last = "last watered " + f.when(*p.LastWatered)
	}
	return ok(fmt.Sprintf("%s, every %d days, %s.", describe(p), p.WaterFrequencyDays, last), p)
}

func (f *facade) UpdatePlant(ctx context.Context, id string, patch plantsvc.PlantPatch) (service.Reply, error) {
	p, err := f.plants.UpdatePlant(ctx, id, patch)
	if err != nil {
		return f.settle(err)
	}
	return ok("Updated "+describe(p)+".", p)
}

func (f *facade) RemovePlant(ctx context.Context, id string) (service.Reply, error) {
	p, err := f.plants.RemovePlant(ctx, id)
	if err != nil {
		return f.settle(err)
	}
	return ok(fmt.Sprintf("Removed %s and its care history.", p.Name), p)
}

func (f *facade) RecordWatering(ctx context.Context, plantID, notes string) (service.Reply, error) {
	ev, err := f.plants.RecordWatering(ctx, plantID, notes)
	if err != nil {
		return f.settle(err)
	}
	name := plantID
	if p, err := f.plants.GetPlant(ctx, plantID); err == nil {
		name = p.Name
	}
	return ok(fmt.Sprintf("Logged a watering for %s at %s.", name, f.when(ev.WateredAt)), ev)
}

func (f *facade) WateringHistory(ctx context.Context, plantID string, limit int) (service.Reply, error) {
	p, err := f.plants.GetPlant(ctx, plantID)
	if err != nil {
		return f.settle(err)
	}
	hist, err := f.plants.GetWateringHistory(ctx, plantID, limit)
	if err != nil {
		return f.settle(err)
	}
	if len(hist) == 0 {
		return ok(p.Name+" has no recorded waterings.", hist)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Recent waterings for %s:", p.Name)
	for _, ev := range hist {
		fmt.Fprintf(&b, "\n- %s", f.when(ev.WateredAt))
		if ev.Notes != "" {
			fmt.Fprintf(&b, " (%s)", ev.Notes)
		}
	}
	return ok(b.String(), hist)
}

func (f *facade) CheckDue(ctx context.Context) (service.Reply, error) {
	due, err := f.plants.ListPlantsDueForWatering(ctx)
	if err != nil {
		return f.settle(err)
	}
	if len(due) == 0 {
		return ok("None of your plants need water right now.", due)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s need water:", len(due), plural(len(due), "plant", "plants"))
	for i := range due {
		if due[i].LastWatered == nil {
			fmt.Fprintf(&b, "\n- %s, never watered", due[i].Name)
			continue
		}
		fmt.Fprintf(&b, "\n- %s, last watered %s", due[i].Name, f.when(*due[i].LastWatered))
	}
	return ok(b.String(), due)
}

func (f *facade) Diagnose(ctx context.Context, plantID, symptoms string) (service.Reply, error) {
	issue, err := f.plants.RecordHealthIssue(ctx, plantID, symptoms, "")
	if err != nil {
		return f.settle(err)
	}
	return ok(fmt.Sprintf("Noted the symptoms (%s). Issue %s is open until resolved.", issue.Description, issue.ID), issue)
}

func (f *facade) SetDiagnosis(ctx context.Context, issueID, diagnosis string) (service.Reply, error) {
	issue, err := f.plants.SetDiagnosis(ctx, issueID, diagnosis)
	if err != nil {
		return f.settle(err)
	}
	return ok("Saved the diagnosis for issue "+issue.ID+".", issue)
}

func (f *facade) HealthIssues(ctx context.Context, plantID string, includeResolved bool) (service.Reply, error) {
	p, err := f.plants.GetPlant(ctx, plantID)
	if err != nil {
		return f.settle(err)
	}
	issues, err := f.plants.ListHealthIssues(ctx, plantID, includeResolved)
	if err != nil {
		return f.settle(err)
	}
	if len(issues) == 0 {
		return ok(p.Name+" has no open health issues.", issues)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Health issues for %s:", p.Name)
	for _, is := range issues {
		state := "open"
		if is.Resolved {
			state = "resolved"
		}
		fmt.Fprintf(&b, "\n- [%s] %s", state, is.Description)
		if is.Diagnosis != "" {
			fmt.Fprintf(&b, ": %s", is.Diagnosis)
		}
	}
	return ok(b.String(), issues)
}

func (f *facade) ResolveIssue(ctx context.Context, issueID string) (service.Reply, error) {
	issue, err := f.plants.ResolveHealthIssue(ctx, issueID)
	if err != nil {
		return f.settle(err)
	}
	return ok(fmt.Sprintf("Marked %q as resolved.", issue.Description), issue)
}

func (f *facade) ScheduleReminder(ctx context.Context, trigger types.Trigger, plantID, description string) (service.Reply, error) {
	if plantID != "" {
		p, err := f.plants.GetPlant(ctx, plantID)
		if err != nil {
			return f.settle(err)
		}
		if strings.TrimSpace(description) == "" {
			description = "Water " + p.Name
		}
	}
	rem, err := f.sched.Schedule(ctx, trigger, plantID, description)
	if err != nil {
		return f.settle(err)
	}
	text := fmt.Sprintf("Reminder set: %s at %s.", rem.Description, f.when(rem.NextFireAt))
	if rem.IsRecurring() {
		text = fmt.Sprintf("Recurring reminder set: %s (%s), first at %s.", rem.Description, rem.TriggerPayload, f.when(rem.NextFireAt))
	}
	return ok(text, rem)
}

func (f *facade) ListReminders(ctx context.Context) (service.Reply, error) {
	rs, err := f.sched.ListReminders(ctx)
	if err != nil {
		return f.settle(err)
	}
	if len(rs) == 0 {
		return ok("No reminders scheduled.", rs)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s scheduled:", len(rs), plural(len(rs), "reminder", "reminders"))
	for _, r := range rs {
		fmt.Fprintf(&b, "\n- %s at %s", r.Description, f.when(r.NextFireAt))
	}
	return ok(b.String(), rs)
}

func (f *facade) CancelReminder(ctx context.Context, id string) (service.Reply, error) {
	if err := f.sched.Cancel(ctx, id); err != nil {
		return f.settle(err)
	}
	return ok("Cancelled reminder "+id+".", map[string]string{"id": id})
}

func (f *facade) SnoozeReminder(ctx context.Context, id string, d time.Duration) (service.Reply, error) {
	rem, err := f.sched.Snooze(ctx, id, d)
	if err != nil {
		return f.settle(err)
	}
	return ok(fmt.Sprintf("Snoozed %s until %s.", rem.Description, f.when(rem.NextFireAt)), rem)
}
