package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"plantcare/pkg/assistant/tools"
	"plantcare/pkg/notify"
	plantsvc "plantcare/pkg/plant/service"
	"plantcare/pkg/schedule/types"
)

func plantCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "plant", Short: "Manage plants"}

	var in plantsvc.NewPlant
	var every int
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a plant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("every") {
				in.WaterFrequencyDays = &every
			}
			r, err := instance.Facade.AddPlant(cmd.Context(), in)
			return show(cmd.OutOrStdout(), r, err)
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "plant name")
	add.Flags().StringVar(&in.Type, "type", "", "species")
	add.Flags().StringVar(&in.Location, "location", "", "where it lives")
	add.Flags().StringVar(&in.Light, "light", "", "light requirement")
	add.Flags().StringVar(&in.Notes, "notes", "", "free-text notes")
	add.Flags().IntVar(&every, "every", 0, "water every N days (default from care profile)")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("type")

	list := &cobra.Command{
		Use:   "list",
		Short: "List plants, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := instance.Facade.ListPlants(cmd.Context())
			return show(cmd.OutOrStdout(), r, err)
		},
	}

	get := &cobra.Command{
		Use:   "show ID",
		Short: "Show one plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := instance.Facade.GetPlant(cmd.Context(), args[0])
			return show(cmd.OutOrStdout(), r, err)
		},
	}

	var (
		name, typ, location, light, notes string
		freq                              int
	)
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change plant fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch plantsvc.PlantPatch
			f := cmd.Flags()
			if f.Changed("name") {
				patch.Name = &name
			}
			if f.Changed("type") {
				patch.Type = &typ
			}
			if f.Changed("location") {
				patch.Location = &location
			}
			if f.Changed("light") {
				patch.Light = &light
			}
			if f.Changed("notes") {
				patch.Notes = &notes
			}
			if f.Changed("every") {
				patch.WaterFrequencyDays = &freq
			}
			r, err := instance.Facade.UpdatePlant(cmd.Context(), args[0], patch)
			return show(cmd.OutOrStdout(), r, err)
		},
	}
	update.Flags().StringVar(&name, "name", "", "plant name")
	update.Flags().StringVar(&typ, "type", "", "species")
	update.Flags().StringVar(&location, "location", "", "where it lives")
	update.Flags().StringVar(&light, "light", "", "light requirement")
	update.Flags().StringVar(&notes, "notes", "", "free-text notes")
	update.Flags().IntVar(&freq, "every", 0, "water every N days")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a plant and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := instance.Facade.RemovePlant(cmd.Context(), args[0])
			return show(cmd.OutOrStdout(), r, err)
		},
	}

	cmd.AddCommand(add, list, get, update, rm)
	return cmd
}

func waterCmd() *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "water PLANT_ID",
		Short: "Record a watering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := instance.Facade.RecordWatering(cmd.Context(), args[0], notes)
			return show(cmd.OutOrStdout(), r, err)
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "notes for this watering")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history PLANT_ID",
		Short: "Show recent waterings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := instance.Facade.WateringHistory(cmd.Context(), args[0], limit)
			return show(cmd.OutOrStdout(), r, err)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", plantsvc.DefaultHistoryLimit, "max events")
	return cmd
}

func dueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List plants that need water",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := instance.Facade.CheckDue(cmd.Context())
			return show(cmd.OutOrStdout(), r, err)
		},
	}
}

func diagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose PLANT_ID SYMPTOMS...",
		Short: "Record a health issue",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := instance.Facade.Diagnose(cmd.Context(), args[0], strings.Join(args[1:], " "))
			return show(cmd.OutOrStdout(), r, err)
		},
	}
}

func issueCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "issue", Short: "Manage health issues"}

	var all bool
	list := &cobra.Command{
		Use:   "list PLANT_ID",
		Short: "List health issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := instance.Facade.HealthIssues(cmd.Context(), args[0], all)
			return show(cmd.OutOrStdout(), r, err)
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include resolved issues")

	resolve := &cobra.Command{
		Use:   "resolve ISSUE_ID",
		Short: "Mark an issue resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := instance.Facade.ResolveIssue(cmd.Context(), args[0])
			return show(cmd.OutOrStdout(), r, err)
		},
	}

	dx := &cobra.Command{
		Use:   "diagnosis ISSUE_ID TEXT...",
		Short: "Attach diagnosis text to an issue",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := instance.Facade.SetDiagnosis(cmd.Context(), args[0], strings.Join(args[1:], " "))
			return show(cmd.OutOrStdout(), r, err)
		},
	}

	cmd.AddCommand(list, resolve, dx)
	return cmd
}

func remindCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "remind", Short: "Manage reminders"}

	var (
		at, cronExpr, plantID, desc string
		after                       time.Duration
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Schedule a reminder (exactly one of --at, --after, --cron)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			trig := types.Trigger{After: after, Cron: cronExpr}
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				trig.At = &t
			}
			r, err := instance.Facade.ScheduleReminder(cmd.Context(), trig, plantID, desc)
			return show(cmd.OutOrStdout(), r, err)
		},
	}
	add.Flags().StringVar(&at, "at", "", "fire once at an RFC3339 instant")
	add.Flags().DurationVar(&after, "after", 0, "fire once after a delay, e.g. 30m")
	add.Flags().StringVar(&cronExpr, "cron", "", "fire on a cron schedule, e.g. \"0 8 * * *\" or @daily")
	add.Flags().StringVar(&plantID, "plant", "", "plant id the reminder is about")
	add.Flags().StringVar(&desc, "desc", "", "what to remind about")

	list := &cobra.Command{
		Use:   "list",
		Short: "List scheduled reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := instance.Facade.ListReminders(cmd.Context())
			return show(cmd.OutOrStdout(), r, err)
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := instance.Facade.CancelReminder(cmd.Context(), args[0])
			return show(cmd.OutOrStdout(), r, err)
		},
	}

	snooze := &cobra.Command{
		Use:   "snooze ID DURATION",
		Short: "Push a reminder back",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := time.ParseDuration(args[1])
			if err != nil {
				return fmt.Errorf("duration: %w", err)
			}
			r, err := instance.Facade.SnoozeReminder(cmd.Context(), args[0], d)
			return show(cmd.OutOrStdout(), r, err)
		},
	}

	fire := &cobra.Command{
		Use:   "fire",
		Short: "Fire every reminder due now and append them to the transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fired, err := instance.Schedule.DueReminders(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, ev := range fired {
				if err := instance.Transcript.Notify(cmd.Context(), ev); err != nil {
					return err
				}
				fmt.Fprintln(out, notify.Message(ev))
			}
			if len(fired) == 0 {
				fmt.Fprintln(out, "Nothing due.")
			}
			return nil
		},
	}

	cmd.AddCommand(add, list, cancel, snooze, fire)
	return cmd
}

func toolCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "tool NAME [JSON_ARGS]",
		Short:     "Call an assistant tool the way a chat layer would",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: tools.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
				if !json.Valid(raw) {
					return fmt.Errorf("arguments are not valid JSON")
				}
			}
			r, err := tools.Call(cmd.Context(), instance.Facade, args[0], raw)
			return show(cmd.OutOrStdout(), r, err)
		},
	}
}

func profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List known species care profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, p := range instance.Profiles.All() {
				fmt.Fprintf(out, "%-20s every %2d days  %s\n", p.Species, p.WaterFrequencyDays, p.Light)
			}
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(plantCmd(), waterCmd(), historyCmd(), dueCmd(), diagnoseCmd(),
		issueCmd(), remindCmd(), toolCmd(), profilesCmd())
}
