package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/haven/internal/database"
	"github.com/jask/haven/internal/database/repository"
	"github.com/jask/haven/internal/prompt"
	"github.com/jask/haven/internal/service"
	"github.com/jask/haven/internal/testdata"
	"github.com/jask/haven/internal/wizard"
)

// flowCmd runs one wizard in line mode.
func flowCmd(g *globalFlags, use, short string, build func(*env) (wizard.Controller, error)) *cobra.Command {
	var accessible bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd.Context(), *g, func(e *env) error {
				ctl, err := build(e)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				r := &prompt.Runner{Out: out, Accessible: accessible, Logger: e.log}
				err = r.Run(e.ctx, ctl)
				if errors.Is(err, prompt.ErrAborted) {
					fmt.Fprintln(out, "Nothing saved.")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s saved.\n", ctl.Name())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&accessible, "accessible", os.Getenv("ACCESSIBLE") != "", "plain prompts for screen readers")
	return cmd
}

func summaryCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print goals, sessions and mood trends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd.Context(), *g, func(e *env) error {
				s, err := e.insights.Summary(e.ctx)
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), s, e)
				return nil
			})
		},
	}
}

func printSummary(w io.Writer, s service.Summary, e *env) {
	if s.Profile == nil {
		fmt.Fprintln(w, "Not onboarded yet. Run `haven onboard` to get started.")
		return
	}
	layout := e.cfg.UI.DateFormat
	if layout == "" {
		layout = "Mon 02 Jan"
	}
	fmt.Fprintf(w, "Hi %s\n\n", s.Profile.DisplayName)
	fmt.Fprintf(w, "Check-in streak: %d day(s)\n", s.Streak)
	fmt.Fprintf(w, "Unread notifications: %d\n", s.Unread)

	fmt.Fprintf(w, "\nActive goals (%d)\n", len(s.ActiveGoals))
	for _, g := range s.ActiveGoals {
		fmt.Fprintf(w, "  %-30s %d/%d\n", g.Title, g.Progress, g.TargetCount)
	}

	fmt.Fprintf(w, "\nUpcoming sessions (%d)\n", len(s.Upcoming))
	for _, ses := range s.Upcoming {
		fmt.Fprintf(w, "  %s %s  %s (%s)\n",
			ses.StartsAt.In(e.loc).Format(layout), ses.StartsAt.In(e.loc).Format("15:04"),
			ses.Therapist, strings.ReplaceAll(ses.Modality, "_", " "))
	}

	fmt.Fprintln(w, "\nMood by week")
	for _, wk := range s.Weeks {
		if wk.Count == 0 {
			fmt.Fprintf(w, "  %s  -\n", wk.Start.Format(layout))
			continue
		}
		fmt.Fprintf(w, "  %s  %.1f (%d)\n", wk.Start.Format(layout), wk.Average, wk.Count)
	}
}

func exportCmd(g *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd.Context(), *g, func(e *env) error {
				if output == "" || output == "-" {
					return e.export.Export(e.ctx, cmd.OutOrStdout())
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create export: %w", err)
				}
				if err := e.export.Export(e.ctx, f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (stdout when empty)")
	return cmd
}

func seedCmd(g *globalFlags) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !demo {
				return errors.New("seed writes sample records; pass --demo to confirm")
			}
			return withEnv(cmd.Context(), *g, func(e *env) error {
				err := database.WithTx(e.ctx, e.db, func(tx *sql.Tx) error {
					return testdata.Seed(e.ctx, testdata.Repos{
						Profiles:      repository.NewProfileRepo(tx),
						Goals:         repository.NewGoalRepo(tx),
						Moods:         repository.NewMoodRepo(tx),
						Sessions:      repository.NewSessionRepo(tx),
						Notifications: repository.NewNotificationRepo(tx),
					}, testdata.Options{})
				})
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "demo data loaded")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "load the demo data set")
	return cmd
}

func resetCmd(g *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all personal data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset deletes your profile, goals, check-ins and sessions; pass --yes to confirm")
			}
			return withEnv(cmd.Context(), *g, func(e *env) error {
				if err := e.maintenance.Reset(e.ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "all data removed")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
