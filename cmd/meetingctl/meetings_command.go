package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FizzahNasir/FYP-Synkro/internal/adapter/repository"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/repositories"
	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/database"
)

func newMeetingsCommand(ctx *commandContext) *cobra.Command {
	meetingsCmd := &cobra.Command{
		Use:     "meetings",
		Aliases: []string{"meeting", "m"},
		Short:   "Inspect and drive meetings",
	}

	meetingsCmd.AddCommand(newMeetingsListCommand(ctx))
	meetingsCmd.AddCommand(newMeetingsShowCommand(ctx))
	meetingsCmd.AddCommand(newMeetingsTasksCommand(ctx))
	meetingsCmd.AddCommand(newMeetingsRunCommand(ctx, false))
	meetingsCmd.AddCommand(newMeetingsRunCommand(ctx, true))

	return meetingsCmd
}

func newMeetingsListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	var teamFlag string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List meetings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := repositories.MeetingFilters{Limit: limit}
			for _, s := range statuses {
				status := entities.MeetingStatus(strings.ToLower(strings.TrimSpace(s)))
				if !status.IsValid() {
					return fmt.Errorf("unknown status %q", s)
				}
				filters.Statuses = append(filters.Statuses, status)
			}
			if teamFlag != "" {
				teamID, err := uuid.Parse(teamFlag)
				if err != nil {
					return fmt.Errorf("invalid team id: %w", err)
				}
				filters.TeamID = &teamID
			}

			_, db, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			meetings, err := repository.NewMeetingRepository(db).List(cmd.Context(), filters)
			if err != nil {
				return err
			}
			printMeetings(cmd.OutOrStdout(), meetings, time.Now())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status (repeatable)")
	cmd.Flags().StringVar(&teamFlag, "team", "", "Filter by team id")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum meetings to list")
	return cmd
}

func printMeetings(out io.Writer, meetings []*entities.Meeting, now time.Time) {
	if len(meetings) == 0 {
		fmt.Fprintln(out, "No meetings")
		return
	}

	rows := make([][]string, 0, len(meetings))
	for _, m := range meetings {
		rows = append(rows, []string{
			m.ID.String(),
			m.Title,
			string(m.Status),
			formatDuration(m.DurationSeconds),
			humanize.RelTime(m.CreatedAt, now, "ago", "from now"),
			m.FailureReason(),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "Status", "Duration", "Created", "Failure"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
}

func newMeetingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <meeting-id>",
		Short: "Show a meeting with its summary and action items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid meeting id: %w", err)
			}

			_, db, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			meeting, err := repository.NewMeetingRepository(db).FindByIDWithItems(cmd.Context(), id)
			if err != nil {
				return err
			}
			if meeting == nil {
				return fmt.Errorf("meeting %s not found", id)
			}
			printMeeting(cmd.OutOrStdout(), meeting)
			return nil
		},
	}
}

func printMeeting(out io.Writer, m *entities.Meeting) {
	fmt.Fprintf(out, "Meeting:  %s\n", m.ID)
	fmt.Fprintf(out, "Title:    %s\n", m.Title)
	fmt.Fprintf(out, "Status:   %s\n", m.Status)
	fmt.Fprintf(out, "Duration: %s\n", formatDuration(m.DurationSeconds))
	if reason := m.FailureReason(); reason != "" {
		fmt.Fprintf(out, "Failure:  %s\n", reason)
	}
	if m.Summary != nil {
		fmt.Fprintf(out, "\nSummary:\n%s\n", *m.Summary)
	}

	if len(m.ActionItems) == 0 {
		fmt.Fprintln(out, "\nAction items: none")
		return
	}

	rows := make([][]string, 0, len(m.ActionItems))
	for _, item := range m.ActionItems {
		assignee, deadline := "-", "-"
		if item.AssigneeMentioned != nil {
			assignee = *item.AssigneeMentioned
		}
		if item.DeadlineMentioned != nil {
			deadline = time.Time(*item.DeadlineMentioned).Format(time.DateOnly)
		}
		rows = append(rows, []string{
			item.ID.String(),
			item.Description,
			assignee,
			deadline,
			fmt.Sprintf("%.2f", item.Confidence),
			string(item.Status),
		})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Description", "Assignee", "Deadline", "Confidence", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
}

func newMeetingsTasksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <meeting-id>",
		Short: "List tasks created from a meeting's action items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid meeting id: %w", err)
			}

			_, db, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			tasks, err := repository.NewTaskRepository(db).ListBySource(cmd.Context(), entities.TaskSourceMeeting, id.String())
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
				return nil
			}

			rows := make([][]string, 0, len(tasks))
			for _, task := range tasks {
				assignee, due := "unassigned", "-"
				if task.AssigneeID != nil {
					assignee = task.AssigneeID.String()
				}
				if task.DueDate != nil {
					due = time.Time(*task.DueDate).Format(time.DateOnly)
				}
				rows = append(rows, []string{task.ID.String(), task.Title, assignee, due, string(task.Status)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Assignee", "Due", "Status"}, rows, nil))
			return nil
		},
	}
}

// newMeetingsRunCommand builds "run" or, with retry set, "retry". Both run
// the pipeline in this process and wait for it to finish.
func newMeetingsRunCommand(ctx *commandContext, retry bool) *cobra.Command {
	use, short := "run <meeting-id>", "Process an uploaded meeting now"
	if retry {
		use, short = "retry <meeting-id>", "Re-process a failed meeting now"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid meeting id: %w", err)
			}

			application, err := ctx.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			started := time.Now()
			if retry {
				err = application.Orchestrator.Retry(cmd.Context(), id)
			} else {
				err = application.Orchestrator.Run(cmd.Context(), id)
			}

			meeting, ferr := application.Meetings.FindByIDWithItems(cmd.Context(), id)
			if ferr == nil && meeting != nil {
				printMeeting(cmd.OutOrStdout(), meeting)
				fmt.Fprintf(cmd.OutOrStdout(), "\nFinished in %s\n", time.Since(started).Round(time.Millisecond))
			}
			return err
		},
	}
}

func formatDuration(seconds *float64) string {
	if seconds == nil {
		return "-"
	}
	return (time.Duration(*seconds * float64(time.Second))).Round(time.Second).String()
}
