// internal/cli/stats.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gurkanbulca/timemanager/internal/aggregation"
	"github.com/gurkanbulca/timemanager/internal/models"
	"github.com/gurkanbulca/timemanager/internal/service"
)

func (a *app) statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion and time statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			periodFlag, _ := cmd.Flags().GetString("period")
			period, err := aggregation.ParsePeriod(periodFlag)
			if err != nil {
				return err
			}

			return a.withStore(cmd, func(ctx context.Context, store *service.TaskStore) error {
				tasks := store.Tasks()
				now := store.Now()
				s := aggregation.Summarize(tasks, period, now)

				fmt.Fprintf(a.out, "Period:      %s (%s to %s)\n", s.Period,
					s.From.Format("2006-01-02"), s.To.AddDate(0, 0, -1).Format("2006-01-02"))
				fmt.Fprintf(a.out, "Tasks:       %d (%d completed, %d in progress)\n", s.Total, s.Completed, s.InProgress)
				fmt.Fprintf(a.out, "Completion:  %.0f%%\n", s.CompletionRate*100)
				fmt.Fprintf(a.out, "Time:        %s this %s, %s overall\n",
					formatDuration(s.PeriodTime), s.Period, formatDuration(s.TotalTime))
				if at, ok := store.LastSaved(ctx); ok {
					fmt.Fprintf(a.out, "Last saved:  %s\n", at.In(now.Location()).Format("2006-01-02 15:04"))
				}

				fmt.Fprintln(a.out)
				table := newTable(a.out, "Priority", "Tasks", "Time")
				for _, p := range models.Priorities() {
					table.Append([]string{p.String(), fmt.Sprint(s.ByPriority[p]), formatDuration(s.TimeByPriority[p])})
				}
				table.Render()

				allocation := aggregation.TimeAllocation(tasks, now)
				if len(allocation) > 0 {
					fmt.Fprintln(a.out)
					table = newTable(a.out, "Task", "Time")
					for _, al := range allocation {
						table.Append([]string{al.Title, formatDuration(al.Spent)})
					}
					table.Render()
				}
				return nil
			})
		},
	}

	cmd.Flags().String("period", string(aggregation.PeriodDay), "Period (day, week, month)")

	return cmd
}

func (a *app) todayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "List tasks due today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dateFlag, _ := cmd.Flags().GetString("date")
			day, err := parseDate(dateFlag, a.clock())
			if err != nil {
				return err
			}

			return a.withStore(cmd, func(ctx context.Context, store *service.TaskStore) error {
				tasks := store.Tasks()
				due := aggregation.TasksOnDate(tasks, day)

				numbers := make([]int, 0, len(due))
				for _, d := range due {
					for i, t := range tasks {
						if t.ID == d.ID {
							numbers = append(numbers, i+1)
							break
						}
					}
				}
				a.renderTasks(due, numbers, store)
				return nil
			})
		},
	}

	cmd.Flags().String("date", "today", "Day to show (today, tomorrow, YYYY-MM-DD)")

	return cmd
}
