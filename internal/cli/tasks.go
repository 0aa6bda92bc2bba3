// internal/cli/tasks.go
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gurkanbulca/timemanager/internal/aggregation"
	"github.com/gurkanbulca/timemanager/internal/models"
	"github.com/gurkanbulca/timemanager/internal/service"
)

func (a *app) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueFlag, _ := cmd.Flags().GetString("due")
			priorityFlag, _ := cmd.Flags().GetString("priority")

			due, err := parseDate(dueFlag, a.clock())
			if err != nil {
				return err
			}
			priority, err := models.ParsePriority(priorityFlag)
			if err != nil {
				return err
			}
			task, err := models.NewTask(strings.Join(args, " "), due, priority)
			if err != nil {
				return err
			}

			return a.withStore(cmd, func(ctx context.Context, store *service.TaskStore) error {
				if err := store.Add(ctx, task); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Added %s %s\n", shortID(task), task.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringP("due", "d", "today", "Due date (today, tomorrow, YYYY-MM-DD, \"YYYY-MM-DD HH:MM\")")
	cmd.Flags().StringP("priority", "p", string(models.PriorityMedium), "Priority (high, medium, low)")

	return cmd
}

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			completed, _ := cmd.Flags().GetBool("completed")
			active, _ := cmd.Flags().GetBool("active")
			priorityFlag, _ := cmd.Flags().GetString("priority")
			asJSON, _ := cmd.Flags().GetBool("json")
			if completed && active {
				return fmt.Errorf("--completed and --active cannot be combined")
			}

			return a.withStore(cmd, func(ctx context.Context, store *service.TaskStore) error {
				var only models.Priority
				if priorityFlag != "" {
					p, err := models.ParsePriority(priorityFlag)
					if err != nil {
						return err
					}
					only = p
				}

				tasks := store.Tasks()
				shown := make([]models.Task, 0, len(tasks))
				// numbers are positions in the full list so they can be passed back to other commands
				var numbers []int
				for i, t := range tasks {
					if (completed && !t.IsCompleted) || (active && t.IsCompleted) {
						continue
					}
					if only != "" && t.Priority != only {
						continue
					}
					shown = append(shown, t)
					numbers = append(numbers, i+1)
				}

				if asJSON {
					enc := json.NewEncoder(a.out)
					enc.SetIndent("", "  ")
					return enc.Encode(shown)
				}
				a.renderTasks(shown, numbers, store)
				return nil
			})
		},
	}

	cmd.Flags().Bool("completed", false, "Only completed tasks")
	cmd.Flags().Bool("active", false, "Only tasks still in progress")
	cmd.Flags().StringP("priority", "p", "", "Only tasks with this priority")
	cmd.Flags().Bool("json", false, "Output as JSON")

	return cmd
}

func (a *app) updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <ref>",
		Short: "Change a task's title, due date or priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("due") && !flags.Changed("priority") {
				return fmt.Errorf("nothing to update, pass --title, --due or --priority")
			}

			return a.withStore(cmd, func(ctx context.Context, store *service.TaskStore) error {
				task, _, err := resolveTask(store.Tasks(), args[0])
				if err != nil {
					return err
				}

				if flags.Changed("title") {
					task.Title, _ = flags.GetString("title")
				}
				if flags.Changed("due") {
					s, _ := flags.GetString("due")
					if task.DueDate, err = parseDate(s, a.clock()); err != nil {
						return err
					}
				}
				if flags.Changed("priority") {
					s, _ := flags.GetString("priority")
					if task.Priority, err = models.ParsePriority(s); err != nil {
						return err
					}
				}

				if err := store.Update(ctx, task); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Updated %s %s\n", shortID(task), task.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringP("title", "t", "", "New title")
	cmd.Flags().StringP("due", "d", "", "New due date")
	cmd.Flags().StringP("priority", "p", "", "New priority")

	return cmd
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <ref>",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *service.TaskStore) error {
				task, _, err := resolveTask(store.Tasks(), args[0])
				if err != nil {
					return err
				}
				if err := store.ToggleCompleted(ctx, task); err != nil {
					return err
				}
				if task.IsCompleted {
					fmt.Fprintf(a.out, "Reopened %s %s\n", shortID(task), task.Title)
				} else {
					fmt.Fprintf(a.out, "Completed %s %s\n", shortID(task), task.Title)
				}
				return nil
			})
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <ref>...",
		Aliases: []string{"rm"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, store *service.TaskStore) error {
				tasks := store.Tasks()
				seen := make(map[int]bool, len(args))
				indices := make([]int, 0, len(args))
				for _, ref := range args {
					_, i, err := resolveTask(tasks, ref)
					if err != nil {
						return err
					}
					if !seen[i] {
						seen[i] = true
						indices = append(indices, i)
					}
				}

				if err := store.DeleteAt(ctx, indices...); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted %d task(s)\n", len(indices))
				return nil
			})
		},
	}
}

func (a *app) renderTasks(tasks []models.Task, numbers []int, store *service.TaskStore) {
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return
	}

	loc := a.clock().Location()
	table := newTable(a.out, "#", "ID", "Title", "Priority", "Due", "Status", "Spent")
	for i, t := range tasks {
		table.Append([]string{
			fmt.Sprint(numbers[i]),
			shortID(t),
			t.Title,
			t.Priority.String(),
			t.DueDate.In(loc).Format("2006-01-02 15:04"),
			status(t),
			formatDuration(store.TotalTimeSpent(t)),
		})
	}
	table.Render()

	fmt.Fprintf(a.out, "%d task(s), %.0f%% completed\n", len(tasks), aggregation.CompletionRate(tasks)*100)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	return table
}
