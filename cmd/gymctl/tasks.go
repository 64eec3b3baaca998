package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aigymos/gym-console/internal/domain/entities"
	taskUsecase "github.com/aigymos/gym-console/internal/usecase/task"
	"github.com/aigymos/gym-console/pkg/clock"
)

func newTasksCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task board tools",
	}
	cmd.AddCommand(newTasksGroupCmd(opts))
	return cmd
}

func newTasksGroupCmd(opts *options) *cobra.Command {
	var (
		tasksFile   string
		membersFile string
		search      string
		showDone    bool
		plan        string
		today       string
		timezone    string
	)

	cmd := &cobra.Command{
		Use:   "group",
		Short: "Group a task listing the way the board does",
		Example: `  gymctl tasks group --tasks tasks.json --members members.json --plan anual
  curl -s $BACKEND/tasks | gymctl tasks group --tasks - -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := entities.PlanFilter(plan)
			if !filter.IsValid() {
				return fmt.Errorf("%w: %q", entities.ErrInvalidPlanFilter, plan)
			}

			tasks, err := readListing[entities.Task](cmd, tasksFile)
			if err != nil {
				return err
			}
			var members []entities.Member
			if membersFile != "" {
				if members, err = readListing[entities.Member](cmd, membersFile); err != nil {
					return err
				}
			}

			if today == "" {
				clk, err := clock.New(timezone)
				if err != nil {
					return err
				}
				today = clk.TodayKey()
			}

			groupOpts := taskUsecase.GroupOptions{
				Search:     search,
				ShowDone:   showDone,
				PlanFilter: filter,
				Today:      today,
			}
			groups := taskUsecase.GroupTasks(tasks, members, groupOpts)
			board := taskUsecase.NewBoard(tasks, groups, groupOpts)
			opts.logger.Debug("tasks.grouped",
				zap.Int("tasks", len(tasks)),
				zap.Int("groups", len(groups)),
			)
			return opts.render(cmd.OutOrStdout(), board)
		},
	}

	cmd.Flags().StringVar(&tasksFile, "tasks", "", "task listing (JSON array or backend page, - for stdin)")
	cmd.Flags().StringVar(&membersFile, "members", "", "member listing (JSON array or backend page)")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive search over labels and titles")
	cmd.Flags().BoolVar(&showDone, "show-done", false, "include done tasks")
	cmd.Flags().StringVar(&plan, "plan", string(entities.PlanFilterAll), "plan filter: all, mensal, semestral or anual")
	cmd.Flags().StringVar(&today, "today", "", "gym-local date (YYYY-MM-DD); defaults to now in --timezone")
	cmd.Flags().StringVar(&timezone, "timezone", "America/Sao_Paulo", "gym timezone")
	_ = cmd.MarkFlagRequired("tasks")
	return cmd
}

// readListing accepts either a bare JSON array or a backend page envelope.
func readListing[T any](cmd *cobra.Command, path string) ([]T, error) {
	var raw json.RawMessage
	if err := readJSON(cmd, path, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return items, nil
	}

	var page entities.Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return page.Items, nil
}
