package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/wire"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect and move tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks visible to an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, err := sessionContext(cmd)
		if err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString("status")
		date, _ := cmd.Flags().GetString("date")
		today, _ := cmd.Flags().GetBool("today")
		electrician, _ := cmd.Flags().GetString("electrician")
		if today {
			date = time.Now().In(wire.Config().Location()).Format("2006-01-02")
		}

		tasks, err := wire.TaskService().ListTasks(ctx, primary.TaskFilters{
			Status:        status,
			ScheduledDate: date,
			ElectricianID: electrician,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("Found %d task(s):\n\n", len(tasks))
		for _, t := range tasks {
			printTask(os.Stdout, t)
		}
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, err := sessionContext(cmd)
		if err != nil {
			return err
		}
		t, err := wire.TaskService().GetTask(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		printTask(os.Stdout, t)
		if t.Description != "" {
			fmt.Printf("\n%s\n", t.Description)
		}
		if t.CompletionNotes != "" {
			fmt.Printf("\nCompletion notes: %s\n", t.CompletionNotes)
		}
		if t.Rating > 0 {
			fmt.Printf("Rating: %d/5 %s\n", t.Rating, t.Feedback)
		}
		return nil
	},
}

var taskAssignCmd = &cobra.Command{
	Use:   "assign [task-id] [electrician-id]",
	Short: "Assign a task to an electrician",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, err := sessionContext(cmd)
		if err != nil {
			return err
		}
		t, err := wire.TaskService().AssignTask(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to assign task: %w", err)
		}
		fmt.Printf("✓ Task %s assigned to %s\n", t.ID, t.AssignedElectricianID)
		return nil
	},
}

var taskStartCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start work on an assigned task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, err := sessionContext(cmd)
		if err != nil {
			return err
		}
		t, err := wire.TaskService().StartTask(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to start task: %w", err)
		}
		fmt.Printf("✓ Task %s is %s\n", t.ID, statusColor(t.Status).Sprint(t.Status))
		return nil
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Complete a task in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, err := sessionContext(cmd)
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")
		materials, _ := cmd.Flags().GetString("materials")
		req := primary.CompleteTaskRequest{CompletionNotes: notes, MaterialsUsed: materials}
		if cmd.Flags().Changed("charges") {
			charges, _ := cmd.Flags().GetFloat64("charges")
			req.AdditionalCharges = &charges
		}

		t, err := wire.TaskService().CompleteTask(ctx, args[0], req)
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		fmt.Printf("✓ Task %s is %s\n", t.ID, statusColor(t.Status).Sprint(t.Status))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{taskListCmd, taskShowCmd, taskAssignCmd, taskStartCmd, taskCompleteCmd} {
		addAsFlag(c)
	}

	taskListCmd.Flags().String("status", "", "Filter by status")
	taskListCmd.Flags().String("date", "", "Filter by scheduled date (YYYY-MM-DD)")
	taskListCmd.Flags().Bool("today", false, "Only tasks scheduled today")
	taskListCmd.Flags().String("electrician", "", "Filter by assigned electrician id")

	taskCompleteCmd.Flags().String("notes", "", "Completion notes")
	taskCompleteCmd.Flags().String("materials", "", "Materials used")
	taskCompleteCmd.Flags().Float64("charges", 0, "Additional charges")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskAssignCmd)
	taskCmd.AddCommand(taskStartCmd)
	taskCmd.AddCommand(taskCompleteCmd)
}

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	return taskCmd
}
