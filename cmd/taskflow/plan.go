package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taskflow-ai/taskflow/internal/models"
	"github.com/taskflow-ai/taskflow/internal/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage plans",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate [goal]",
	Short: "Generate a new plan from a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlanGenerate,
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans",
	RunE:  runPlanList,
}

var planShowCmd = &cobra.Command{
	Use:   "show [plan-id]",
	Short: "Show plan details",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanShow,
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete [plan-id]",
	Short: "Delete a plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanDelete,
}

var planSuggestCmd = &cobra.Command{
	Use:   "suggest [plan-id]",
	Short: "Suggest the next tasks to work on",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanSuggest,
}

var planExportCmd = &cobra.Command{
	Use:   "export [plan-id]",
	Short: "Export a plan as an iCalendar file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanExport,
}

var planStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show productivity analytics",
	RunE:  runPlanStats,
}

var (
	planTimeframe string
	planStartDate string
	planNoCache   bool
	exportOut     string
)

func init() {
	planCmd.AddCommand(planGenerateCmd, planListCmd, planShowCmd, planDeleteCmd, planSuggestCmd, planExportCmd, planStatsCmd)

	planGenerateCmd.Flags().StringVar(&planTimeframe, "timeframe", "1 week", "Timeframe for the plan (e.g. '3 days', '2 weeks')")
	planGenerateCmd.Flags().StringVar(&planStartDate, "start", "", "Start date (YYYY-MM-DD, default today)")
	planGenerateCmd.Flags().BoolVar(&planNoCache, "no-cache", false, "Skip the plan cache and force regeneration")

	planExportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default <plan-id>.ics)")
}

func runPlanGenerate(cmd *cobra.Command, args []string) error {
	goal := strings.Join(args, " ")

	body := map[string]string{
		"goal":      goal,
		"timeframe": planTimeframe,
	}
	if planStartDate != "" {
		body["start_date"] = planStartDate
	}

	path := "/api/plans"
	if planNoCache {
		path += "?use_cache=false"
	}

	fmt.Printf("Generating plan for %q (%s)...\n", goal, planTimeframe)
	resp, err := apiPost(generateClient, path, body)
	if err != nil {
		return err
	}

	var plan models.Plan
	if err := json.Unmarshal(resp, &plan); err != nil {
		return err
	}

	fmt.Printf("Created plan %s with %d tasks (%.1fh total)\n", plan.ID, len(plan.Tasks), plan.TotalHours())
	printTasks(plan.Tasks)
	return nil
}

func runPlanList(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/api/plans")
	if err != nil {
		return err
	}

	var plans []models.Plan
	if err := json.Unmarshal(resp, &plans); err != nil {
		return err
	}

	if len(plans) == 0 {
		fmt.Println("No plans found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGOAL\tTIMEFRAME\tTASKS\tHOURS\tCREATED")
	for _, p := range plans {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%s\n",
			truncateID(p.ID), truncate(p.Goal, 40), p.Timeframe,
			len(p.Tasks), p.TotalHours(), p.CreatedAt.Format("2006-01-02"))
	}
	w.Flush()
	return nil
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/api/plans/" + args[0])
	if err != nil {
		return err
	}

	var plan models.Plan
	if err := json.Unmarshal(resp, &plan); err != nil {
		return err
	}

	fmt.Printf("ID:        %s\n", plan.ID)
	fmt.Printf("Goal:      %s\n", plan.Goal)
	fmt.Printf("Timeframe: %s\n", plan.Timeframe)
	fmt.Printf("Created:   %s\n", plan.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Total:     %.1fh across %d tasks\n\n", plan.TotalHours(), len(plan.Tasks))
	printTasks(plan.Tasks)
	return nil
}

func runPlanDelete(cmd *cobra.Command, args []string) error {
	if _, err := apiDo("DELETE", "/api/plans/"+args[0], nil); err != nil {
		return err
	}
	fmt.Printf("Deleted plan %s\n", args[0])
	return nil
}

func runPlanSuggest(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/api/plans/" + args[0] + "/suggestions")
	if err != nil {
		return err
	}

	var suggestions []planner.Suggestion
	if err := json.Unmarshal(resp, &suggestions); err != nil {
		return err
	}

	if len(suggestions) == 0 {
		fmt.Println("Nothing actionable right now")
		return nil
	}

	for _, s := range suggestions {
		fmt.Printf("%2d. %s (%s, %.1fh)\n    %s\n", s.ID, s.Title, s.Priority, s.EstimatedHours, s.Reason)
	}
	return nil
}

func runPlanExport(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/api/plans/" + args[0] + "/export/calendar")
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = args[0] + ".ics"
	}

	if err := os.WriteFile(out, resp, 0o644); err != nil {
		return fmt.Errorf("failed to write calendar file: %w", err)
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func runPlanStats(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/api/analytics")
	if err != nil {
		return err
	}

	var summary map[string]interface{}
	if err := json.Unmarshal(resp, &summary); err != nil {
		return err
	}

	fmt.Printf("Plans:           %.0f\n", summary["total_plans"].(float64))
	fmt.Printf("Tasks:           %.0f (%.0f completed)\n",
		summary["total_tasks"].(float64), summary["completed_tasks"].(float64))
	fmt.Printf("Completion rate: %.1f%%\n", summary["completion_rate"].(float64))
	fmt.Printf("Hours completed: %.1f\n", summary["total_hours_completed"].(float64))

	if insights, ok := summary["insights"].([]interface{}); ok && len(insights) > 0 {
		fmt.Println("\nInsights:")
		for _, in := range insights {
			fmt.Printf("  - %s\n", in)
		}
	}
	return nil
}

func printTasks(tasks []models.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tSTATUS\tPRIORITY\tHOURS\tSTARTS")
	for _, t := range tasks {
		start := ""
		if t.StartTime != nil {
			start = t.StartTime.Format("Mon Jan 2 15:04")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\t%s\n",
			t.ID, truncate(t.Title, 40), t.Status, t.Priority, t.EstimatedHours, start)
	}
	w.Flush()
}

// --- Helpers ---

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
