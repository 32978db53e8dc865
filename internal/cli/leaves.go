package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskhours/sucktorial/internal/model"
)

var (
	leavesEmployeeID int64
	leavesFrom       string
	leavesTo         string
	leavesJSON       bool
)

var leavesCmd = &cobra.Command{
	Use:   "leaves",
	Short: "List leaves (vacations, sick days, ...)",
	Long: `List the leaves registered for an employee.

Without --employee-id the employee bound to the session is used. The
date filters keep leaves overlapping the given range.

Examples:
  sucktorial leaves
  sucktorial leaves --from 2026-08-01 --to 2026-08-31
  sucktorial leaves --employee-id 1044 --json`,
	Args: cobra.NoArgs,
	RunE: runLeaves,
}

func runLeaves(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	var from, to time.Time
	if leavesFrom != "" {
		from, err = time.ParseInLocation(model.DateOnly, leavesFrom, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --from date: %s", leavesFrom)
		}
	}
	if leavesTo != "" {
		to, err = time.ParseInLocation(model.DateOnly, leavesTo, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --to date: %s", leavesTo)
		}
	}

	leaves, err := client.ListLeaves(cmd.Context(), leavesEmployeeID, from, to)
	if err != nil {
		return err
	}

	if leavesJSON {
		return printJSON(leaves)
	}
	printLeaves(leaves)
	return nil
}

func printLeaves(leaves []model.Leave) {
	if len(leaves) == 0 {
		fmt.Println("No leaves found.")
		return
	}

	fmt.Printf("\n%-10s %-12s %-12s %-16s %s\n", "ID", "FROM", "TO", "TYPE", "DESCRIPTION")
	fmt.Println(strings.Repeat("─", 64))

	for _, l := range leaves {
		fmt.Printf("%-10d %-12s %-12s %-16s %s\n",
			l.ID, l.StartDate, l.EndDate, l.LeaveType, l.Description)
	}

	fmt.Printf("\n%d leave(s)\n", len(leaves))
}

func init() {
	leavesCmd.Flags().Int64Var(&leavesEmployeeID, "employee-id", 0, "Employee ID (default: the session's employee)")
	leavesCmd.Flags().StringVar(&leavesFrom, "from", "", "Only leaves ending on or after this date (2006-01-02)")
	leavesCmd.Flags().StringVar(&leavesTo, "to", "", "Only leaves starting on or before this date (2006-01-02)")
	leavesCmd.Flags().BoolVar(&leavesJSON, "json", false, "Output raw JSON")
}
