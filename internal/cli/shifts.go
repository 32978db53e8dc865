package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskhours/sucktorial/internal/factorial"
	"github.com/deskhours/sucktorial/internal/model"
)

var (
	shiftsPeriodID int64
	shiftsYear     int
	shiftsMonth    int
	shiftsJSON     bool

	updateClockIn  string
	updateClockOut string
	updatePeriodID int64

	deleteLast bool

	periodsYear    int
	periodsMonth   int
	periodsStartOn string
	periodsEndOn   string
	periodsJSON    bool
)

var shiftsCmd = &cobra.Command{
	Use:   "shifts",
	Short: "List, update or delete attendance shifts",
	Long: `List attendance shifts, newest last.

Filter by a payroll period or by year and month, not both. Without a
filter every shift the vendor returns is shown.

Examples:
  sucktorial shifts
  sucktorial shifts --year 2026 --month 8
  sucktorial shifts --period-id 4211 --json
  sucktorial shifts update 9371 --clock-out 17:30
  sucktorial shifts delete --last`,
	Args: cobra.NoArgs,
	RunE: runShiftsList,
}

var shiftsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change a shift's clock times or period",
	Args:  cobra.ExactArgs(1),
	RunE:  runShiftsUpdate,
}

var shiftsDeleteCmd = &cobra.Command{
	Use:   "delete [ID]",
	Short: "Delete a shift by ID, or the most recent one with --last",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShiftsDelete,
}

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List payroll periods",
	Long: `List the payroll periods shifts are filed under.

Examples:
  sucktorial periods
  sucktorial periods --year 2026 --month 8`,
	Args: cobra.NoArgs,
	RunE: runPeriods,
}

func runShiftsList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	shifts, err := client.ListShifts(cmd.Context(), factorial.ShiftQuery{
		PeriodID: shiftsPeriodID,
		Year:     shiftsYear,
		Month:    shiftsMonth,
	})
	if err != nil {
		return err
	}

	if shiftsJSON {
		return printJSON(shifts)
	}
	printShifts(shifts)
	return nil
}

func runShiftsUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid shift ID: %s", args[0])
	}

	var update factorial.ShiftUpdate
	if cmd.Flags().Changed("clock-in") {
		t, err := parseClockArg(updateClockIn)
		if err != nil {
			return err
		}
		update.ClockIn = &t
	}
	if cmd.Flags().Changed("clock-out") {
		t, err := parseClockArg(updateClockOut)
		if err != nil {
			return err
		}
		update.ClockOut = &t
	}
	if cmd.Flags().Changed("period-id") {
		update.PeriodID = &updatePeriodID
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.UpdateShift(cmd.Context(), id, update); err != nil {
		return err
	}

	fmt.Printf("✅ Shift %d updated\n", id)
	return nil
}

func runShiftsDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if deleteLast {
		if err := client.DeleteLastShift(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✅ Last shift deleted")
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("specify a shift ID or --last")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid shift ID: %s", args[0])
	}

	if err := client.DeleteShift(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("✅ Shift %d deleted\n", id)
	return nil
}

func runPeriods(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	filters := map[string]string{}
	if periodsYear != 0 {
		filters["year"] = strconv.Itoa(periodsYear)
	}
	if periodsMonth != 0 {
		filters["month"] = strconv.Itoa(periodsMonth)
	}
	if periodsStartOn != "" {
		filters["start_on"] = periodsStartOn
	}
	if periodsEndOn != "" {
		filters["end_on"] = periodsEndOn
	}

	periods, err := client.ListPeriods(cmd.Context(), filters)
	if err != nil {
		return err
	}

	if periodsJSON {
		return printJSON(periods)
	}
	printPeriods(periods)
	return nil
}

// printShifts renders shifts as an aligned table.
func printShifts(shifts []model.Shift) {
	if len(shifts) == 0 {
		fmt.Println("No shifts found. Open one with:")
		fmt.Println("  sucktorial clock in")
		return
	}

	fmt.Printf("\n%-10s %-12s %-7s %-7s %-8s %s\n", "ID", "DATE", "IN", "OUT", "WORKED", "SOURCE")
	fmt.Println(strings.Repeat("─", 56))

	for _, s := range shifts {
		out := "—"
		if !s.IsOpen() {
			out = clockDisplay(s.ClockOut)
		}
		fmt.Printf("%-10d %-12s %-7s %-7s %-8s %s\n",
			s.ID,
			shiftDate(s),
			clockDisplay(s.ClockIn),
			out,
			s.Duration(time.Now()).Round(time.Minute),
			s.Source,
		)
	}

	fmt.Printf("\n%d shift(s)\n", len(shifts))
}

func printPeriods(periods []model.Period) {
	if len(periods) == 0 {
		fmt.Println("No periods found.")
		return
	}

	fmt.Printf("\n%-10s %-6s %-6s %-12s %s\n", "ID", "YEAR", "MONTH", "START", "END")
	fmt.Println(strings.Repeat("─", 48))

	for _, p := range periods {
		fmt.Printf("%-10d %-6d %-6d %-12s %s\n", p.ID, p.Year, p.Month, p.StartOn, p.EndOn)
	}

	fmt.Printf("\n%d period(s)\n", len(periods))
}

func shiftDate(s model.Shift) string {
	if s.Date != "" {
		return s.Date
	}
	return fmt.Sprintf("%04d-%02d-%02d", s.Year, s.Month, s.Day)
}

// clockDisplay trims a stored clock value down to hours and minutes,
// falling back to the raw string when it does not parse.
func clockDisplay(raw string) string {
	t, ok := model.ParseClock(raw)
	if !ok {
		return raw
	}
	return t.Format("15:04")
}

func init() {
	shiftsCmd.AddCommand(shiftsUpdateCmd)
	shiftsCmd.AddCommand(shiftsDeleteCmd)

	shiftsCmd.Flags().Int64Var(&shiftsPeriodID, "period-id", 0, "Filter by payroll period ID")
	shiftsCmd.Flags().IntVar(&shiftsYear, "year", 0, "Filter by year (requires --month)")
	shiftsCmd.Flags().IntVar(&shiftsMonth, "month", 0, "Filter by month (requires --year)")
	shiftsCmd.Flags().BoolVar(&shiftsJSON, "json", false, "Output raw JSON")

	shiftsUpdateCmd.Flags().StringVar(&updateClockIn, "clock-in", "", "New clock-in time")
	shiftsUpdateCmd.Flags().StringVar(&updateClockOut, "clock-out", "", "New clock-out time")
	shiftsUpdateCmd.Flags().Int64Var(&updatePeriodID, "period-id", 0, "Move the shift to another period")

	shiftsDeleteCmd.Flags().BoolVar(&deleteLast, "last", false, "Delete the most recent shift")

	periodsCmd.Flags().IntVar(&periodsYear, "year", 0, "Filter by year")
	periodsCmd.Flags().IntVar(&periodsMonth, "month", 0, "Filter by month")
	periodsCmd.Flags().StringVar(&periodsStartOn, "start-on", "", "Filter by start date (2006-01-02)")
	periodsCmd.Flags().StringVar(&periodsEndOn, "end-on", "", "Filter by end date (2006-01-02)")
	periodsCmd.Flags().BoolVar(&periodsJSON, "json", false, "Output raw JSON")
}
