package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	iface "github.com/restohub/resto-cli/internal/service/interface"
	"github.com/spf13/cobra"
)

func addRestaurantCommands(rc *ResourceCommand) {
	schedule := &cobra.Command{
		Use:   "schedule",
		Short: "Show or change the opening hours of a restaurant",
	}
	schedule.AddCommand(newScheduleGetCommand(rc))
	schedule.AddCommand(newScheduleSetCommand(rc))

	rc.Command().AddCommand(schedule)
	rc.Command().AddCommand(newSetManagerCommand(rc))
}

func newScheduleGetCommand(rc *ResourceCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "get <restaurant-id>",
		Short: "Show the weekly schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := rc.Root().Container().RestaurantService()

			slots, err := svc.GetSchedule(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outputFormat(cmd) == outputJSON {
				return printJSON(slots)
			}
			return printSchedule(slots)
		},
	}
}

func newScheduleSetCommand(rc *ResourceCommand) *cobra.Command {
	c := &cobra.Command{
		Use:   "set <restaurant-id>",
		Short: "Replace the weekly schedule",
		Long: `Replace the weekly schedule with a JSON array of slots.

Example:
  resto restaurants schedule set 4 --data '[{"day":"monday","openingTime":"11:00","closingTime":"23:00"}]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("data")
			path, _ := cmd.Flags().GetString("file")
			if path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				raw = string(data)
			}
			if raw == "" {
				return fmt.Errorf("a JSON schedule is required (--data or --file)")
			}

			var slots []iface.ScheduleSlot
			if err := json.Unmarshal([]byte(raw), &slots); err != nil {
				return fmt.Errorf("invalid schedule: %w", err)
			}

			svc := rc.Root().Container().RestaurantService()
			updated, err := svc.SetSchedule(cmd.Context(), args[0], slots)
			if err != nil {
				return err
			}

			if outputFormat(cmd) == outputJSON {
				return printJSON(updated)
			}
			fmt.Println("✓ Schedule updated")
			return printSchedule(updated)
		},
	}
	addDataFlags(c)
	return c
}

func newSetManagerCommand(rc *ResourceCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "set-manager <restaurant-id> <user-id>",
		Short: "Assign a manager to a restaurant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			managerID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[1])
			}

			svc := rc.Root().Container().RestaurantService()
			record, err := svc.SetManager(cmd.Context(), args[0], managerID)
			if err != nil {
				return err
			}

			if outputFormat(cmd) == outputJSON {
				return printJSON(record)
			}
			fmt.Printf("✓ User %d now manages restaurant %s\n", managerID, args[0])
			return nil
		},
	}
}

func printSchedule(slots []iface.ScheduleSlot) error {
	if len(slots) == 0 {
		fmt.Println("No schedule defined.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tOPEN\tCLOSE")
	fmt.Fprintln(w, "---\t----\t-----")
	for _, slot := range slots {
		if slot.Closed {
			fmt.Fprintf(w, "%s\tclosed\t-\n", slot.Day)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", slot.Day, cell(slot.OpeningTime), cell(slot.ClosingTime))
	}
	return w.Flush()
}
