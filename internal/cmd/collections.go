package cmd

import (
	"fmt"
	"strconv"

	iface "github.com/restohub/resto-cli/internal/service/interface"
	"github.com/spf13/cobra"
)

func addSupplementCommands(rc *ResourceCommand) {
	rc.Command().AddCommand(&cobra.Command{
		Use:   "upload-image <id> <path>",
		Short: "Upload the picture of a supplement",
		Long: `Upload the picture of a supplement as multipart form data.

Example:
  resto supplements upload-image 3 ./sauce-samourai.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := rc.Root().Container().ResourceService()

			record, err := svc.UploadImage(cmd.Context(), iface.Supplements, args[0], args[1])
			if err != nil {
				return err
			}

			if outputFormat(cmd) == outputJSON {
				return printJSON(record)
			}
			fmt.Printf("✓ Image uploaded for supplement %s\n", args[0])
			return nil
		},
	})
}

func addUserCommands(rc *ResourceCommand) {
	rc.Command().AddCommand(&cobra.Command{
		Use:   "set-restaurants <user-id> [restaurant-id...]",
		Short: "Set the restaurants a staff member works in",
		Long: `Replace the restaurants a staff member is attached to.
Without restaurant ids the user is detached from every restaurant.

Example:
  resto users set-restaurants 12 4 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantIDs := make([]int, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid restaurant id %q", arg)
				}
				restaurantIDs = append(restaurantIDs, id)
			}

			svc := rc.Root().Container().RestaurantService()
			record, err := svc.SetUserRestaurants(cmd.Context(), args[0], restaurantIDs)
			if err != nil {
				return err
			}

			if outputFormat(cmd) == outputJSON {
				return printJSON(record)
			}
			fmt.Printf("✓ User %s attached to %d restaurant(s)\n", args[0], len(restaurantIDs))
			return nil
		},
	})
}

func addNotificationCommands(rc *ResourceCommand) {
	rc.Command().AddCommand(&cobra.Command{
		Use:   "unread",
		Short: "List unread notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := rc.Root().Container().NotificationService().Unread(cmd.Context())
			if err != nil {
				return err
			}

			if outputFormat(cmd) == outputJSON {
				return printJSON(records)
			}
			return printRecords(iface.Notifications, records)
		},
	})

	rc.Command().AddCommand(&cobra.Command{
		Use:   "read <id>...",
		Short: "Mark notifications as read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := rc.Root().Container().NotificationService()
			for _, id := range args {
				if err := svc.MarkRead(cmd.Context(), id); err != nil {
					return err
				}
			}

			fmt.Printf("✓ %d notification(s) marked as read\n", len(args))
			return nil
		},
	})
}
