package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	iface "github.com/restohub/resto-cli/internal/service/interface"
	"github.com/spf13/cobra"
)

// ResourceCommand represents the command group of one back-office collection
type ResourceCommand struct {
	root     *RootCommand
	resource iface.Resource
	cmd      *cobra.Command
}

// NewResourceCommand creates the list/get/create/update/delete group for a collection
func NewResourceCommand(root *RootCommand, resource iface.Resource) *ResourceCommand {
	rc := &ResourceCommand{
		root:     root,
		resource: resource,
	}

	rc.cmd = &cobra.Command{
		Use:   string(resource),
		Short: fmt.Sprintf("Manage %s", resource),
		Long: fmt.Sprintf(`Manage %[1]s of the back-office.

Examples:
  resto %[1]s list
  resto %[1]s get 3 -o json
  resto %[1]s create --data '{"name": "..."}'
  resto %[1]s update 3 --file item.json
  resto %[1]s delete 3 --yes`, resource),
	}

	rc.cmd.AddCommand(rc.newListCommand())
	rc.cmd.AddCommand(rc.newGetCommand())
	rc.cmd.AddCommand(rc.newCreateCommand())
	rc.cmd.AddCommand(rc.newUpdateCommand())
	rc.cmd.AddCommand(rc.newDeleteCommand())

	return rc
}

// Command returns the underlying cobra command
func (rc *ResourceCommand) Command() *cobra.Command {
	return rc.cmd
}

// Root returns the parent root command
func (rc *ResourceCommand) Root() *RootCommand {
	return rc.root
}

func (rc *ResourceCommand) service() iface.ResourceService {
	return rc.root.Container().ResourceService()
}

func (rc *ResourceCommand) newListCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", rc.resource),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, _ := cmd.Flags().GetStringArray("filter")
			query, err := parseFilters(filters)
			if err != nil {
				return err
			}

			records, err := rc.service().List(cmd.Context(), rc.resource, query)
			if err != nil {
				return err
			}

			if outputFormat(cmd) == outputJSON {
				return printJSON(records)
			}
			return printRecords(rc.resource, records)
		},
	}
	c.Flags().StringArrayP("filter", "f", nil, "Query filter as key=value (repeatable)")
	return c
}

func (rc *ResourceCommand) newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one item of %s", rc.resource),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := rc.service().Get(cmd.Context(), rc.resource, args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, record)
		},
	}
}

func (rc *ResourceCommand) newCreateCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create an item in %s", rc.resource),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readData(cmd)
			if err != nil {
				return err
			}

			record, err := rc.service().Create(cmd.Context(), rc.resource, data)
			if err != nil {
				return err
			}

			if outputFormat(cmd) == outputJSON {
				return printJSON(record)
			}
			fmt.Printf("✓ Created %s %s\n", singular(rc.resource), cell(record.ID()))
			return nil
		},
	}
	addDataFlags(c)
	return c
}

func (rc *ResourceCommand) newUpdateCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update an item of %s", rc.resource),
		Long: `Replace an item with the given JSON document.

With --partial only the given fields are changed (PATCH).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readData(cmd)
			if err != nil {
				return err
			}

			partial, _ := cmd.Flags().GetBool("partial")
			var record iface.Record
			if partial {
				record, err = rc.service().Patch(cmd.Context(), rc.resource, args[0], data)
			} else {
				record, err = rc.service().Update(cmd.Context(), rc.resource, args[0], data)
			}
			if err != nil {
				return err
			}

			if outputFormat(cmd) == outputJSON {
				return printJSON(record)
			}
			fmt.Printf("✓ Updated %s %s\n", singular(rc.resource), args[0])
			return nil
		},
	}
	addDataFlags(c)
	c.Flags().Bool("partial", false, "Only change the given fields")
	return c
}

func (rc *ResourceCommand) newDeleteCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete an item of %s", rc.resource),
		Long: `Delete an item.

WARNING: This action is irreversible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			skipConfirm, _ := cmd.Flags().GetBool("yes")
			if !skipConfirm {
				var confirm bool
				if err := survey.AskOne(&survey.Confirm{
					Message: fmt.Sprintf("Are you sure you want to delete %s %s?", singular(rc.resource), id),
					Default: false,
				}, &confirm); err != nil {
					return err
				}

				if !confirm {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			if err := rc.service().Delete(cmd.Context(), rc.resource, id); err != nil {
				return err
			}

			fmt.Printf("✓ Deleted %s %s\n", singular(rc.resource), id)
			return nil
		},
	}
	c.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	return c
}

// printResult outputs a single record in the requested format
func printResult(cmd *cobra.Command, record iface.Record) error {
	if outputFormat(cmd) == outputJSON {
		return printJSON(record)
	}
	return printRecord(record)
}

func addDataFlags(c *cobra.Command) {
	c.Flags().StringP("data", "d", "", "JSON document")
	c.Flags().String("file", "", "Read the JSON document from a file (- for stdin)")
}

// readData decodes the JSON object given with --data or --file
func readData(cmd *cobra.Command) (iface.Record, error) {
	raw, _ := cmd.Flags().GetString("data")
	path, _ := cmd.Flags().GetString("file")

	var content []byte
	switch {
	case raw != "" && path != "":
		return nil, errors.New("use either --data or --file, not both")
	case raw != "":
		content = []byte(raw)
	case path == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		content = data
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		content = data
	default:
		return nil, errors.New("a JSON document is required (--data or --file)")
	}

	var record iface.Record
	if err := json.Unmarshal(content, &record); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	if record == nil {
		return nil, errors.New("the JSON document must be an object")
	}
	return record, nil
}

func parseFilters(filters []string) (url.Values, error) {
	query := url.Values{}
	for _, f := range filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, expected key=value", f)
		}
		query.Add(key, value)
	}
	return query, nil
}

// singular turns a collection name into the name of one of its items
func singular(resource iface.Resource) string {
	name := string(resource)
	if strings.HasSuffix(name, "ies") {
		return strings.TrimSuffix(name, "ies") + "y"
	}
	return strings.TrimSuffix(name, "s")
}
