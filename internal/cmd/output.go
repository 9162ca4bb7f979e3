package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	iface "github.com/restohub/resto-cli/internal/service/interface"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// preferredColumns are shown first, in this order, when present in a listing
var preferredColumns = []string{
	"name", "title", "email", "firstName", "lastName", "role",
	"price", "city", "address", "rating", "message", "read", "createdAt",
}

const maxColumns = 6

// outputFormat returns the value of the persistent -o flag
func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		return outputText
	}
	return format
}

// printJSON outputs any value as indented JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printRecords outputs a listing as a table
func printRecords(resource iface.Resource, records []iface.Record) error {
	if len(records) == 0 {
		fmt.Printf("No %s found.\n", resource)
		return nil
	}

	columns := tableColumns(records)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, len(columns))
	rule := make([]string, len(columns))
	for i, col := range columns {
		header[i] = strings.ToUpper(col)
		rule[i] = strings.Repeat("-", len(col))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	fmt.Fprintln(w, strings.Join(rule, "\t"))

	for _, record := range records {
		values := make([]string, len(columns))
		for i, col := range columns {
			values[i] = cell(record.String(col))
		}
		fmt.Fprintln(w, strings.Join(values, "\t"))
	}

	return w.Flush()
}

// printRecord outputs one item as aligned key/value lines
func printRecord(record iface.Record) error {
	keys := make([]string, 0, len(record))
	for key := range record {
		if key != "id" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, ok := record["id"]; ok {
		fmt.Fprintf(w, "id:\t%s\n", record.ID())
	}
	for _, key := range keys {
		fmt.Fprintf(w, "%s:\t%s\n", key, cell(displayValue(record[key])))
	}
	return w.Flush()
}

// tableColumns picks id, then preferred columns, then other scalar fields
func tableColumns(records []iface.Record) []string {
	present := map[string]bool{}
	for _, record := range records {
		for key, value := range record {
			if isScalar(value) {
				present[key] = true
			}
		}
	}

	columns := []string{}
	if present["id"] {
		columns = append(columns, "id")
	}
	for _, col := range preferredColumns {
		if present[col] && len(columns) < maxColumns {
			columns = append(columns, col)
		}
	}
	if len(columns) > 1 {
		return columns
	}

	rest := make([]string, 0, len(present))
	for key := range present {
		if key != "id" {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		if len(columns) == maxColumns {
			break
		}
		columns = append(columns, key)
	}
	return columns
}

func isScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

func displayValue(v any) string {
	if isScalar(v) {
		return iface.Record{"v": v}.String("v")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func cell(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
