package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// FormatExports renders exports in the requested format. JSON and YAML are
// keyed by export name; text is a table ordered by name.
func FormatExports(w io.Writer, exports ExportMap, format OutputFormat) error {
	switch format {
	case OutputJSON:
		out, err := json.MarshalIndent(exports, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err

	case OutputYAML:
		if len(exports) == 0 {
			_, err := fmt.Fprintln(w, "{}")
			return err
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(exports); err != nil {
			return err
		}
		return encoder.Close()

	case OutputText, "":
		return formatExportsText(w, exports)
	}
	return fmt.Errorf("unsupported output format '%s'", format)
}

func formatExportsText(w io.Writer, exports ExportMap) error {
	if len(exports) == 0 {
		_, err := fmt.Fprintln(w, "No exports found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tDefault\tNamed")
	fmt.Fprintln(tw, "----\t-------\t-----")
	for _, name := range exports.Names() {
		record := exports[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, yesNo(record.IsDefault), yesNo(record.IsNamed))
	}
	fmt.Fprintf(tw, "\nTotal: %d\n", len(exports))
	return tw.Flush()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
