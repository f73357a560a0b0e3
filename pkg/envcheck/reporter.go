package envcheck

import (
	"fmt"
	"io"

	"github.com/devstack-labs/stackaudit/pkg/console"
)

// PrintReport renders the validation outcome. Values appear masked only;
// the full value is never written anywhere.
func PrintReport(w io.Writer, result Result) {
	fmt.Fprintln(w, console.Separator())
	fmt.Fprintln(w, console.FormatBold("Environment Validation"))
	fmt.Fprintln(w, console.Separator())

	if len(result.Present) > 0 {
		rows := make([][]string, 0, len(result.Present))
		for _, vc := range result.Present {
			rows = append(rows, []string{vc.Name, vc.MaskedValue()})
		}
		fmt.Fprint(w, console.RenderTable(console.TableConfig{
			Headers: []string{"Variable", "Value"},
			Rows:    rows,
		}))
	}

	for _, vc := range result.MissingRequired {
		fmt.Fprintln(w, console.FormatErrorMessage(
			fmt.Sprintf("%s is not set (%s)", vc.Name, vc.Description)))
	}
	for _, vc := range result.MissingOptional {
		fmt.Fprintln(w, console.FormatWarningMessage(
			fmt.Sprintf("%s is not set (%s, optional)", vc.Name, vc.Description)))
	}

	fmt.Fprintln(w)
	if result.IsValid() {
		fmt.Fprintln(w, console.FormatSuccessMessage("All required environment variables are set"))
		if result.HasWarnings() {
			fmt.Fprintln(w, console.FormatWarningMessage(
				fmt.Sprintf("%d optional variable(s) not set", len(result.MissingOptional))))
		}
		return
	}

	fmt.Fprintln(w, console.FormatErrorMessage(
		fmt.Sprintf("%d required environment variable(s) missing", len(result.MissingRequired))))
	printFixInstructions(w, result)
}

// printFixInstructions tells the operator how to supply the missing
// variables.
func printFixInstructions(w io.Writer, result Result) {
	fmt.Fprintln(w, "\nTo fix:")
	fmt.Fprintln(w, "  1. Copy the template: "+console.FormatCommandMessage("cp .env.example .env"))
	fmt.Fprintln(w, "  2. Fill in values for:")
	for _, vc := range result.MissingRequired {
		fmt.Fprintf(w, "       %s  # %s\n", vc.Name, vc.Description)
	}
	fmt.Fprintln(w, "  3. Load it: "+console.FormatCommandMessage("set -a && source .env && set +a"))
}
