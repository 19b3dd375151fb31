// Package display renders command results for humans (pterm tables and
// prefixed status lines) or machines (indented JSON).
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

// JSONEnv forces JSON output when set to a true value
const JSONEnv = "SLAPSTICK_JSON"

// ShouldOutputJSON reports whether cmd should print JSON: an explicit --json
// flag wins, then the SLAPSTICK_JSON environment variable.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd != nil {
		if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
			on, _ := cmd.Flags().GetBool("json")
			return on
		}
	}
	on, _ := strconv.ParseBool(os.Getenv(JSONEnv))
	return on
}

// MarshalJSON marshals v with two-space indentation
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// OutputJSON writes v to w as indented JSON followed by a newline
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Table writes a header row and rows as a pterm table
func Table(w io.Writer, header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// KeyValues writes label/value pairs as a two-column table without header
func KeyValues(w io.Writer, pairs [][2]string) error {
	data := make(pterm.TableData, 0, len(pairs))
	for _, p := range pairs {
		data = append(data, []string{pterm.Bold.Sprint(p[0]), p[1]})
	}
	out, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Section writes a heading
func Section(w io.Writer, title string) {
	fmt.Fprint(w, pterm.DefaultSection.Sprintln(title))
}

// Success writes a success status line
func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprint(w, pterm.Success.Sprintln(fmt.Sprintf(format, args...)))
}

// Info writes an informational status line
func Info(w io.Writer, format string, args ...interface{}) {
	fmt.Fprint(w, pterm.Info.Sprintln(fmt.Sprintf(format, args...)))
}

// Warning writes a warning status line
func Warning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprint(w, pterm.Warning.Sprintln(fmt.Sprintf(format, args...)))
}

// Error writes err followed by any hints attached to it
func Error(w io.Writer, err error) {
	fmt.Fprint(w, pterm.Error.Sprintln(err.Error()))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintln(w, "  hint: "+hint)
	}
}
