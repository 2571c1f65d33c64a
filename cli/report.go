// ABOUTME: Report and data exchange CLI commands
// ABOUTME: Prints the dashboard, exports JSON or CSV, imports backups and resets data
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harperreed/simplecrm/exchange"
	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
	"github.com/harperreed/simplecrm/viz"
	"golang.org/x/term"
)

// ReportCommand renders the pipeline dashboard.
func ReportCommand(s *store.Store, args []string) error {
	fs := newFlagSet("report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	printf("%s\n", viz.RenderDashboard(query.ComputeStats(s.Snapshot())))
	return nil
}

// ReportCSVCommand prints the deal report as CSV.
func ReportCSVCommand(s *store.Store, args []string) error {
	fs := newFlagSet("report csv")
	if err := fs.Parse(args); err != nil {
		return err
	}

	printf("%s\n", exchange.ExportCSV(s.Snapshot()))
	return nil
}

// ExportCommand writes the document as JSON (full backup) or the deal report as CSV.
func ExportCommand(s *store.Store, args []string) error {
	fs := newFlagSet("export")
	format := fs.String("format", "json", "json or csv")
	output := fs.String("output", "", "Output file, or - for stdout (default: the standard file name)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc := s.Snapshot()
	var data []byte
	name := ""
	switch strings.ToLower(*format) {
	case "json":
		b, err := exchange.ExportJSON(doc)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		data, name = b, exchange.JSONFileName
	case "csv":
		data, name = []byte(exchange.ExportCSV(doc)), exchange.CSVFileName
	default:
		return fmt.Errorf("invalid format %q: expected json or csv", *format)
	}

	if *output == "-" {
		_, err := stdout.Write(append(data, '\n'))
		return err
	}
	if *output != "" {
		name = *output
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	printf("✓ Exported to %s\n", name)
	return nil
}

// ImportCommand replaces all data with a previously exported JSON document.
// The file argument may be - to read standard input.
func ImportCommand(s *store.Store, args []string) error {
	fs := newFlagSet("import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("file to import is required")
	}

	var (
		data []byte
		err  error
	)
	if path := fs.Arg(0); path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}

	if err := s.Import(data); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	doc := s.Snapshot()
	printf("✓ Imported successfully. %d contact(s), %d task(s)\n", len(doc.Contacts), len(doc.Tasks))
	return nil
}

// ResetCommand clears stored data and restores the sample contacts.
// Asks for confirmation on a terminal; elsewhere --confirm is required.
func ResetCommand(s *store.Store, args []string) error {
	fs := newFlagSet("reset")
	confirmed := fs.Bool("confirm", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*confirmed {
		ok, err := confirm("Reset all data and restore the sample contacts?")
		if err != nil {
			return err
		}
		if !ok {
			printf("Reset cancelled\n")
			return nil
		}
	}

	if err := s.Reset(); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	printf("✓ Data reset to sample contacts\n")
	return nil
}

// isTerminal is swapped out in tests.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

func confirm(question string) (bool, error) {
	if !isTerminal() {
		return false, fmt.Errorf("refusing to continue without a terminal; pass --confirm")
	}
	printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
