// abacheck validates ABA direct entry files from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alt-ctrl-dev/aba-validator/internal/ingestion"
	"github.com/alt-ctrl-dev/aba-validator/internal/models"
	"github.com/alt-ctrl-dev/aba-validator/internal/parser"
)

func usage() {
	fmt.Fprintf(os.Stderr, `abacheck
ABA file validator

Usage:
  abacheck validate <file>           Report every invalid record
  abacheck lines    <file>           Print the outcome of every line as JSON
  abacheck records  <file> [filter]  Print the records of an ordered file as JSON
  abacheck help                      Show this help message

Filters:
  all (default), descriptive_record, detail_record, file_record
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := strings.ToLower(os.Args[1])
	args := os.Args[2:]

	// Local commands never touch the database.
	processor := ingestion.NewFileProcessor(nil, nil)

	switch cmd {
	case "help", "-h", "--help":
		usage()
	case "validate":
		requireFile(args)
		os.Exit(cmdValidate(processor, args[0]))
	case "lines":
		requireFile(args)
		cmdLines(processor, args[0])
	case "records":
		requireFile(args)
		filter := models.FilterAll
		if len(args) > 1 {
			filter = models.RecordFilter(args[1])
		}
		cmdRecords(processor, args[0], filter)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func requireFile(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: file path required")
		os.Exit(1)
	}
}

func cmdValidate(processor *ingestion.FileProcessor, path string) int {
	outcomes, err := processor.ProcessFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return 1
	}

	invalid := 0
	for _, outcome := range outcomes {
		if outcome.Valid() {
			continue
		}
		invalid++
		fmt.Printf("line %d (%s): %v\n", outcome.Line, outcome.Kind, outcome.Err)
	}

	if invalid > 0 {
		fmt.Printf("%s: %d of %d records invalid\n", path, invalid, len(outcomes))
		return 1
	}
	fmt.Printf("%s: %d records valid\n", path, len(outcomes))
	return 0
}

func cmdLines(processor *ingestion.FileProcessor, path string) {
	outcomes, err := processor.ProcessFile(path)
	if err != nil {
		fail(path, err)
	}
	printJSON(models.NewRecordViews(outcomes))
}

func cmdRecords(processor *ingestion.FileProcessor, path string, filter models.RecordFilter) {
	records, err := processor.GetRecords(path, filter)
	if err != nil {
		fail(path, err)
	}
	printJSON(models.NewFileRecordsView(records))
}

func fail(path string, err error) {
	if line := parser.LineOf(err); line > 0 {
		fmt.Fprintf(os.Stderr, "%s:%d: %v\n", path, line, err)
	} else {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
	}
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
