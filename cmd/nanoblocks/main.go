package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/chestozo/nanoblocks"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "scan":
		if err := runScan(os.Stdout, args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "events":
		fmt.Println(strings.Join(nanoblocks.DOMEvents(), "\n"))
	case "version":
		fmt.Printf("nanoblocks version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`nanoblocks - block markup inspector

Usage:
  nanoblocks <command> [arguments]

Commands:
  scan [options] FILE...  List elements declaring blocks
  events                  List DOM event types blocks can handle
  version                 Print version
  help                    Show this help

Options for scan:
  --marker=ATTR           Marker attribute (default data-nb)
  --id=ATTR               Identity attribute (default id)
  --init-class=CLASS      Eager-init class (default _init)

Examples:
  nanoblocks scan index.html
  nanoblocks scan --marker=data-block page.html`)
}

func runScan(w io.Writer, args []string) error {
	var opts []nanoblocks.Option
	var files []string

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--marker="):
			opts = append(opts, nanoblocks.WithMarkerAttr(strings.TrimPrefix(arg, "--marker=")))
		case strings.HasPrefix(arg, "--id="):
			opts = append(opts, nanoblocks.WithIDAttr(strings.TrimPrefix(arg, "--id=")))
		case strings.HasPrefix(arg, "--init-class="):
			opts = append(opts, nanoblocks.WithInitClass(strings.TrimPrefix(arg, "--init-class=")))
		case strings.HasPrefix(arg, "--"):
			return fmt.Errorf("unknown option: %s", arg)
		default:
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("scan: no input files")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tELEMENT\tBLOCK\tID\tEAGER")
	for _, file := range files {
		if err := scanFile(tw, file, opts); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func scanFile(w io.Writer, file string, opts []nanoblocks.Option) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := nanoblocks.ParseDocument(f)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	for _, m := range nanoblocks.Scan(doc.Root(), opts...) {
		id := m.ID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", file, m.Node.Data, strings.Join(m.Parts, "+"), id, m.Eager)
	}
	return nil
}
