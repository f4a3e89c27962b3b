// bsonconv converts between BSON document streams and JSON, YAML or CBOR.
//
//	bsonconv encode --from json < docs.jsonc > docs.bson
//	bsonconv decode --to yaml < docs.bson
//
// encode accepts JSON with comments and trailing commas, or multi-document
// YAML, and writes one BSON document per top-level value. decode reads
// concatenated BSON documents, such as a collection dump, and prints each in
// the requested format. Identifiers, dates, binaries and regular expressions
// use the extended JSON forms ({"$oid": ...}, {"$date": ...}, ...) in both
// directions.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// streams are the process streams a command reads from and writes to.
type streams struct {
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

type command struct {
	name    string
	summary string
	flags   func(*pflag.FlagSet) func(streams) error
}

var commands = []command{
	{name: "encode", summary: "Convert JSON or YAML documents to a BSON stream", flags: encodeFlags},
	{name: "decode", summary: "Print a BSON stream as JSON, YAML or CBOR", flags: decodeFlags},
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdout)
		return nil
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}

	var (
		inPath  string
		outPath string
		verbose bool
	)
	flagSet := pflag.NewFlagSet("bsonconv "+cmd.name, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&inPath, "in", "i", "", "read input from this file instead of stdin")
	flagSet.StringVarP(&outPath, "out", "o", "", "write output to this file instead of stdout")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every document to stderr")
	flagSet.BoolP("help", "h", false, "show help")
	action := cmd.flags(flagSet)

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, cmd, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stdout, cmd, flagSet)
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("%s takes no positional arguments, got %q", cmd.name, flagSet.Arg(0))
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	s := streams{in: stdin, out: stdout, logger: logger}
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		s.in = f
	}
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		s.out = f
		if err := action(s); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return action(s)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bsonconv <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, `Run "bsonconv <command> --help" for the flags of a command.`)
}

func printHelp(w io.Writer, cmd *command, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: bsonconv %s [flags]\n\n%s.\n\nFlags:\n", cmd.name, cmd.summary)
	fmt.Fprint(w, flagSet.FlagUsages())
}
