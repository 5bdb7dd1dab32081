// Package driver orchestrates the four-pass pipeline: scan, parse,
// check, lower, print the textual IR, then hand off to the
// assembler/linker. The passes themselves live under lang/; this
// package only sequences them and owns the artifacts on disk.
package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kortho/varta/lang/checker"
	"github.com/kortho/varta/lang/diag"
	"github.com/kortho/varta/lang/ir"
	"github.com/kortho/varta/lang/lower"
	"github.com/kortho/varta/lang/parser"
	"github.com/kortho/varta/lang/scanner"
)

// Options configures one Run, mirroring cmd/vartac's -S/-o flags.
type Options struct {
	// OutputLL is the path out.ll is written to. Defaults to "out.ll" in
	// the current directory.
	OutputLL string
	// StopAfterLL skips assembling/linking once out.ll is written (the
	// -S flag).
	StopAfterLL bool
	// Executable is the path the final linked binary is written to when
	// StopAfterLL is false. Defaults to "a.out".
	Executable string
}

// Run executes the whole pipeline against the file at path, writing
// progress banners to out and returning the error of the first pass that
// fails (for the scanner, parser and checker: every error-severity
// diagnostic of that pass). Each pass gates the next: any error-severity
// diagnostic stops the compilation before the following pass runs.
func Run(out io.Writer, path string, opts Options) error {
	if opts.OutputLL == "" {
		opts.OutputLL = "out.ll"
	}
	if opts.Executable == "" {
		opts.Executable = "a.out"
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	fmt.Fprintf(out, "Compiling %s (%d bytes)\n", path, len(src))

	tokens, bag := scanner.Scan(string(src))
	if reportAndBail(out, "lexer", bag) {
		return bag.Err()
	}
	fmt.Fprintln(out, "Scanner returned successfully")

	prog, bag := parser.Parse(tokens)
	if reportAndBail(out, "parser", bag) {
		return bag.Err()
	}
	fmt.Fprintln(out, "Parsing completed successfully")

	global, bag := checker.Check(prog)
	if reportAndBail(out, "checker", bag) {
		return bag.Err()
	}
	fmt.Fprintln(out, "Program is valid")

	mod, err := lower.Lower(prog, global)
	if err != nil {
		fmt.Fprintf(out, "%s\n", err)
		fmt.Fprintln(out, "Error in lowerer")
		return err
	}
	fmt.Fprintln(out, "Module generated")

	if err := ir.Verify(mod); err != nil {
		fmt.Fprintf(out, "%s\n", err)
		fmt.Fprintln(out, "Error in lowerer")
		return err
	}

	if err := os.WriteFile(opts.OutputLL, []byte(ir.Print(mod)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.OutputLL, err)
	}
	fmt.Fprintf(out, "Wrote %s\n", opts.OutputLL)

	if opts.StopAfterLL {
		return nil
	}

	objPath := filepath.Join(filepath.Dir(opts.OutputLL), "output.o")
	if err := Assemble(mod, objPath); err != nil {
		return fmt.Errorf("assembling: %w", err)
	}
	fmt.Fprintf(out, "Wrote %s\n", objPath)

	if err := Link(objPath, opts.Executable); err != nil {
		return fmt.Errorf("linking: %w", err)
	}
	fmt.Fprintf(out, "Wrote %s\n", opts.Executable)
	return nil
}

// reportAndBail writes every accumulated record in bag to out and
// reports whether the pass failed, printing the pass's "Error in ..."
// banner when it did.
func reportAndBail(out io.Writer, pass string, bag *diag.Bag) bool {
	for _, r := range bag.Records() {
		fmt.Fprintf(out, "%s\n", r)
	}
	if bag.HasErrors() {
		fmt.Fprintf(out, "Error in %s\n", pass)
		return true
	}
	return false
}
