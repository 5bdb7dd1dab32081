// Command vartac is the Varta compiler's CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kortho/varta/internal/driver"
	"github.com/mna/mainer"
)

const binName = "vartac"

var (
	shortUsage = fmt.Sprintf("usage: %s [-S] [-o <path>] <source>\nRun '%[1]s -h' for details.\n", binName)

	longUsage = fmt.Sprintf(`usage: %s [-S] [-o <path>] <source>
       %[1]s -h|--help
       %[1]s -v|--version

Ahead-of-time compiler for the Varta language.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -S                        Stop after writing out.ll; skip
                                 assembling and linking.
       -o <path>                 Write the linked executable to <path>
                                 (default: a.out).
`, binName)
)

// Cmd is the CLI's flag/argument surface, parsed by mna/mainer.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	StopAfterLL bool   `flag:"S"`
	Output      string `flag:"o"`

	args []string
}

func (c *Cmd) SetArgs(args []string)        { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return errors.New("exactly one source file must be provided")
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	opts := driver.Options{StopAfterLL: c.StopAfterLL, Executable: c.Output}
	if err := driver.Run(stdio.Stdout, c.args[0], opts); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}
	return mainer.Success
}

var (
	// placeholder values, replaced on build
	version   = "{v}"
	buildDate = "{d}"
)

func main() {
	c := Cmd{BuildVersion: version, BuildDate: buildDate}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
