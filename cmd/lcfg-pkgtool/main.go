// Command lcfg-pkgtool is a small CLI over the pkgspec/format packages: it
// reformats spec lines, filters them by glob, and converts to/from RPM and
// Debian filenames.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sjquinney/lcfg-core/format"
	"github.com/sjquinney/lcfg-core/pkgspec"
)

// arrayFlags collects a repeated -flag into a slice.
type arrayFlags []string

func (a *arrayFlags) String() string { return strings.Join(*a, ", ") }

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "fmt":
		runFmt(os.Args[2:])
	case "filter":
		runFilter(os.Args[2:])
	case "rpm-name":
		runRPMName(os.Args[2:])
	case "deb-name":
		runDebName(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: lcfg-pkgtool <command> [flags]")
	fmt.Println("\nCommands:")
	fmt.Println("  fmt        Reparse and reformat spec lines from stdin")
	fmt.Println("  filter     Filter spec lines from stdin by name/arch glob")
	fmt.Println("  rpm-name   Print the RPM-style filename for a spec line")
	fmt.Println("  deb-name   Print the Debian-style filename for a spec line")
}

func readLines(path string) ([]string, error) {
	var f *os.File
	if path == "" || path == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
	}
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func runFmt(args []string) {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	in := fs.String("in", "-", "Input file of spec lines, '-' for stdin")
	defaultArch := fs.String("default-arch", "", "Arch to suppress in output when it matches a record's arch")
	noPrefix := fs.Bool("no-prefix", false, "Suppress the prefix character on output")
	noContext := fs.Bool("no-context", false, "Suppress the context expression on output")
	fs.Parse(args)

	lines, err := readLines(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-pkgtool: %v\n", err)
		os.Exit(1)
	}

	var opts format.Options
	if *noPrefix {
		opts |= format.NoPrefix
	}
	if *noContext {
		opts |= format.NoContext
	}

	for _, line := range lines {
		p, err := pkgspec.Parse(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lcfg-pkgtool: %v\n", err)
			continue
		}
		fmt.Println(format.Spec(p, *defaultArch, opts))
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	in := fs.String("in", "-", "Input file of spec lines, '-' for stdin")
	var nameGlobs arrayFlags
	fs.Var(&nameGlobs, "name", "Name glob to keep (may be repeated; OR'd together)")
	archGlob := fs.String("arch", "", "Arch glob to keep")
	fs.Parse(args)

	lines, err := readLines(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-pkgtool: %v\n", err)
		os.Exit(1)
	}

	for _, line := range lines {
		p, err := pkgspec.Parse(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lcfg-pkgtool: %v\n", err)
			continue
		}
		if len(nameGlobs) == 0 {
			if p.Match("", *archGlob) {
				fmt.Println(line)
			}
			continue
		}
		for _, g := range nameGlobs {
			if p.Match(g, *archGlob) {
				fmt.Println(line)
				break
			}
		}
	}
}

func runRPMName(args []string) {
	fs := flag.NewFlagSet("rpm-name", flag.ExitOnError)
	line := fs.String("line", "", "Spec line to convert")
	fs.Parse(args)

	p, err := pkgspec.Parse(*line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-pkgtool: %v\n", err)
		os.Exit(1)
	}
	name, err := format.RPMFilename(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-pkgtool: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(name)
}

func runDebName(args []string) {
	fs := flag.NewFlagSet("deb-name", flag.ExitOnError)
	line := fs.String("line", "", "Spec line to convert")
	fs.Parse(args)

	p, err := pkgspec.Parse(*line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-pkgtool: %v\n", err)
		os.Exit(1)
	}
	name, err := format.DebFilename(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-pkgtool: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(name)
}
