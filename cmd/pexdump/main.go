// Command pexdump inspects a compiled PEX file: it can print a static
// disassembly to stdout, or open an interactive terminal browser over the
// decoded instructions. A PEX file carries no constant pool, so neither
// mode shows one.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

const version = "0.1.0"

// printUsage displays custom usage information, in the shape of the
// teacher CLI's own --help text.
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `pexdump v%s

USAGE:
    %s [OPTIONS] <file.pex>

DESCRIPTION:
    pexdump loads a compiled PEX file and inspects its decoded bytecode.
    Without -tui, it prints a static disassembly to stdout.

OPTIONS:
    -tui              Open an interactive instruction browser
    -no-color         Disable styled output in -tui mode
    -v, --version     Show version information
    -h, --help        Show this help message

EXAMPLES:
    %s out.pex
    %s -tui out.pex

`, version, os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	tuiFlag := flag.Bool("tui", false, "open an interactive browser")
	noColorFlag := flag.Bool("no-color", false, "disable styled output")
	versionFlag := flag.Bool("version", false, "show version information")
	flag.BoolVar(versionFlag, "v", false, "show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("pexdump v%s\n", version)
		return
	}

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(2)
	}

	path := filepath.Clean(flag.Arg(0))
	sections, err := loadSections(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pexdump: %s\n", err)
		os.Exit(1)
	}

	if *tuiFlag {
		p := tea.NewProgram(initialModel(path, sections, *noColorFlag))
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "pexdump: %s\n", err)
			os.Exit(1)
		}
		return
	}

	for i, sec := range sections {
		fmt.Printf("; section %d, %d instructions\n", i, len(sec))
		for addr, in := range sec {
			fmt.Printf("%04d %s\n", addr, in)
		}
	}
}
