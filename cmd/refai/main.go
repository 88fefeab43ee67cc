/*
Refai starts an interactive refa session.

It reads a regular expression, converts it into a deterministic finite
automaton, and then shows a menu for inspecting the automaton and checking
words against it until the exit option is chosen or input ends.

Usage:

	refai [flags]

The flags are:

	-v, --version
		Give the current version of refa and then exit.

	-p, --pattern PATTERN
		Compile the given pattern instead of reading one from a file.

	-f, --file FILE
		Read the pattern from the given file. Defaults to "regex_input.txt" in
		the current working directory. If the file cannot be read, the pattern
		is asked for on stdin.

	-o, --output FILE
		Save the automaton to the given file when it is shown. Defaults to
		"dfa_output.txt" in the current working directory.

	-c, --config FILE
		Load settings from the given TOML file. Defaults to "refa.toml" in the
		current working directory; it is not an error for that file to be
		missing. Flags override settings from the file.

	--strict
		Treat unmatched parentheses in the pattern as an error instead of
		ignoring them.

	-w, --width COLUMNS
		Wrap output to the given number of columns.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input even if launched in a tty
		with stdin and stdout.

Patterns are made of symbols and the operators | (union), * (zero or more),
+ (one or more), ? (zero or one), and parentheses for grouping. Symbols written
next to each other are concatenated.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/refa"
	"github.com/dekarrin/refa/internal/config"
	"github.com/dekarrin/refa/internal/usererr"
	"github.com/dekarrin/refa/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the engine.
	ExitInitError
)

const defaultConfigFile = "refa.toml"

var (
	returnCode = ExitSuccess

	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of refa and then exit.")
	flagPattern = pflag.StringP("pattern", "p", "", "Compile the given pattern instead of reading one from a file.")
	flagFile    = pflag.StringP("file", "f", config.DefaultPatternFile, "Read the pattern from the given file.")
	flagOutput  = pflag.StringP("output", "o", config.DefaultOutputFile, "Save the automaton to the given file.")
	flagConfig  = pflag.StringP("config", "c", defaultConfigFile, "Load settings from the given TOML file.")
	flagStrict  = pflag.Bool("strict", false, "Treat unmatched parentheses as an error.")
	flagWidth   = pflag.IntP("width", "w", config.DefaultWidth, "Wrap output to the given number of columns.")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	// flags given explicitly win over the config file
	if pflag.Lookup("pattern").Changed {
		cfg.Pattern = *flagPattern
	}
	if pflag.Lookup("file").Changed {
		cfg.PatternFile = *flagFile
	}
	if pflag.Lookup("output").Changed {
		cfg.OutputFile = *flagOutput
	}
	if pflag.Lookup("strict").Changed {
		cfg.Strict = *flagStrict
	}
	if pflag.Lookup("width").Changed {
		cfg.Width = *flagWidth
	}

	eng, initErr := refa.New(os.Stdin, os.Stdout, cfg, *flagDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	err = eng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", usererr.Message(err))
		returnCode = ExitSessionError
		return
	}
}
