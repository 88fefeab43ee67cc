// Package refa contains a CLI-driven engine for compiling a regular
// expression into a DFA and then inspecting and running the automaton from a
// menu until the user quits.
package refa

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/refa/internal/automaton"
	"github.com/dekarrin/refa/internal/config"
	"github.com/dekarrin/refa/internal/input"
	"github.com/dekarrin/refa/internal/regex"
	"github.com/dekarrin/refa/internal/usererr"
	"github.com/dekarrin/rosed"
)

// QuitWord is typed while checking words to go back to the menu.
const QuitWord = "/quit"

const menuText = `
Menu:
  1. Show postfix form
  2. Show syntax tree
  3. Show automaton and save it to the output file
  4. Check words
  5. Validate automaton
  6. Load automaton from a definition file
  7. Show automaton definition
  8. Enter a new pattern
  0. Exit
`

// Engine contains the things needed to run a refa session from an
// interactive shell attached to an input stream and an output stream.
type Engine struct {
	cfg         config.Config
	in          input.LineReader
	out         *bufio.Writer
	forceDirect bool
	useReadline bool
	running     bool

	// compiled is nil when the current automaton was loaded from a
	// definition file instead of compiled from a pattern.
	compiled *regex.Compiled
	dfa      automaton.DFA
	source   string
}

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and
// a buffered writer on the output stream. The pattern is not loaded until
// RunUntilQuit is called.
//
// If nil is given for the input stream, stdin is used. If nil is given for
// the output stream, stdout is used. cfg has defaults filled in for anything
// it does not set.
func New(inputStream io.Reader, outputStream io.Writer, cfg config.Config, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	eng := &Engine{
		cfg:         cfg,
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
	}

	eng.useReadline = !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if eng.useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close input reader: %w", err)
	}

	return nil
}

// DFA returns the automaton the engine is currently working with.
func (eng *Engine) DFA() automaton.DFA {
	return eng.dfa
}

// RunUntilQuit loads the pattern and compiles it, then reads menu choices
// from the streams and carries them out until the exit option is chosen or
// input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "refa: regular expression to DFA\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "===============================\n"

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	pattern, err := eng.initialPattern()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	if err := eng.compile(pattern); err != nil {
		return err
	}

	for eng.running {
		if err := eng.write(menuText); err != nil {
			return err
		}

		choice, err := eng.prompt("Option > ", false)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get menu option: %w", err)
		}

		err = eng.doOption(choice)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if err := eng.writeUserError(err); err != nil {
				return err
			}
		}
	}

	return eng.write("Goodbye\n")
}

func (eng *Engine) doOption(choice string) error {
	switch choice {
	case "0":
		eng.running = false
		return nil
	case "1":
		return eng.showPostfix()
	case "2":
		return eng.showTree()
	case "3":
		return eng.showAndSaveAutomaton()
	case "4":
		return eng.checkWords()
	case "5":
		return eng.validate()
	case "6":
		return eng.loadDefinition()
	case "7":
		return eng.showDefinition()
	case "8":
		return eng.newPattern()
	default:
		return usererr.Newf("%q is not an option. Choose a number from the menu.", choice)
	}
}

// initialPattern gives the pattern from the config, or else from the pattern
// file, or else asks for it.
func (eng *Engine) initialPattern() (string, error) {
	if eng.cfg.Pattern != "" {
		return input.NormalizePattern(eng.cfg.Pattern), nil
	}

	pattern, err := input.LoadPattern(eng.cfg.PatternFile)
	if err == nil {
		return pattern, nil
	}

	msg := fmt.Sprintf("Could not read a pattern from %q. Enter the pattern:", eng.cfg.PatternFile)
	if err := eng.writeMessage(msg); err != nil {
		return "", err
	}

	line, err := eng.prompt("> ", true)
	if err != nil {
		return "", err
	}
	return input.NormalizePattern(line), nil
}

func (eng *Engine) compile(pattern string) error {
	if err := eng.write(fmt.Sprintf("Pattern: %s\n", pattern)); err != nil {
		return err
	}

	c, err := regex.Compile(pattern, regex.Options{Strict: eng.cfg.Strict})
	if err != nil {
		return usererr.Wrapf(err, "Could not build an automaton from the pattern: %s", err)
	}

	for _, d := range c.Diagnostics {
		if err := eng.writeMessage(fmt.Sprintf("[WARN] %s; it was ignored", d)); err != nil {
			return err
		}
	}

	eng.compiled = c
	eng.dfa = c.DFA
	eng.source = "pattern " + pattern
	return eng.writeMessage(fmt.Sprintf("[INFO] Automaton built: %d states.", len(c.DFA.States())))
}

func (eng *Engine) requirePattern() error {
	if eng.compiled == nil {
		return usererr.New("The current automaton was loaded from a definition file and has no pattern.", "no compiled pattern")
	}
	return nil
}

func (eng *Engine) showPostfix() error {
	if err := eng.requirePattern(); err != nil {
		return err
	}
	return eng.write(fmt.Sprintf("Postfix: %s\n", eng.compiled.Postfix))
}

func (eng *Engine) showTree() error {
	if err := eng.requirePattern(); err != nil {
		return err
	}

	tree, err := eng.compiled.Tree()
	if err != nil {
		return usererr.Wrapf(err, "Could not build the syntax tree: %s", err)
	}
	if tree == nil {
		return eng.writeMessage("The pattern is empty; its syntax tree has no nodes.")
	}

	return eng.write("Syntax tree:\n" + tree.String())
}

func (eng *Engine) showAndSaveAutomaton() error {
	var sb strings.Builder
	if err := eng.dfa.Render(&sb, eng.cfg.Width); err != nil {
		return err
	}
	rendered := sb.String() + "\n"

	// each DFA state of a compiled pattern stands for a set of NFA states
	if eng.compiled != nil {
		_, sets := eng.compiled.NFA.ToDFAWithSets()
		rendered += "\nNFA states of each DFA state:\n"
		for q, set := range sets {
			rendered += fmt.Sprintf("  %d = %s\n", q, set.StringOrdered())
		}
	}

	if err := eng.write("\n" + rendered); err != nil {
		return err
	}

	if err := os.WriteFile(eng.cfg.OutputFile, []byte(rendered), 0644); err != nil {
		return usererr.Wrapf(err, "Could not save the automaton to %q: %s", eng.cfg.OutputFile, err)
	}

	return eng.writeMessage(fmt.Sprintf("[INFO] The automaton was also saved to %q.", eng.cfg.OutputFile))
}

func (eng *Engine) checkWords() error {
	if err := eng.write("\n"); err != nil {
		return err
	}
	if err := eng.writeMessage("Checking words. Press Enter on an empty line for the empty word."); err != nil {
		return err
	}
	if err := eng.writeMessage(fmt.Sprintf("Type %q to go back to the menu.", QuitWord)); err != nil {
		return err
	}

	for {
		// spaces can be symbols, so the word is taken as typed
		word, err := eng.promptRaw("Word > ")
		if err != nil {
			return err
		}
		if strings.TrimSpace(word) == QuitWord {
			return nil
		}

		result := "REJECTED"
		if eng.dfa.Accepts(word) {
			result = "ACCEPTED"
		}

		if err := eng.write(fmt.Sprintf("%q -> %s\n", word, result)); err != nil {
			return err
		}
	}
}

func (eng *Engine) validate() error {
	if err := eng.dfa.Validate(); err != nil {
		return eng.writeMessage(fmt.Sprintf("INVALID: %s", err))
	}
	return eng.writeMessage("OK: the automaton is well-formed.")
}

func (eng *Engine) loadDefinition() error {
	path, err := eng.prompt("Definition file > ", false)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return usererr.Wrapf(err, "Could not open %q: %s", path, err)
	}
	defer f.Close()

	dfa, err := automaton.ParseDefinition(f)
	if err != nil {
		return usererr.Wrapf(err, "Could not read the automaton in %q: %s", path, err)
	}

	eng.compiled = nil
	eng.dfa = dfa
	eng.source = "file " + path

	if err := eng.writeMessage(fmt.Sprintf("[INFO] Loaded automaton from %q.", path)); err != nil {
		return err
	}
	return eng.validate()
}

func (eng *Engine) showDefinition() error {
	text, err := eng.dfa.MarshalText()
	if err != nil {
		return err
	}
	return eng.write(fmt.Sprintf("# from %s\n%s", eng.source, text))
}

func (eng *Engine) newPattern() error {
	line, err := eng.prompt("Pattern > ", true)
	if err != nil {
		return err
	}
	return eng.compile(input.NormalizePattern(line))
}

// prompt reads one line of input, showing p first.
func (eng *Engine) prompt(p string, allowBlank bool) (string, error) {
	if !eng.useReadline {
		if err := eng.write(p); err != nil {
			return "", err
		}
	}

	eng.in.SetPrompt(p)
	eng.in.AllowBlank(allowBlank)
	line, err := eng.in.ReadLine()
	eng.in.AllowBlank(false)

	return line, err
}

// promptRaw is like prompt but returns the line untrimmed, blank or not.
func (eng *Engine) promptRaw(p string) (string, error) {
	if !eng.useReadline {
		if err := eng.write(p); err != nil {
			return "", err
		}
	}

	eng.in.SetPrompt(p)
	return eng.in.ReadRawLine()
}

func (eng *Engine) writeUserError(err error) error {
	return eng.writeMessage(usererr.Message(err))
}

// writeMessage writes a line of prose wrapped to the configured width.
func (eng *Engine) writeMessage(msg string) error {
	msg = rosed.Edit(msg).Wrap(eng.cfg.Width).String()
	return eng.write(msg + "\n")
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
