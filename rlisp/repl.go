package rlisp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"

	isatty "github.com/mattn/go-isatty"
)

func getLine(reader *bufio.Reader) (string, error) {
	line := make([]byte, 0)
	for {
		linepart, hasMore, err := reader.ReadLine()
		if err != nil {
			return "", err
		}
		line = append(line, linepart...)
		if !hasMore {
			break
		}
	}
	return string(line), nil
}

// NB at the moment this doesn't track comment and string state, so it
// will fail if unbalanced '(' are found in either.
func isBalanced(str string) bool {
	parens := 0
	squares := 0
	curlies := 0

	for _, c := range str {
		switch c {
		case '(':
			parens++
		case ')':
			parens--
		case '[':
			squares++
		case ']':
			squares--
		case '{':
			curlies++
		case '}':
			curlies--
		}
	}

	return parens == 0 && squares == 0 && curlies == 0
}

var continuationPrompt = "... "

// liner reads Stdin only. If noLiner, then we read from reader.
func (pr *Prompter) getExpression(reader *bufio.Reader, noLiner bool) (readin string, err error) {
	var line, nextline string

	if noLiner {
		fmt.Printf(pr.prompt)
		line, err = getLine(reader)
	} else {
		line, err = pr.Getline(nil)
	}
	if err != nil {
		return "", err
	}

	for !isBalanced(line) {
		if noLiner {
			fmt.Printf(continuationPrompt)
			nextline, err = getLine(reader)
		} else {
			nextline, err = pr.Getline(&continuationPrompt)
		}
		if err != nil {
			return "", err
		}
		line += "\n" + nextline
	}
	return line, nil
}

func processDumpCommand(env *Rlisp, args []string) {
	if len(args) == 0 {
		env.DumpEnvironment()
		return
	}
	obj, ok := env.FindObject(args[0])
	if !ok {
		fmt.Printf("`%s` not found\n", args[0])
		return
	}
	fmt.Println(obj.SexpString())
}

func Repl(env *Rlisp, cfg *RlispConfig) {
	var reader *bufio.Reader
	if cfg.NoLiner {
		// reader is used if one wishes to drop the liner library.
		// Useful for not full terminal env, like under test.
		reader = bufio.NewReader(os.Stdin)
	}

	if !cfg.Quiet {
		fmt.Printf("rlisp version %s\n", Version())
		fmt.Printf("press tab (repeatedly) to get completion suggestions. Ctrl-d to exit.\n")
	}
	var pr *Prompter // can be nil if noLiner
	if !cfg.NoLiner {
		pr = NewPrompter(cfg.Prompt)
		defer pr.Close()
	} else {
		pr = &Prompter{prompt: cfg.Prompt}
	}

	underscore := env.MakeSymbol("_")

	for {
		line, err := pr.getExpression(reader, cfg.NoLiner)
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return
			}
			fmt.Println(err)
			continue
		}

		Q("repl: raw line '%s'", line)
		parts := strings.Split(strings.Trim(line, " "), " ")
		if len(parts) == 0 {
			continue
		}
		first := strings.Trim(parts[0], " ")

		if first == ".quit" {
			break
		}

		if first == ".dump" {
			processDumpCommand(env, parts[1:])
			continue
		}

		if first == ".cd" {
			if len(parts) < 2 {
				fmt.Printf("provide directory path to change to.\n")
				continue
			}
			err := os.Chdir(parts[1])
			if err != nil {
				fmt.Printf("error: %s\n", err)
				continue
			}
			pwd, err := os.Getwd()
			if err == nil {
				fmt.Printf("cur dir: %s\n", pwd)
			} else {
				fmt.Printf("error: %s\n", err)
			}
			continue
		}

		if first == ".verb" {
			Verbose = !Verbose
			fmt.Printf("verbose: %v.\n", Verbose)
			continue
		}

		V("repl: evaluating '%s'", line)
		expr, err := env.EvalString(line)
		if err != nil {
			fmt.Println(AsSexpError(err).SexpString())
			if cfg.ExitOnFailure {
				os.Exit(1)
			}
			continue
		}

		if expr != Sexp(SexpNull) {
			env.global.bind(underscore, expr)
			fmt.Println(expr.SexpString())
		}
	}
}

// runScript evaluates every top-level form of fname in order. A failed
// form is reported and the rest of the file still runs, so a script
// behaves like the same forms typed at the repl.
func runScript(env *Rlisp, fname string, cfg *RlispConfig) {
	exprs, err := func() ([]Sexp, error) {
		file, err := os.Open(fname)
		if err != nil {
			return nil, ConditionDetail(ErrFileRead, "%s", fname)
		}
		defer file.Close()
		return env.ParseStream(NewLexer(bufio.NewReader(file)))
	}()
	if err != nil {
		fmt.Fprintln(os.Stderr, AsSexpError(err).SexpString())
		os.Exit(1)
	}
	V("script %s: %d top level forms", fname, len(exprs))

	for _, expr := range exprs {
		_, err := env.Eval(expr, env.global)
		if err != nil {
			fmt.Fprintln(os.Stderr, AsSexpError(err).SexpString())
			if cfg.ExitOnFailure {
				os.Exit(1)
			}
		}
	}
}

// runStream is batch mode for a piped-in program: read everything,
// then evaluate it as one unit.
func runStream(env *Rlisp, r io.Reader, cfg *RlispConfig) {
	_, err := env.LoadStream(bufio.NewReader(r))
	if err != nil {
		fmt.Fprintln(os.Stderr, AsSexpError(err).SexpString())
		if cfg.ExitOnFailure {
			os.Exit(1)
		}
	}
}

// like main() for a standalone repl, now in library
func ReplMain(cfg *RlispConfig) {
	env := NewRlisp()
	env.TypeCheckStrict = cfg.Strict
	env.StandardSetup()
	Verbose = cfg.Verbose

	if cfg.CpuProfile != "" {
		f, err := os.Create(cfg.CpuProfile)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		defer pprof.StopCPUProfile()
	}

	if cfg.Command != "" {
		res, err := env.EvalString(cfg.Command)
		if err != nil {
			fmt.Fprintln(os.Stderr, AsSexpError(err).SexpString())
			os.Exit(1)
		}
		if res != Sexp(SexpNull) {
			fmt.Println(res.SexpString())
		}
	} else {
		args := cfg.Flags.Args()
		switch {
		case len(args) > 0:
			runScript(env, args[0], cfg)
		case isatty.IsTerminal(os.Stdin.Fd()):
			Repl(env, cfg)
		default:
			// stdin is a pipe or file, not a person.
			runStream(env, os.Stdin, cfg)
		}
	}

	if cfg.MemProfile != "" {
		f, err := os.Create(cfg.MemProfile)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		defer f.Close()

		err = pprof.Lookup("heap").WriteTo(f, 1)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
	}
}
