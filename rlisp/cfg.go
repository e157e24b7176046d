package rlisp

import (
	"flag"
)

// configure an rlisp repl
type RlispConfig struct {
	CpuProfile    string
	MemProfile    string
	ExitOnFailure bool
	Command       string
	Quiet         bool
	Strict        bool
	Verbose       bool
	Flags         *flag.FlagSet

	// liner bombs under emacs, avoid it with this flag.
	NoLiner bool
	Prompt  string // default "rlisp> "
}

func NewRlispConfig(cmdname string) *RlispConfig {
	return &RlispConfig{
		Flags: flag.NewFlagSet(cmdname, flag.ExitOnError),
	}
}

// call DefineFlags before myflags.Parse()
func (c *RlispConfig) DefineFlags() {
	c.Flags.StringVar(&c.CpuProfile, "cpuprofile", "", "write cpu profile to file")
	c.Flags.StringVar(&c.MemProfile, "memprofile", "", "write mem profile to file")
	c.Flags.BoolVar(&c.ExitOnFailure, "exitonfail", false, "exit on failure instead of starting repl")
	c.Flags.StringVar(&c.Command, "c", "", "expressions to evaluate")
	c.Flags.BoolVar(&c.Quiet, "quiet", false, "start repl without printing the version banner")
	c.Flags.BoolVar(&c.Strict, "strict", false, "make check-sig match struct types by name")
	c.Flags.BoolVar(&c.Verbose, "verbose", false, "trace evaluation and macro expansion")
	c.Flags.BoolVar(&c.NoLiner, "noliner", false, "read lines without line editing or history")
}

// call c.ValidateConfig() after myflags.Parse()
func (c *RlispConfig) ValidateConfig() error {
	if c.Prompt == "" {
		c.Prompt = "rlisp> "
	}
	return nil
}
