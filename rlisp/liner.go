package rlisp

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/glycerine/liner"
)

var history_fn = filepath.Join("~/.rlisp_history")

var completion_keywords = []string{`(`, `(append `, `(apply `, `(begin `, `(bload `, `(bool? `, `(bsave `, `(car `, `(cdr `, `(check-sig `, `(concat `, `(cond `, `(cons `, `(define `, `(define-macro `, `(define-macro-rule `, `(define-struct `, `(dump `, `(empty? `, `(error-code `, `(error-description `, `(error-payload `, `(error? `, `(exit `, `(float? `, `(fn `, `(function? `, `(gensym `, `(hash64 `, `(head `, `(import `, `(int? `, `(json `, `(lambda `, `(len `, `(let `, `(list `, `(list? `, `(make-error `, `(msgpack `, `(nil? `, `(not `, `(number? `, `(print `, `(printf `, `(println `, `(quasiquote `, `(quote `, `(raise `, `(read-file `, `(read-line `, `(set! `, `(str `, `(string? `, `(struct? `, `(swap! `, `(symbol? `, `(tail `, `(try `, `(type `, `(unjson `, `(unless `, `(unmsgpack `, `(unquote `, `(when `, `(!= `, `(* `, `(** `, `(+ `, `(- `, `(/ `, `(< `, `(<= `, `(== `, `(> `, `(>= `, `(mod `}

type Prompter struct {
	prompt   string
	prompter *liner.State
	origMode liner.ModeApplier
	rawMode  liner.ModeApplier
}

func NewPrompter(prompt string) *Prompter {
	origMode, err := liner.TerminalMode()
	if err != nil {
		panic(err)
	}

	p := &Prompter{
		prompt:   prompt,
		prompter: liner.NewLiner(),
		origMode: origMode,
	}

	rawMode, err := liner.TerminalMode()
	if err != nil {
		panic(err)
	}
	p.rawMode = rawMode

	p.prompter.SetCtrlCAborts(false)

	p.prompter.SetCompleter(func(line string) (c []string) {
		for _, n := range completion_keywords {
			if strings.HasPrefix(n, strings.ToLower(line)) {
				c = append(c, n)
			}
		}
		return
	})

	if f, err := os.Open(history_fn); err == nil {
		p.prompter.ReadHistory(f)
		f.Close()
	}

	return p
}

func (p *Prompter) Close() {
	defer p.prompter.Close()
	if f, err := os.Create(history_fn); err != nil {
		log.Print("Error writing history file: ", err)
	} else {
		p.prompter.WriteHistory(f)
		f.Close()
	}
}

func (p *Prompter) Getline(prompt *string) (line string, err error) {
	applyErr := p.rawMode.ApplyMode()
	if applyErr != nil {
		panic(applyErr)
	}
	defer func() {
		applyErr := p.origMode.ApplyMode()
		if applyErr != nil {
			panic(applyErr)
		}
	}()

	if prompt == nil {
		line, err = p.prompter.Prompt(p.prompt)
	} else {
		line, err = p.prompter.Prompt(*prompt)
	}
	if err == nil {
		p.prompter.AppendHistory(line)
		return line, nil
	}
	return "", err
}
