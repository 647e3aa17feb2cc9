// Package repl's Port generalizes the interactive input loop into the
// line-oriented message-port protocol described by the external
// interfaces surface: one input message per line, tagged by kind, with
// a single-byte continue/stop response.
//
// Grounded on repl.go's Start loop: a peterh/liner reader with history
// and multiline mode, reshaped so the line-editing front end and the
// consumer deciding whether to keep reading are separate, communicating
// over Port instead of one method doing both.
package repl

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// InputKind tags one message read from a Port.
type InputKind int

const (
	// Source is an ordinary line of program text.
	Source InputKind = iota
	// Empty is a blank line (whitespace only).
	Empty
	// Directive is a colon-prefixed REPL command (":help", ...); ":quit"
	// and ":q" are classified as Quit instead.
	Directive
	// Quit is end-of-input: the stream is closed or the user asked to
	// stop.
	Quit
)

func (k InputKind) String() string {
	switch k {
	case Source:
		return "source"
	case Empty:
		return "empty"
	case Directive:
		return "directive"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Message is one line read from a Port, classified by kind.
type Message struct {
	Kind InputKind
	Text string
}

// classify tags a raw line by its input kind; Text holds the line with
// surrounding whitespace trimmed.
func classify(raw string) Message {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return Message{Kind: Empty, Text: trimmed}
	case strings.HasPrefix(trimmed, ":"):
		if trimmed == ":quit" || trimmed == ":q" {
			return Message{Kind: Quit, Text: trimmed}
		}
		return Message{Kind: Directive, Text: trimmed}
	default:
		return Message{Kind: Source, Text: trimmed}
	}
}

// Port is the line-oriented message-port protocol: Recv reads the next
// input message, Send reports back whether the session should
// continue (true) or stop (false) — the single response byte the
// external protocol names.
type Port interface {
	Recv() (Message, error)
	Send(shouldContinue bool) error
}

// linerPort is a Port backed by an interactive peterh/liner reader,
// grounded on repl.go's Start loop (history load/save, multiline mode).
type linerPort struct {
	line        *liner.State
	prompt      func() string
	historyPath string
}

// NewLinerPort builds an interactive Port reading from the terminal,
// using historyPath to persist command history across sessions (pass
// "" to disable persistence). prompt is called fresh before each read.
func NewLinerPort(historyPath string, prompt func() string) Port {
	line := liner.NewLiner()
	line.SetMultiLineMode(true)
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return &linerPort{line: line, prompt: prompt, historyPath: historyPath}
}

func (p *linerPort) Recv() (Message, error) {
	text, err := p.line.Prompt(p.prompt())
	if err != nil {
		if err == liner.ErrPromptAborted || err == io.EOF {
			return Message{Kind: Quit}, nil
		}
		return Message{}, err
	}
	p.line.AppendHistory(text)
	return classify(text), nil
}

// Send persists history on the final call (shouldContinue == false);
// the reader has no other use for the continue/stop response, since it
// already decided the message's kind in Recv.
func (p *linerPort) Send(shouldContinue bool) error {
	if shouldContinue || p.historyPath == "" {
		return nil
	}
	f, err := os.Create(p.historyPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = p.line.WriteHistory(f)
	return err
}

func (p *linerPort) Close() error { return p.line.Close() }

// scannerPort is a Port backed by a plain io.Reader, used for
// non-interactive translation units (piped source, tests) that don't
// want liner's terminal control codes.
type scannerPort struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScannerPort builds a Port over r, writing each Send response to w
// as the protocol's single byte (1 continue, 0 stop) so a driver on
// the other end of a real message port can be modeled with a pipe.
func NewScannerPort(r io.Reader, w io.Writer) Port {
	return &scannerPort{scanner: bufio.NewScanner(r), out: w}
}

func (p *scannerPort) Recv() (Message, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return Message{}, err
		}
		return Message{Kind: Quit}, nil
	}
	return classify(p.scanner.Text()), nil
}

func (p *scannerPort) Send(shouldContinue bool) error {
	if p.out == nil {
		return nil
	}
	b := byte(0)
	if shouldContinue {
		b = 1
	}
	_, err := p.out.Write([]byte{b})
	return err
}

// RunLoop drives port until a Quit message is received or handle
// returns false, sending the protocol's continue/stop response after
// every message. handle receives each non-Quit message; its return
// value becomes the next Send.
func RunLoop(port Port, handle func(Message) bool) error {
	for {
		msg, err := port.Recv()
		if err != nil {
			return err
		}
		if msg.Kind == Quit {
			return port.Send(false)
		}
		shouldContinue := handle(msg)
		if err := port.Send(shouldContinue); err != nil {
			return err
		}
		if !shouldContinue {
			return nil
		}
	}
}
