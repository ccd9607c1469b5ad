package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ichiban/horn"
	"github.com/ichiban/horn/store"
	"github.com/ichiban/horn/term"
)

// lineReader is the part of *terminal.Terminal the top level uses.
type lineReader interface {
	ReadLine() (string, error)
	SetPrompt(prompt string)
}

// repl is the interactive top level.
type repl struct {
	i     *horn.Interpreter
	store *store.Store
	log   *logrus.Logger
	in    lineReader
	out   io.Writer
	keys  io.RuneReader
	buf   strings.Builder
}

// handleLine reads a line and runs the query once the buffered lines end with a period.
// It returns io.EOF when the input ends or :halt is entered.
func (r *repl) handleLine(ctx context.Context) error {
	if r.buf.Len() == 0 {
		r.in.SetPrompt("?- ")
	} else {
		r.in.SetPrompt("|  ")
	}

	line, err := r.in.ReadLine()
	if err != nil {
		if err == io.EOF {
			return err
		}
		r.log.WithError(err).Error("failed to read line")
		r.buf.Reset()
		return nil
	}

	if r.buf.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
		return r.command(ctx, strings.Fields(line))
	}

	r.buf.WriteString(line)
	text := strings.TrimSpace(r.buf.String())
	switch {
	case text == "":
		r.buf.Reset()
		return nil
	case !strings.HasSuffix(text, "."):
		// Returns without resetting buf.
		r.buf.WriteRune('\n')
		return nil
	}
	r.buf.Reset()

	sols, err := r.i.QueryContext(ctx, text)
	if err != nil {
		r.log.WithError(err).Error("failed to query")
		return nil
	}

	c := 0
	for sols.Next() {
		c++

		ls, err := answer(sols)
		if err != nil {
			r.log.WithError(err).Error("failed to scan")
			break
		}
		if len(ls) == 0 {
			if _, err := fmt.Fprintf(r.out, "%t.\n", true); err != nil {
				return err
			}
			break
		}

		if _, err := fmt.Fprintf(r.out, "%s ", strings.Join(ls, ",\n")); err != nil {
			return err
		}

		k, _, err := r.keys.ReadRune()
		if err != nil {
			r.log.WithError(err).Error("failed to read rune")
			break
		}
		if k != ';' {
			k = '.'
		}

		if _, err := fmt.Fprintf(r.out, "%s\n", string(k)); err != nil {
			return err
		}

		if k == '.' {
			break
		}
	}
	if err := sols.Close(); err != nil {
		return err
	}

	if err := sols.Err(); err != nil {
		r.log.WithError(err).Error("failed")
		return nil
	}

	if c == 0 {
		if _, err := fmt.Fprintf(r.out, "%t.\n", false); err != nil {
			return err
		}
	}

	return nil
}

func (r *repl) command(ctx context.Context, args []string) error {
	switch name, args := args[0], args[1:]; name {
	case ":halt":
		return io.EOF
	case ":consult":
		for _, a := range args {
			if err := consult(r.i, a); err != nil {
				r.log.WithError(err).Error("failed to consult")
				return nil
			}
		}
	case ":listing":
		for _, rule := range r.i.Rules() {
			if _, err := fmt.Fprintln(r.out, rule); err != nil {
				return err
			}
		}
	case ":save", ":load", ":delete":
		if len(args) != 1 {
			r.log.Errorf("usage: %s NAME", name)
			return nil
		}
		if r.store == nil {
			r.log.Error("no database")
			return nil
		}
		if err := r.program(ctx, name, args[0]); err != nil {
			r.log.WithError(err).Error("failed to access the database")
		}
	case ":programs":
		if r.store == nil {
			r.log.Error("no database")
			return nil
		}
		ns, err := r.store.Names(ctx)
		if err != nil {
			r.log.WithError(err).Error("failed to access the database")
			return nil
		}
		for _, n := range ns {
			if _, err := fmt.Fprintln(r.out, n); err != nil {
				return err
			}
		}
	default:
		r.log.WithField("command", name).Error("unknown command")
	}
	return nil
}

func (r *repl) program(ctx context.Context, cmd, name string) error {
	switch cmd {
	case ":save":
		return r.store.Save(ctx, name, r.i.Rules())
	case ":load":
		rs, err := r.store.Load(ctx, name)
		if err != nil {
			return err
		}
		r.i.AddRules(rs...)
		return nil
	default:
		return r.store.Delete(ctx, name)
	}
}

// answer renders the bindings of the current solution in the order of the variables in the query.
// Variables left unbound are omitted.
func answer(sols *horn.Solutions) ([]string, error) {
	m := map[string]term.Term{}
	if err := sols.Scan(m); err != nil {
		return nil, err
	}

	vars := sols.Vars()
	ls := make([]string, 0, len(vars))
	for _, n := range vars {
		v, ok := m[n]
		if !ok {
			continue
		}
		ls = append(ls, fmt.Sprintf("%s = %s", n, v))
	}
	return ls, nil
}

// runQuery prints every solution of query on a line and reports if there's any.
func runQuery(ctx context.Context, w io.Writer, i *horn.Interpreter, query string) (bool, error) {
	sols, err := i.QueryContext(ctx, query)
	if err != nil {
		return false, err
	}
	defer sols.Close()

	found := false
	for sols.Next() {
		found = true

		ls, err := answer(sols)
		if err != nil {
			return found, err
		}
		if len(ls) == 0 {
			ls = []string{"true"}
		}
		if _, err := fmt.Fprintf(w, "%s.\n", strings.Join(ls, ", ")); err != nil {
			return found, err
		}
	}
	if err := sols.Err(); err != nil {
		return found, err
	}

	if !found {
		if _, err := fmt.Fprintf(w, "%t.\n", false); err != nil {
			return found, err
		}
	}
	return found, nil
}

func consult(i *horn.Interpreter, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := i.Consult(string(b)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
