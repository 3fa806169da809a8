package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"galaxy/internal/evaluator"
	"galaxy/internal/object"
	"galaxy/internal/parser"
)

const PROMPT = ">> "

// Start runs an interactive session over env. Lines of the form
// `name = tokens` add definitions; anything else is evaluated,
// canonicalized, and printed with the running force count.
func Start(in io.Reader, out io.Writer, env *object.Environment, ev *evaluator.Evaluator) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.Contains(line, " = ") {
			if err := parser.ParseDefs(env, line); err != nil {
				printError(out, err)
			}
			continue
		}

		expr, err := parser.ParseExpr(env, line)
		if err != nil {
			printError(out, err)
			continue
		}
		rendered, err := ev.Render(expr)
		if err != nil {
			printError(out, err)
			continue
		}
		fmt.Fprintf(out, "%s\n(%d evals)\n", rendered, ev.Count())
	}
}

func printError(out io.Writer, err error) {
	switch {
	case errors.Is(err, object.ErrUndefinedReference),
		errors.Is(err, object.ErrDuplicateDefinition),
		errors.Is(err, object.ErrNotApplicable),
		errors.Is(err, object.ErrTypeMismatch),
		errors.Is(err, object.ErrAmbiguousValue):
		fmt.Fprintf(out, "error: %v\n", err)
	default:
		fmt.Fprintf(out, "Lost among the stars! %v\n", err)
	}
}
