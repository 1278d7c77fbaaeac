// Package engine wraps the handlebars rendering library behind a small
// deterministic surface: compile source, register partial content, apply a
// context. Rendering failures, including panics from malformed input, come
// back as typed errors and never escape the package.
package engine

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/aymerick/raymond"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter/format"
	apperrors "github.com/jwalitptl/notification-api/pkg/errors"
)

type Engine struct {
	formatter *format.Formatter
}

func New(formatter *format.Formatter) *Engine {
	registerHelpers(formatter)
	return &Engine{formatter: formatter}
}

// Render compiles source, registers the supplied partial sources and applies
// the context. Partial content must already be resolved; the engine never
// touches the store.
func (e *Engine) Render(source string, partials map[string]string, ctx map[string]interface{}) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewRenderingError(fmt.Sprintf("template rendering panicked: %v", r), nil)
		}
	}()

	tpl, perr := raymond.Parse(source)
	if perr != nil {
		return "", apperrors.NewRenderingError("template parse failed", perr)
	}

	for name, src := range partials {
		tpl.RegisterPartial(name, src)
	}

	out, xerr := tpl.Exec(ctx)
	if xerr != nil {
		return "", apperrors.NewRenderingError("template execution failed", xerr)
	}
	return out, nil
}

// Validate compiles and applies ad-hoc template text against a sample
// context, reporting the outcome as data. It never returns an error and
// never panics.
func (e *Engine) Validate(source string, partials map[string]string, sample map[string]interface{}) *model.ValidationResult {
	_, err := e.Render(source, partials, sample)
	if err == nil {
		return &model.ValidationResult{Valid: true}
	}

	msg := err.Error()
	line, column := positionFromError(msg)
	return &model.ValidationResult{
		Valid:        false,
		ErrorMessage: msg,
		Line:         line,
		Column:       column,
	}
}

var (
	lineRe   = regexp.MustCompile(`(?i)line[ :]+(\d+)`)
	columnRe = regexp.MustCompile(`(?i)col(?:umn)?[ :]+(\d+)`)
)

// positionFromError extracts line/column information from the library's
// parse error text. The library only reports lines for most failures, so
// column is best-effort.
func positionFromError(msg string) (int, int) {
	var line, column int
	if m := lineRe.FindStringSubmatch(msg); m != nil {
		line, _ = strconv.Atoi(m[1])
	}
	if m := columnRe.FindStringSubmatch(msg); m != nil {
		column, _ = strconv.Atoi(m[1])
	}
	return line, column
}
