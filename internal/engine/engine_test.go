package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/notification-api/internal/presenter/format"
	apperrors "github.com/jwalitptl/notification-api/pkg/errors"
)

func newTestEngine() *Engine {
	return New(format.NewFormatter("en-US"))
}

func TestRenderInterpolation(t *testing.T) {
	e := newTestEngine()

	out, err := e.Render("Hello {{recipient.name}}, invoice {{invoice.number}} is ready.", nil, map[string]interface{}{
		"recipient": map[string]interface{}{"name": "Ada"},
		"invoice":   map[string]interface{}{"number": "INV-42"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada, invoice INV-42 is ready.", out)
}

func TestRenderConditionalsAndIteration(t *testing.T) {
	e := newTestEngine()

	source := `{{#if isOverdue}}OVERDUE{{else}}ok{{/if}}:{{#each lines}}[{{this.description}}]{{/each}}`
	out, err := e.Render(source, nil, map[string]interface{}{
		"isOverdue": true,
		"lines": []map[string]interface{}{
			{"description": "Consulting"},
			{"description": "Hosting"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "OVERDUE:[Consulting][Hosting]", out)
}

func TestRenderWithPartials(t *testing.T) {
	e := newTestEngine()

	out, err := e.Render("{{> header}} body {{> footer}}", map[string]string{
		"header": "HEAD {{recipient.name}}",
		"footer": "FOOT",
	}, map[string]interface{}{
		"recipient": map[string]interface{}{"name": "Ada"},
	})
	require.NoError(t, err)
	assert.Equal(t, "HEAD Ada body FOOT", out)
}

func TestRenderParseFailure(t *testing.T) {
	e := newTestEngine()

	_, err := e.Render("{{#if}}", nil, map[string]interface{}{})
	require.Error(t, err)
	assert.True(t, apperrors.IsRenderingError(err))
}

func TestRenderHelpers(t *testing.T) {
	e := newTestEngine()
	issued := time.Date(2026, time.March, 15, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name   string
		source string
		ctx    map[string]interface{}
		want   string
	}{
		{
			name:   "formatDate",
			source: `{{formatDate issuedAt ""}}`,
			ctx:    map[string]interface{}{"issuedAt": issued},
			want:   "March 15, 2026",
		},
		{
			name:   "formatNumber",
			source: `{{formatNumber 1234567 "en-US"}}`,
			ctx:    map[string]interface{}{},
			want:   "1,234,567",
		},
		{
			name:   "pluralize singular",
			source: `{{count}} {{pluralize count "day" "days"}}`,
			ctx:    map[string]interface{}{"count": 1},
			want:   "1 day",
		},
		{
			name:   "pluralize plural",
			source: `{{count}} {{pluralize count "day" "days"}}`,
			ctx:    map[string]interface{}{"count": 5},
			want:   "5 days",
		},
		{
			name:   "truncate",
			source: `{{truncate note 7}}`,
			ctx:    map[string]interface{}{"note": "a very long note"},
			want:   "a ve...",
		},
		{
			name:   "upperFirst",
			source: `{{upperFirst word}}`,
			ctx:    map[string]interface{}{"word": "urgent"},
			want:   "Urgent",
		},
		{
			name:   "comparison in if",
			source: `{{#if (gte days 3)}}high{{else}}low{{/if}}`,
			ctx:    map[string]interface{}{"days": 5},
			want:   "high",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := e.Render(tc.source, nil, tc.ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestValidateReportsOutcomeAsData(t *testing.T) {
	e := newTestEngine()

	ok := e.Validate("Hello {{name}}", nil, map[string]interface{}{"name": "Ada"})
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.ErrorMessage)

	// Malformed input is a result, never an error or a panic.
	bad := e.Validate("{{#if}}", nil, map[string]interface{}{})
	assert.False(t, bad.Valid)
	assert.NotEmpty(t, bad.ErrorMessage)
}

func TestValidateUnclosedBlock(t *testing.T) {
	e := newTestEngine()

	res := e.Validate("{{#each items}}{{this}}", nil, map[string]interface{}{})
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.ErrorMessage)
}
