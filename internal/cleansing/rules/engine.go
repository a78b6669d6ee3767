package rules

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.CleanseStep = (*Engine)(nil)

// DefaultContextChars is the default context padding in audit messages.
const DefaultContextChars = 10

// compiled is a rule ready to run, or the reason it cannot.
type compiled struct {
	rule    Rule
	pattern *regexp.Regexp
	group   int
	skipped string
}

// Engine applies a rule table to scoped record fields.
// It implements the CleanseStep interface.
type Engine struct {
	rules        []compiled
	contextChars int
	code         string
	msgType      domain.MessageType
}

// Option configures the engine.
type Option func(*Engine)

// WithContextChars sets the context padding either side of a cleanse.
func WithContextChars(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.contextChars = n
		}
	}
}

// WithMessageCode sets the code of emitted messages.
func WithMessageCode(code string) Option {
	return func(e *Engine) {
		if code != "" {
			e.code = code
		}
	}
}

// New compiles the rule table. Invalid rules are kept and reported as
// skipped on every record so they show up in the audit trail.
func New(table []Rule, opts ...Option) *Engine {
	e := &Engine{
		contextChars: DefaultContextChars,
		code:         domain.CodeCleansed,
		msgType:      domain.MessageInformation,
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, r := range Sorted(table) {
		e.rules = append(e.rules, compile(r))
	}
	return e
}

func compile(r Rule) compiled {
	c := compiled{rule: r}

	re, err := regexp.Compile(r.DetectionRegex)
	if err != nil {
		c.skipped = fmt.Sprintf("%s - Skipped: invalid RegexPattern (%v)", r.RuleID, err)
		return c
	}

	group, err := resolveGroup(re, r)
	if err != nil {
		c.skipped = fmt.Sprintf("%s - Skipped: invalid group configuration (%v)", r.RuleID, err)
		return c
	}

	c.pattern = re
	c.group = group
	return c
}

func resolveGroup(re *regexp.Regexp, r Rule) (int, error) {
	total := re.NumSubexp()
	if total < 1 {
		return 0, fmt.Errorf("%s - regex must contain at least one capturing group; found %d", r.RuleID, total)
	}

	if r.Group.Name != "" {
		idx := re.SubexpIndex(r.Group.Name)
		if idx < 0 {
			var names []string
			for _, n := range re.SubexpNames() {
				if n != "" {
					names = append(names, n)
				}
			}
			available := strings.Join(names, ", ")
			if available == "" {
				available = "<none>"
			}
			return 0, fmt.Errorf("%s - group name %q not found. Available names: %s", r.RuleID, r.Group.Name, available)
		}
		return idx, nil
	}

	if r.Group.Index < 1 || r.Group.Index > total {
		return 0, fmt.Errorf("%s - group_index %d is out of range; pattern has %d capturing group(s) (valid indices: 1..%d)",
			r.RuleID, r.Group.Index, total, total)
	}
	return r.Group.Index, nil
}

// Name returns the step name.
func (e *Engine) Name() string {
	return "rules"
}

// Len returns the number of rules, including skipped ones.
func (e *Engine) Len() int {
	return len(e.rules)
}

// Cleanse applies every rule in order to its scoped columns.
func (e *Engine) Cleanse(ctx context.Context, sourceFileID string, fields domain.Fields) ([]domain.Message, error) {
	var messages []domain.Message

	for _, c := range e.rules {
		if err := ctx.Err(); err != nil {
			return messages, err
		}

		if c.pattern == nil {
			messages = append(messages, e.message(sourceFileID, c.skipped))
			continue
		}

		for _, column := range c.rule.Scope {
			value, ok := fields[column]
			if !ok || value == nil {
				continue
			}
			if !c.pattern.MatchString(*value) {
				continue
			}

			updated, changes := e.apply(*value, c)
			for _, ch := range changes {
				messages = append(messages, e.message(sourceFileID, fmt.Sprintf(
					`%s | Attribute: %s | Cleanse: "%s" -> "%s" | Context: "%s"`,
					c.rule.RuleID, column, ch.original, c.rule.ReplaceValue, ch.context)))
			}
			if len(changes) > 0 {
				fields.Set(column, updated)
			}
		}
	}

	return messages, nil
}

type change struct {
	original string
	context  string
}

// apply replaces the target group of every match. Matches where the group
// did not participate are left untouched.
func (e *Engine) apply(text string, c compiled) (string, []change) {
	matches := c.pattern.FindAllStringSubmatchIndex(text, -1)

	var (
		b       strings.Builder
		changes []change
		last    int
	)
	for _, m := range matches {
		gs, ge := m[2*c.group], m[2*c.group+1]
		if gs < 0 {
			continue
		}
		b.WriteString(text[last:gs])
		b.WriteString(c.rule.ReplaceValue)
		last = ge

		changes = append(changes, change{
			original: text[gs:ge],
			context:  ContextSlice(text, gs, ge, e.contextChars),
		})
	}
	b.WriteString(text[last:])
	return b.String(), changes
}

func (e *Engine) message(sourceFileID, text string) domain.Message {
	return domain.Message{
		SourceFileID: sourceFileID,
		Code:         e.code,
		Type:         e.msgType,
		Text:         text,
	}
}
