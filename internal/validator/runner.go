package validator

import (
	"strings"

	"go.uber.org/zap"
)

// Outcome is the uniform rule return shape: zero or more messages plus an
// optional explicit status override. A nil Explicit leaves status
// derivation to the runner.
type Outcome struct {
	Messages []Message
	Explicit *Status
}

// Explicit wraps a status for use as an Outcome override.
func Explicit(s Status) *Status { return &s }

// Rule is one independent check over a decoded document.
type Rule interface {
	Name() string
	Check(doc any) Outcome
}

// Runner executes rules in declaration order. Message order in the
// output follows rule order; status aggregation is commutative.
type Runner struct {
	rules []Rule
	log   *zap.Logger
}

// NewRunner builds a runner over the given rules. Pass zap.NewNop() (or
// nil) when logging is not wanted.
func NewRunner(log *zap.Logger, rules ...Rule) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{rules: rules, log: log}
}

// Add appends a rule after construction.
func (r *Runner) Add(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Run evaluates every rule and aggregates the outcome. Explicit statuses
// take precedence (fail over warn over pass); otherwise any E_-coded
// message fails, any message warns, and silence passes.
func (r *Runner) Run(doc any) Result {
	var messages []Message
	var explicit []Status

	for _, rule := range r.rules {
		out := rule.Check(doc)
		if out.Explicit != nil {
			explicit = append(explicit, *out.Explicit)
		}
		if len(out.Messages) > 0 {
			r.log.Debug("validation rule reported",
				zap.String("rule", rule.Name()),
				zap.Int("messages", len(out.Messages)))
			messages = append(messages, out.Messages...)
		}
	}

	return Result{
		Status:   decideStatus(messages, explicit),
		Messages: messages,
	}
}

func decideStatus(messages []Message, explicit []Status) Status {
	if len(explicit) > 0 {
		for _, s := range explicit {
			if s == StatusFail {
				return StatusFail
			}
		}
		for _, s := range explicit {
			if s == StatusWarn {
				return StatusWarn
			}
		}
		return StatusPass
	}

	if len(messages) == 0 {
		return StatusPass
	}
	for _, m := range messages {
		if strings.HasPrefix(m.Code, "E_") {
			return StatusFail
		}
	}
	return StatusWarn
}
