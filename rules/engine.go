package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine turns standings into a doctrine by running compiled tuning rules
// against a base doctrine. Rules fire in priority order; exclusive rules
// block lower-priority rules in the same category.
type Engine struct {
	mu    sync.RWMutex
	rules []*Rule
	base  Doctrine
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(base Doctrine, rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	base.Validate()
	return &Engine{rules: compiled, base: base}, nil
}

// Base returns the doctrine every evaluation starts from.
func (e *Engine) Base() Doctrine {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.base
}

// Evaluate applies every firing rule to a copy of the base doctrine and
// returns the validated result with the names of the rules that fired.
func (e *Engine) Evaluate(env StandingsEnv) (Doctrine, []string) {
	e.mu.RLock()
	rules := e.rules
	d := e.base
	e.mu.RUnlock()

	blocked := make(map[string]bool) // category → exclusive rule already fired
	var fired []string
	for _, r := range rules {
		if blocked[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category)
		if r.Adjust != nil {
			r.Adjust(env, &d)
		}
		fired = append(fired, r.Name)

		if r.Exclusive {
			blocked[r.Category] = true
		}
	}

	d.Validate()
	return d, fired
}

// Swap atomically replaces the rule set and base doctrine. Compiles first;
// if compilation fails the old rules remain active.
func (e *Engine) Swap(base Doctrine, newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	base.Validate()
	names := make([]string, len(compiled))
	for i, r := range compiled {
		names[i] = r.Name
	}
	e.mu.Lock()
	e.rules = compiled
	e.base = base
	e.mu.Unlock()
	slog.Info("rule set swapped", "doctrine", base.Name, "count", len(compiled), "rules", names)
	return nil
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	out := make([]*Rule, len(rules))
	for i, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(StandingsEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
		out[i] = r
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out, nil
}
