package rules

import "github.com/expr-lang/expr/vm"

// AdjustFunc nudges the doctrine when a rule's condition is true.
type AdjustFunc func(env StandingsEnv, d *Doctrine)

// Rule is the atomic unit of strategy tuning: a condition → adjustment pair.
// The engine evaluates rules by priority and uses Category + Exclusive so
// two rules never fight over the same knob in one refresh.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
	Adjust       AdjustFunc
}
