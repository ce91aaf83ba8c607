package fsm

import (
	"errors"
	"testing"
)

func TestBuildTableContract(t *testing.T) {
	table := BuildTable()
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(table.Rules(Death)) != 0 {
		t.Fatalf("death must be terminal")
	}

	for _, s := range States() {
		if s == Death {
			continue
		}
		rules := table.Rules(s)
		if len(rules) == 0 {
			t.Fatalf("%s has no rules", s)
		}
		if rules[0].To != Death {
			t.Fatalf("%s: first rule must be death, got %s", s, rules[0].To)
		}
		if s == Hurt {
			continue
		}
		if rules[1].To != Hurt {
			t.Fatalf("%s: second rule must be hurt, got %s", s, rules[1].To)
		}
	}
}

func TestBuildTableActivityExits(t *testing.T) {
	table := BuildTable()
	for _, s := range []State{Attacking, Skill, Hurt} {
		var exits []State
		for _, r := range table.Rules(s) {
			if r.To == Death || r.To == Hurt {
				continue
			}
			exits = append(exits, r.To)
		}
		want := []State{Idle, Walking, Falling}
		if len(exits) != len(want) {
			t.Fatalf("%s: expected exits %v, got %v", s, want, exits)
		}
		for i := range want {
			if exits[i] != want[i] {
				t.Fatalf("%s: expected exits %v, got %v", s, want, exits)
			}
		}
	}
}

func TestBuildTableIsDeterministic(t *testing.T) {
	a, b := BuildTable(), BuildTable()
	if a.Len() != b.Len() {
		t.Fatalf("expected equal sizes, got %d and %d", a.Len(), b.Len())
	}
	for _, s := range States() {
		ra, rb := a.Rules(s), b.Rules(s)
		for i := range ra {
			if ra[i].From != rb[i].From || ra[i].To != rb[i].To || ra[i].Label != rb[i].Label {
				t.Fatalf("%s rule %d differs: %+v vs %+v", s, i, ra[i], rb[i])
			}
		}
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	table := BuildTable()
	rules := table.Rules(Idle)
	rules[0].To = Skill
	if table.Rules(Idle)[0].To != Death {
		t.Fatalf("callers must not be able to alter the table")
	}
}

func TestValidateRejectsBadRules(t *testing.T) {
	always := func(*Context) bool { return true }
	cases := []struct {
		name  string
		build func(t *RuleTable)
		want  error
	}{
		{"self", func(t *RuleTable) { t.add(Idle, Idle, "loop", always) }, ErrSelfTransition},
		{"terminal", func(t *RuleTable) { t.add(Death, Idle, "revive", always) }, ErrTerminalRule},
		{"nil_condition", func(t *RuleTable) { t.add(Walking, Idle, "broken", nil) }, ErrNilCondition},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			table := &RuleTable{}
			c.build(table)
			if err := table.Validate(); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}
