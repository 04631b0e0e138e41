package procgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLinearize_Chain(t *testing.T) {
	g := chainGraph()
	d := quietDiagnostics()
	got := Linearize(g, []string{"1"}, LinearizeOptions{}, d)

	if diff := cmp.Diff([]string{"1", "2", "3"}, got); diff != "" {
		t.Errorf("ordering mismatch (-want +got):\n%s", diff)
	}
	if items := d.Items(); len(items) != 0 {
		t.Errorf("unexpected diagnostics: %+v", items)
	}
}

func TestLinearize_ChainIgnoresTableOrder(t *testing.T) {
	g := NewGraph()
	g.Add(&Node{ID: "c", Type: TypeFunction, Name: "C", Previous: "B"})
	g.Add(&Node{ID: "b", Type: TypeFunction, Name: "B", Previous: "A", Next: "C"})
	g.Add(&Node{ID: "a", Type: TypeFunction, Name: "A", Next: "B"})

	got := Linearize(g, []string{"a"}, LinearizeOptions{}, quietDiagnostics())
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestLinearize_FanOutAppendsEveryTarget(t *testing.T) {
	g := NewGraph()
	g.Add(&Node{ID: "1", Type: TypeFunction, Name: "A", Next: "C§B"})
	g.Add(&Node{ID: "2", Type: TypeFunction, Name: "B", Previous: "A"})
	g.Add(&Node{ID: "3", Type: TypeFunction, Name: "C", Previous: "A"})

	got := Linearize(g, []string{"1"}, LinearizeOptions{}, quietDiagnostics())
	if diff := cmp.Diff([]string{"1", "3", "2"}, got); diff != "" {
		t.Errorf("ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestLinearize_BacktracksThroughPrevious(t *testing.T) {
	// B is a dead end; C hangs off A only through its previous field.
	g := NewGraph()
	g.Add(&Node{ID: "1", Type: TypeFunction, Name: "A", Next: "B"})
	g.Add(&Node{ID: "2", Type: TypeFunction, Name: "B", Previous: "A"})
	g.Add(&Node{ID: "3", Type: TypeFunction, Name: "C", Previous: "A", Next: "D"})
	g.Add(&Node{ID: "4", Type: TypeFunction, Name: "D", Previous: "C"})

	d := quietDiagnostics()
	got := Linearize(g, []string{"1"}, LinearizeOptions{}, d)
	if diff := cmp.Diff([]string{"1", "2", "3", "4"}, got); diff != "" {
		t.Errorf("ordering mismatch (-want +got):\n%s", diff)
	}
	if n := d.Count(CodeUnreachedAppended); n != 0 {
		t.Errorf("unreached-appended diagnostics = %d, want 0", n)
	}
}

func TestLinearize_CycleTerminates(t *testing.T) {
	g := NewGraph()
	g.Add(&Node{ID: "1", Type: TypeFunction, Name: "A", Previous: "B", Next: "B"})
	g.Add(&Node{ID: "2", Type: TypeFunction, Name: "B", Previous: "A", Next: "A"})
	g.Add(&Node{ID: "3", Type: TypeFunction, Name: "Z"})

	d := quietDiagnostics()
	got := Linearize(g, []string{"1"}, LinearizeOptions{}, d)
	if diff := cmp.Diff([]string{"1", "2", "3"}, got); diff != "" {
		t.Errorf("ordering mismatch (-want +got):\n%s", diff)
	}
	if n := d.Count(CodeUnreachedAppended); n != 1 {
		t.Errorf("unreached-appended diagnostics = %d, want 1", n)
	}
}

func TestLinearize_NoStartsFallsBackToTableOrder(t *testing.T) {
	g := chainGraph()
	got := Linearize(g, nil, LinearizeOptions{}, quietDiagnostics())

	if diff := cmp.Diff([]string{"1", "2", "3"}, got); diff != "" {
		t.Errorf("ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestLinearize_StepBudget(t *testing.T) {
	g := chainGraph()
	d := quietDiagnostics()
	got := Linearize(g, []string{"1"}, LinearizeOptions{MaxSteps: 1}, d)

	if diff := cmp.Diff([]string{"1", "2", "3"}, got); diff != "" {
		t.Errorf("ordering mismatch (-want +got):\n%s", diff)
	}
	if n := d.Count(CodeStepBudgetExhausted); n != 1 {
		t.Errorf("step-budget-exhausted diagnostics = %d, want 1", n)
	}
	if n := d.Count(CodeUnreachedAppended); n != 1 {
		t.Errorf("unreached-appended diagnostics = %d, want 1", n)
	}
}

func TestLinearize_EveryNodeExactlyOnce(t *testing.T) {
	g := NewGraph()
	g.Add(&Node{ID: "1", Type: TypeEvent, Name: "MCO start", Next: "A§A"})
	g.Add(&Node{ID: "2", Type: TypeFunction, Name: "A", Previous: "MCO start", Next: "B"})
	g.Add(&Node{ID: "3", Type: TypeFunction, Name: "A", Next: "MCO start"})
	g.Add(&Node{ID: "4", Type: TypeRule, Name: "B", Previous: "A", Next: "A"})
	g.Add(&Node{ID: "5", Type: TypeFunction, Name: "orphan", Previous: "nobody"})

	got := Linearize(g, []string{"1", "1", "missing"}, LinearizeOptions{}, quietDiagnostics())
	if len(got) != g.Len() {
		t.Fatalf("len(ordering) = %d, want %d", len(got), g.Len())
	}
	seen := make(map[string]bool)
	for _, id := range got {
		if seen[id] {
			t.Errorf("id %q appears twice", id)
		}
		seen[id] = true
	}
}
