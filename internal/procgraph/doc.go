// Package procgraph rebuilds a process graph from a flattened model export
// and linearizes it into ordered steps.
//
// The stages run in a fixed order over one Graph:
//
//	roles := BuildRoleRegistry(table)
//	g := Parse(table, roles, DefaultParseOptions(), d)
//	Consolidate(g)
//	ResolveRules(g, d)
//	starts := SelectStarts(g, DefaultStartMarker, d)
//	steps := Project(g, Linearize(g, starts, LinearizeOptions{}, d))
//
// Consolidate, ResolveRules and Linearize patch the graph in place and must
// not run concurrently on the same Graph. Separate graphs share nothing.
// None of the stages fail on malformed input; ambiguity is reported through
// Diagnostics.
package procgraph
