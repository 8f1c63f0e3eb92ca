// Package preflight provides readiness checks for the filesystem paths
// and external tools a batch run depends on.
//
// The run command calls RunAll after loading the configuration: a source
// root that cannot be read or an output tree that cannot be written fails
// the run up front instead of surfacing as per-item errors hours into a
// batch. The status command uses the individual check functions to
// display health.
package preflight
