// Package isolation implements the isolation lattice: facts about which
// exclusive-access domain a value lives in, how two facts merge, and the
// ordered derivation rules that assign a fact to every tracked value.
package isolation
