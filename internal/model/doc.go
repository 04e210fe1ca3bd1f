// Package model holds the value snapshots passed between extraction,
// the arity registry and composition. Nothing here points back into the
// declaration tree; every type compares by value and has a stable digest
// used as a memoization key.
package model
