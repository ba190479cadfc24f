// Package store defines the capability interface for interaction-matrix
// backends and the registry used to construct them from configuration.
//
// Three backends implement [Store]:
//   - [github.com/matzehuels/trackstack/pkg/store/my5c]: dense tab-separated
//     text matrices, one file per chromosome in a folder
//   - [github.com/matzehuels/trackstack/pkg/store/bundle]: gzip-compressed
//     binary bundles, one file per chromosome in a folder
//   - [github.com/matzehuels/trackstack/pkg/store/interdb]: a SQLite-indexed
//     sparse pair store
//
// The backends share no state beyond the interface. Each may cache parsed
// per-chromosome data (window indices, loaded matrices) across queries;
// those caches are owned by the store instance and never mutated after
// construction.
package store

import (
	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/matrix"
)

// Store provides pairwise interaction values over genomic regions.
type Store interface {
	// Interactions returns the symmetric sub-matrix of all bin pairs
	// covering the region, together with the resolved region: the query
	// snapped outward to the enclosing bin boundaries. The resolved region
	// always contains the query.
	Interactions(region genome.Region) (*matrix.Matrix, genome.Region, error)
}

// Factory constructs a Store from its on-disk path.
type Factory func(path string) (Store, error)

// Registry maps a store type identifier to its factory. It is plain data:
// populated once at process start by the configuration layer and passed
// into the core, never looked up through global mutable state.
type Registry map[string]Factory

// Open constructs a store of the named type.
func (r Registry) Open(storeType, path string) (Store, error) {
	factory, ok := r[storeType]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown store type %q", storeType)
	}
	return factory(path)
}
