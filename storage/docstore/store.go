// Package docstore is an in-memory stand-in for a document database.
//
// It supports identifier lookups, full scans, the $push, $pull, $addToSet and
// $pullAll update operators and a three stage ($unwind, $group, $sort)
// aggregation pipeline. Nothing is persisted.
package docstore

import (
	"sort"
	"sync"

	"github.com/mergington/activities/core"
)

// Store owns a set of named collections.
type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
	logger      core.Logger
}

func New(logger core.Logger) *Store {
	return &Store{
		collections: make(map[string]*Collection),
		logger:      logger,
	}
}

// Collection returns the named collection, creating it on first use.
func (s *Store) Collection(name string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[name]
	if !ok {
		coll = newCollection(name, s.logger)
		s.collections[name] = coll
	}
	return coll
}

func (s *Store) CollectionNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
