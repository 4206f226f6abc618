package docstore

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/mergington/activities/core"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrMissingID = errors.New("document has no string _id")
)

// Filter selects documents. Only {_id: <string>} is honored by point operations.
type Filter map[string]Value

// ByID returns the identifier filter for id.
func ByID(id string) Filter {
	return Filter{IDField: String(id)}
}

func (f Filter) id() (string, bool) {
	v, ok := f[IDField]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// Collection is a named set of documents keyed by identifier.
// Reads return copies; update operators mutate the stored document.
type Collection struct {
	sync.RWMutex
	name   string
	docs   map[string]Document
	order  []string // insertion order of ids
	logger core.Logger
}

func newCollection(name string, logger core.Logger) *Collection {
	return &Collection{
		name:   name,
		docs:   make(map[string]Document),
		logger: logger,
	}
}

func (c *Collection) Name() string { return c.name }

// FindOne returns the document matching an identifier filter, with _id reattached.
// Any other filter shape yields ErrNotFound.
func (c *Collection) FindOne(filter Filter) (Document, error) {
	id, ok := filter.id()
	if !ok {
		c.logger.Debug(fmt.Sprintf("docstore: %s.FindOne: filter without _id %v", c.name, filter))
		return nil, ErrNotFound
	}

	c.RLock()
	defer c.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.withID(id), nil
}

// Find returns every document in insertion order when filter is empty.
// Non-empty filters are not evaluated and yield no documents.
func (c *Collection) Find(filter Filter) []Document {
	if len(filter) > 0 {
		c.logger.Warn(fmt.Sprintf("docstore: %s.Find: filtering is not supported, returning no documents", c.name))
		return []Document{}
	}

	c.RLock()
	defer c.RUnlock()
	return c.all()
}

func (c *Collection) all() []Document {
	docs := make([]Document, 0, len(c.order))
	for _, id := range c.order {
		docs = append(docs, c.docs[id].withID(id))
	}
	return docs
}

// InsertOne stores doc under its _id, which is removed from the stored body.
// An existing document with the same _id is silently overwritten.
func (c *Collection) InsertOne(doc Document) (string, error) {
	id, ok := doc.ID()
	if !ok {
		return "", ErrMissingID
	}
	body := doc.Clone()
	delete(body, IDField)

	c.Lock()
	defer c.Unlock()
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = body
	return id, nil
}

// UpdateOne applies update to the document matching an identifier filter.
// Operators run in order: $push, $pull, $addToSet, $pullAll.
func (c *Collection) UpdateOne(filter Filter, update Update) UpdateResult {
	id, ok := filter.id()
	if !ok {
		c.logger.Debug(fmt.Sprintf("docstore: %s.UpdateOne: filter without _id %v", c.name, filter))
		return UpdateResult{}
	}

	c.Lock()
	defer c.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return UpdateResult{}
	}
	update.apply(doc, func(op, field string) {
		c.logger.Warn(fmt.Sprintf("docstore: %s.UpdateOne(%s): %s skipped, field %q is not a list", c.name, id, op, field))
	})
	return UpdateResult{MatchedCount: 1, ModifiedCount: 1}
}

// CountDocuments returns the number of documents. The filter is not evaluated.
func (c *Collection) CountDocuments(filter Filter) int {
	if len(filter) > 0 {
		c.logger.Debug(fmt.Sprintf("docstore: %s.CountDocuments: filter ignored", c.name))
	}
	c.RLock()
	defer c.RUnlock()
	return len(c.docs)
}

// Aggregate threads every document (with _id) through the pipeline stages.
func (c *Collection) Aggregate(pipeline Pipeline) []Document {
	c.RLock()
	docs := c.all()
	c.RUnlock()

	for _, stage := range pipeline {
		docs = stage.apply(docs)
		c.logger.Debug(fmt.Sprintf("docstore: %s.Aggregate: %s -> %d documents", c.name, stage.name(), len(docs)))
	}
	return docs
}
