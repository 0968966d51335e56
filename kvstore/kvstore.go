// Package kvstore implements the persistent collection store backing the
// back-office modules: named collections of JSON documents with generic
// get/set/add/void primitives. Backends only move raw documents around; all
// collection semantics live in Store so that memory, file and database
// deployments behave identically.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoDocument is returned by Get when the key holds no document yet.
var ErrNoDocument = errors.New("no document")

// ErrNotFound is returned by VoidItem when the target item is missing or
// already voided.
var ErrNotFound = errors.New("item not found")

// Backend moves raw JSON documents by key.
type Backend interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}

// Item is a record that can be appended to a collection. The store stamps
// the identifier and creation time on append.
type Item interface {
	SetCreated(id int64, date time.Time)
}

// Store exposes the collection contract over a Backend.
//
// Every mutating operation is a full read-modify-write of the collection
// document; there is no cross-session arbitration and the last writer wins.
type Store struct {
	backend Backend

	mu     sync.Mutex
	lastID int64
}

// New creates a Store over the given backend.
func New(b Backend) *Store {
	return &Store{backend: b}
}

// Get unmarshals the document at key into v. It returns ErrNoDocument when
// the key was never written.
func (s *Store) Get(ctx context.Context, key string, v any) error {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("could not decode document %q: %w", key, err)
	}
	return nil
}

// Set marshals v and stores it at key, replacing any previous document.
func (s *Store) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode document %q: %w", key, err)
	}
	return s.backend.Set(ctx, key, raw)
}

// Add stamps the item with a fresh id and creation date, appends it to the
// collection array at key, and persists the collection. Identifiers are
// timestamp-derived and strictly increasing within the process.
func (s *Store) Add(ctx context.Context, key string, item Item) error {
	item.SetCreated(s.nextID(), time.Now().UTC())

	var list []json.RawMessage
	if err := s.Get(ctx, key, &list); err != nil && !errors.Is(err, ErrNoDocument) {
		return err
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("could not encode item for %q: %w", key, err)
	}
	list = append(list, raw)
	return s.Set(ctx, key, list)
}

// VoidItem locates the item with the given id in the collection at key,
// marks it voided and persists the collection. The record is retained, never
// deleted. It returns the updated raw item, or ErrNotFound when the id is
// unknown or the item is already voided.
func (s *Store) VoidItem(ctx context.Context, key string, id int64, reason, actor string) (json.RawMessage, error) {
	var list []json.RawMessage
	if err := s.Get(ctx, key, &list); err != nil {
		if errors.Is(err, ErrNoDocument) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	for i, raw := range list {
		var probe struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("could not decode item in %q: %w", key, err)
		}
		if probe.ID != id {
			continue
		}
		if probe.Status == "voided" {
			return nil, ErrNotFound
		}

		// Patch through a generic map so unknown fields survive untouched.
		var item map[string]any
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("could not decode item %d in %q: %w", id, key, err)
		}
		item["status"] = "voided"
		item["void_reason"] = reason
		item["voided_by"] = actor
		updated, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("could not encode item %d in %q: %w", id, key, err)
		}
		list[i] = updated
		if err := s.Set(ctx, key, list); err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrNotFound
}

func (s *Store) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
