// Package store owns the persisted custom theme and keeps the live style
// projection in sync with it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jsvensson/customtheme/internal/kv"
	"github.com/jsvensson/customtheme/internal/style"
	"github.com/jsvensson/customtheme/internal/theme"
	"github.com/tliron/commonlog"
)

// Persisted slot names.
const (
	ColorsKey   = "custom-theme-colors"
	MetadataKey = "custom-theme-metadata"
	SelectorKey = "color-theme"
)

var log = commonlog.GetLogger("customtheme.store")

// Store is the only writer of the custom theme slots. Mutations are
// serialized; concurrent replaces resolve last-write-wins.
type Store struct {
	mu        sync.Mutex
	kv        kv.Store
	projector *style.Projector

	colors   theme.Colors
	selector theme.Selector
}

// New loads the persisted theme and projects it once. defaultSelector is used
// when no selector has been persisted.
func New(ctx context.Context, backend kv.Store, projector *style.Projector, defaultSelector theme.Selector) (*Store, error) {
	s := &Store{
		kv:        backend,
		projector: projector,
		selector:  defaultSelector,
	}

	colors, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.colors = colors

	raw, err := backend.Get(ctx, SelectorKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", SelectorKey, err)
	default:
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			log.Warningf("ignoring corrupt %s slot: %s", SelectorKey, err.Error())
			break
		}
		sel, err := theme.ParseSelector(name)
		if err != nil {
			log.Warningf("ignoring persisted selector: %s", err.Error())
			break
		}
		s.selector = sel
	}

	s.apply()
	return s, nil
}

// Read returns copies of the persisted colors and metadata. Slots that were
// never written read as empty maps.
func (s *Store) Read(ctx context.Context) (theme.Colors, theme.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// ReplaceColors replaces the color map wholesale. Keys reserved for metadata
// are discarded.
func (s *Store) ReplaceColors(ctx context.Context, colors theme.Colors) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	colors = clean(colors)
	data, err := json.Marshal(colors)
	if err != nil {
		return fmt.Errorf("encoding colors: %w", err)
	}
	if err := s.kv.Put(ctx, ColorsKey, data); err != nil {
		return fmt.Errorf("saving colors: %w", err)
	}

	s.colors = colors
	s.apply()
	return nil
}

// ReplaceMetadata replaces the metadata map wholesale. Unknown keys and values
// that are neither strings nor numbers are discarded.
func (s *Store) ReplaceMetadata(ctx context.Context, metadata theme.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(metadata.Sanitized())
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := s.kv.Put(ctx, MetadataKey, data); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}
	return nil
}

// Replace commits colors and metadata together. On error neither slot has
// changed.
func (s *Store) Replace(ctx context.Context, colors theme.Colors, metadata theme.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(ctx, clean(colors), metadata.Sanitized())
}

// Clear removes every live property for the current colors, then empties both
// slots.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projector.Clear(s.colors)
	if err := s.replaceLocked(ctx, theme.Colors{}, theme.Metadata{}); err != nil {
		return err
	}
	log.Infof("custom theme cleared")
	return nil
}

// Selector returns the active theme selector.
func (s *Store) Selector() theme.Selector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector
}

// SetSelector persists the active selector and re-projects the colors.
func (s *Store) SetSelector(ctx context.Context, sel theme.Selector) error {
	if _, err := theme.ParseSelector(string(sel)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(string(sel))
	if err != nil {
		return fmt.Errorf("encoding selector: %w", err)
	}
	if err := s.kv.Put(ctx, SelectorKey, data); err != nil {
		return fmt.Errorf("saving selector: %w", err)
	}

	s.selector = sel
	s.apply()
	return nil
}

func (s *Store) replaceLocked(ctx context.Context, colors theme.Colors, metadata theme.Metadata) error {
	colorData, err := json.Marshal(colors)
	if err != nil {
		return fmt.Errorf("encoding colors: %w", err)
	}
	metaData, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	err = s.kv.PutAll(ctx, map[string][]byte{
		ColorsKey:   colorData,
		MetadataKey: metaData,
	})
	if err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}

	s.colors = colors
	s.apply()
	return nil
}

// apply is the only place the store projects onto live style state.
func (s *Store) apply() {
	s.projector.Apply(s.selector, s.colors)
}

func (s *Store) load(ctx context.Context) (theme.Colors, theme.Metadata, error) {
	colors, err := get[theme.Colors](ctx, s.kv, ColorsKey)
	if err != nil {
		return nil, nil, err
	}

	raw, err := get[map[string]any](ctx, s.kv, MetadataKey)
	if err != nil {
		return nil, nil, err
	}

	return clean(colors), theme.Metadata(raw).Sanitized(), nil
}

// get decodes the slot at key. Missing and corrupt slots yield the zero
// value, never a partially decoded one.
func get[T any](ctx context.Context, store kv.Store, key string) (T, error) {
	var zero T
	data, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("reading %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Warningf("treating corrupt %s slot as empty: %s", key, err.Error())
		return zero, nil
	}
	return v, nil
}

func clean(colors theme.Colors) theme.Colors {
	if colors == nil {
		return theme.Colors{}
	}
	return colors.WithoutReserved()
}
