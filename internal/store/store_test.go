package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jsvensson/customtheme/internal/kv"
	"github.com/jsvensson/customtheme/internal/style"
	"github.com/jsvensson/customtheme/internal/theme"
)

func newStore(t *testing.T, backend kv.Store, sel theme.Selector) (*Store, *style.Declarations) {
	t.Helper()
	root := style.NewDeclarations()
	s, err := New(context.Background(), backend, style.NewProjector(root), sel)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s, root
}

// failingKV fails every write.
type failingKV struct {
	*kv.MemoryStore
}

var errWrite = errors.New("disk full")

func (failingKV) Put(context.Context, string, []byte) error       { return errWrite }
func (failingKV) PutAll(context.Context, map[string][]byte) error { return errWrite }

func TestRead_Empty(t *testing.T) {
	s, _ := newStore(t, kv.NewMemoryStore(), theme.SelectorLight)

	colors, metadata, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if colors == nil || metadata == nil {
		t.Fatal("Read() should return non-nil empty maps")
	}
	if len(colors) != 0 || len(metadata) != 0 {
		t.Errorf("Read() = %v, %v; want empty maps", colors, metadata)
	}
}

func TestReplace_Persists(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	s, _ := newStore(t, backend, theme.SelectorCustom)

	colors := theme.Colors{"background": "#000", "name": "#fff"}
	metadata := theme.Metadata{"name": "Night", "backgroundBlur": 4, "bogus": "x"}
	if err := s.Replace(ctx, colors, metadata); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	// A second store over the same backend sees the committed state.
	reopened, _ := newStore(t, backend, theme.SelectorLight)
	gotColors, gotMeta, err := reopened.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	if diff := cmp.Diff(theme.Colors{"background": "#000"}, gotColors); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}
	wantMeta := theme.Metadata{"name": "Night", "backgroundBlur": 4.0}
	if diff := cmp.Diff(wantMeta, gotMeta); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestReplace_IsFullReplace(t *testing.T) {
	ctx := context.Background()
	s, root := newStore(t, kv.NewMemoryStore(), theme.SelectorCustom)

	if err := s.Replace(ctx, theme.Colors{"a": "red", "b": "blue"}, theme.Metadata{"name": "One"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace(ctx, theme.Colors{"c": "green"}, theme.Metadata{"author": "Me"}); err != nil {
		t.Fatal(err)
	}

	colors, metadata, _ := s.Read(ctx)
	if diff := cmp.Diff(theme.Colors{"c": "green"}, colors); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(theme.Metadata{"author": "Me"}, metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"--c": "green"}, root.Snapshot()); diff != "" {
		t.Errorf("live properties mismatch (-want +got):\n%s", diff)
	}
}

func TestReplace_FailureLeavesState(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	seed, _ := newStore(t, mem, theme.SelectorCustom)
	if err := seed.Replace(ctx, theme.Colors{"a": "red"}, theme.Metadata{"name": "Kept"}); err != nil {
		t.Fatal(err)
	}

	s, root := newStore(t, failingKV{mem}, theme.SelectorCustom)
	err := s.Replace(ctx, theme.Colors{"b": "blue"}, theme.Metadata{})
	if !errors.Is(err, errWrite) {
		t.Fatalf("Replace() error = %v, want %v", err, errWrite)
	}

	colors, metadata, _ := s.Read(ctx)
	if diff := cmp.Diff(theme.Colors{"a": "red"}, colors); diff != "" {
		t.Errorf("colors changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(theme.Metadata{"name": "Kept"}, metadata); diff != "" {
		t.Errorf("metadata changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"--a": "red"}, root.Snapshot()); diff != "" {
		t.Errorf("live properties changed (-want +got):\n%s", diff)
	}
}

func TestReplaceColorsAndMetadata(t *testing.T) {
	ctx := context.Background()
	s, root := newStore(t, kv.NewMemoryStore(), theme.SelectorCustom)

	if err := s.ReplaceColors(ctx, theme.Colors{"text": "#eee", "version": "2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceMetadata(ctx, theme.Metadata{"version": "2", "backgroundOpacity": true}); err != nil {
		t.Fatal(err)
	}

	colors, metadata, _ := s.Read(ctx)
	if diff := cmp.Diff(theme.Colors{"text": "#eee"}, colors); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(theme.Metadata{"version": "2"}, metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if _, ok := root.Property("--text"); !ok {
		t.Error("--text should be live after ReplaceColors")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s, root := newStore(t, kv.NewMemoryStore(), theme.SelectorCustom)
	if err := s.Replace(ctx, theme.Colors{"a": "red", "b": "blue"}, theme.Metadata{"name": "X"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	colors, metadata, _ := s.Read(ctx)
	if len(colors) != 0 || len(metadata) != 0 {
		t.Errorf("Read() after Clear = %v, %v; want empty", colors, metadata)
	}
	if root.Len() != 0 {
		t.Errorf("live properties remain after Clear: %v", root.Snapshot())
	}
}

func TestSelector(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	s, root := newStore(t, backend, theme.SelectorLight)

	if err := s.ReplaceColors(ctx, theme.Colors{"a": "red"}); err != nil {
		t.Fatal(err)
	}
	if root.Len() != 0 {
		t.Fatalf("colors projected while selector is light: %v", root.Snapshot())
	}

	if err := s.SetSelector(ctx, theme.SelectorCustom); err != nil {
		t.Fatal(err)
	}
	if _, ok := root.Property("--a"); !ok {
		t.Error("--a should be live after selecting custom")
	}

	if err := s.SetSelector(ctx, theme.SelectorDark); err != nil {
		t.Fatal(err)
	}
	if root.Len() != 0 {
		t.Errorf("properties remain after leaving custom: %v", root.Snapshot())
	}

	reopened, _ := newStore(t, backend, theme.SelectorLight)
	if got := reopened.Selector(); got != theme.SelectorDark {
		t.Errorf("persisted selector = %q, want %q", got, theme.SelectorDark)
	}

	if err := s.SetSelector(ctx, "sepia"); !errors.Is(err, theme.ErrUnknownSelector) {
		t.Errorf("SetSelector(sepia) error = %v, want ErrUnknownSelector", err)
	}
}

func TestNew_ProjectsPersisted(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	_ = backend.Put(ctx, ColorsKey, []byte(`{"accent":"#f0f"}`))
	_ = backend.Put(ctx, SelectorKey, []byte(`"custom"`))

	s, root := newStore(t, backend, theme.SelectorLight)
	if s.Selector() != theme.SelectorCustom {
		t.Errorf("Selector() = %q, want custom", s.Selector())
	}
	if v, _ := root.Property("--accent"); v != "#f0f" {
		t.Errorf("--accent = %q, want #f0f", v)
	}
}

func TestNew_CorruptSlots(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	_ = backend.Put(ctx, ColorsKey, []byte(`{not json`))
	_ = backend.Put(ctx, MetadataKey, []byte(`[1,2]`))
	_ = backend.Put(ctx, SelectorKey, []byte(`"sepia"`))

	s, _ := newStore(t, backend, theme.SelectorDark)
	colors, metadata, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(colors) != 0 || len(metadata) != 0 {
		t.Errorf("corrupt slots should read as empty, got %v, %v", colors, metadata)
	}
	if s.Selector() != theme.SelectorDark {
		t.Errorf("Selector() = %q, want default dark", s.Selector())
	}
}

func TestNew_PartiallyDecodableSlots(t *testing.T) {
	tests := []struct {
		name string
		key  string
		data string
	}{
		{"colors with a number", ColorsKey, `{"a":"#fff","b":1}`},
		{"colors with a trailing error", ColorsKey, `{"a":"#fff","b":`},
		{"metadata with a trailing error", MetadataKey, `{"name":"Mine","author":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := kv.NewMemoryStore()
			_ = backend.Put(ctx, tt.key, []byte(tt.data))

			s, root := newStore(t, backend, theme.SelectorCustom)
			colors, metadata, err := s.Read(ctx)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if diff := cmp.Diff(theme.Colors{}, colors); diff != "" {
				t.Errorf("colors mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(theme.Metadata{}, metadata); diff != "" {
				t.Errorf("metadata mismatch (-want +got):\n%s", diff)
			}
			if v, ok := root.Property("--a"); ok {
				t.Errorf("--a = %q, want unset", v)
			}
		})
	}
}
