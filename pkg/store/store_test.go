package store

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/jarlens/pkg/javaapi"
	"github.com/matzehuels/jarlens/pkg/maven"
	"github.com/matzehuels/jarlens/pkg/observability"
)

var widget = maven.Coordinate{GroupID: "org.acme", ArtifactID: "widget", Version: "1.0"}

func openTest(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir, Options{FlushDelay: time.Hour})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestStore_RoundTripAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s := openTest(t, dir)

	project := &maven.Project{
		Coordinate:   widget,
		Dependencies: []maven.Dependency{{Coordinate: maven.Coordinate{GroupID: "a", ArtifactID: "b", Version: "1"}}},
	}
	s.CacheManifest("/p/pom.xml", project)
	s.CacheTree("/p/pom.xml", project.Dependencies)
	s.CacheArchive(widget, []javaapi.Class{javaapi.Stub("org.acme", "Widget")})
	s.CacheSidecarText(SidecarKey(widget, "org/acme/Widget.java"), "class Widget {}")
	s.CacheDoc("org.acme.Widget", "A widget.")

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2 := openTest(t, dir)
	defer s2.Close()

	got, ok := s2.CachedManifest("/p/pom.xml")
	if !ok || got.Coordinate != widget {
		t.Errorf("CachedManifest = %+v, %v", got, ok)
	}
	tree, ok := s2.CachedTree("/p/pom.xml")
	if !ok || len(tree) != 1 || tree[0].ArtifactID != "b" {
		t.Errorf("CachedTree = %+v, %v", tree, ok)
	}
	classes, ok := s2.CachedArchive(widget)
	if !ok || len(classes) != 1 || classes[0].QualifiedName() != "org.acme.Widget" {
		t.Errorf("CachedArchive = %+v, %v", classes, ok)
	}
	if text, ok := s2.CachedSidecarText("org.acme:widget:1.0!org/acme/Widget.java"); !ok || text != "class Widget {}" {
		t.Errorf("CachedSidecarText = %q, %v", text, ok)
	}
	if doc, ok := s2.CachedDoc("org.acme.Widget"); !ok || doc != "A widget." {
		t.Errorf("CachedDoc = %q, %v", doc, ok)
	}
}

func TestStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s := openTest(t, dir)
	s.CacheManifest("/p/pom.xml", &maven.Project{Coordinate: widget})
	s.CacheArchive(widget, nil)
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	for _, name := range []string{"manifests.json", "archives/index.json", "archives/" + shardFile(widget.String())} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	// Clean tables are not written.
	if _, err := os.Stat(filepath.Join(dir, "docs.json")); !os.IsNotExist(err) {
		t.Errorf("docs.json written without changes (err=%v)", err)
	}
}

func TestStore_CorruptSnapshotTolerated(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "manifests.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "archives"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "archives", "index.json"), []byte(`{"org.acme:widget:1.0":"missing.json"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := openTest(t, dir)
	defer s.Close()

	stats := s.Stats()
	if stats[Manifests] != 0 || stats[Archives] != 0 {
		t.Errorf("Stats() = %v, want empty tables", stats)
	}
	if _, ok := s.CachedManifest("/p/pom.xml"); ok {
		t.Error("corrupt snapshot produced an entry")
	}
}

// flushCounter counts cache flushes that wrote at least one store.
type flushCounter struct {
	observability.NoopCacheHooks
	n atomic.Int32
}

func (f *flushCounter) OnCacheFlush(context.Context, int, time.Duration, error) { f.n.Add(1) }

func TestStore_DebouncedFlush(t *testing.T) {
	flushes := &flushCounter{}
	observability.SetCacheHooks(flushes)
	t.Cleanup(observability.Reset)

	dir := t.TempDir()
	delay := 50 * time.Millisecond
	s, err := Open(dir, Options{FlushDelay: delay})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.CacheDoc("org.acme.Widget", "v")
	}
	path := filepath.Join(dir, "docs.json")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("flushed before the debounce delay elapsed")
	}

	deadline := time.Now().Add(2 * time.Second)
	for flushes.n.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("docs.json not written after the debounce delay: %v", err)
	}

	time.Sleep(4 * delay)
	if got := flushes.n.Load(); got != 1 {
		t.Errorf("flushes = %d, want 1 for a burst of writes", got)
	}
}

func TestStore_CachedManifestIsACopy(t *testing.T) {
	s := openTest(t, t.TempDir())
	defer s.Close()

	dep := maven.Dependency{Coordinate: maven.Coordinate{GroupID: "org.acme", ArtifactID: "gadget", Version: "2.0"}}
	s.CacheManifest("/p/pom.xml", &maven.Project{Coordinate: widget, Dependencies: []maven.Dependency{dep}})

	got, ok := s.CachedManifest("/p/pom.xml")
	if !ok {
		t.Fatal("manifest not cached")
	}
	got.Dependencies[0].Version = "9.9"

	again, _ := s.CachedManifest("/p/pom.xml")
	if again.Dependencies[0].Version != "2.0" {
		t.Errorf("stored dependency version = %q, want 2.0", again.Dependencies[0].Version)
	}
}

func TestStore_Clear(t *testing.T) {
	dir := t.TempDir()
	s := openTest(t, dir)
	defer s.Close()

	s.CacheManifest("/p/pom.xml", &maven.Project{Coordinate: widget})
	s.CacheArchive(widget, nil)
	if err := s.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := s.CachedManifest("/p/pom.xml"); ok {
		t.Error("manifest survived Clear")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir not recreated: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear", len(entries))
	}
}

func TestStore_Stats(t *testing.T) {
	s := openTest(t, t.TempDir())
	defer s.Close()

	s.CacheDoc("a.A", "x")
	s.CacheDoc("a.B", "y")
	s.CacheArchive(widget, nil)

	want := map[string]int{Manifests: 0, Trees: 0, Archives: 1, Sidecars: 0, Docs: 2}
	got := s.Stats()
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Stats()[%s] = %d, want %d", k, got[k], v)
		}
	}
}

func TestSidecarKey(t *testing.T) {
	if got := SidecarKey(widget, "org/acme/Widget.java"); got != "org.acme:widget:1.0!org/acme/Widget.java" {
		t.Errorf("SidecarKey = %q", got)
	}
}
