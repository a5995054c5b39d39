package extract

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/jarlens/pkg/acquire"
	"github.com/matzehuels/jarlens/pkg/errors"
	"github.com/matzehuels/jarlens/pkg/maven"
)

var widget = maven.Coordinate{GroupID: "org.acme", ArtifactID: "widget", Version: "1.0"}

const widgetSource = `package org.acme;

import java.util.List;

/**
 * A configurable widget.
 */
public class Widget {

    /**
     * Resizes the widget.
     *
     * @param width the new width in pixels
     * @param height ignored
     */
    public void resize(int width, int height) {
        this.width = width;
    }
}
`

func buildJar(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

type memCache struct {
	sidecars map[string]string
	docs     map[string]string
}

func newMemCache() *memCache {
	return &memCache{sidecars: map[string]string{}, docs: map[string]string{}}
}

func (m *memCache) CachedSidecarText(key string) (string, bool) {
	v, ok := m.sidecars[key]
	return v, ok
}
func (m *memCache) CacheSidecarText(key, text string)    { m.sidecars[key] = text }
func (m *memCache) CachedDoc(name string) (string, bool) { v, ok := m.docs[name]; return v, ok }
func (m *memCache) CacheDoc(name, text string)           { m.docs[name] = text }

func TestExtract_SourcesModeRoundTrip(t *testing.T) {
	jar := buildJar(t, map[string]string{"org/acme/Widget.java": widgetSource})
	e := New(Options{Logger: quietLogger()})

	classes, err := e.Extract(context.Background(), &acquire.Bundle{Coordinate: widget, Primary: jar, SourcesMode: true})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(classes) != 1 {
		t.Fatalf("got %d classes, want 1", len(classes))
	}
	c := classes[0]
	if c.Name != "Widget" || c.Package != "org.acme" {
		t.Errorf("class = %s", c.QualifiedName())
	}
	if len(c.Methods) != 1 {
		t.Fatalf("got %d methods, want 1", len(c.Methods))
	}
	m := c.Methods[0]
	if m.Name != "resize" || m.ReturnType != "void" {
		t.Errorf("method = %s", m.Signature())
	}
	if len(m.Parameters) != 2 || m.Parameters[0].Name != "width" || m.Parameters[0].Type != "int" ||
		m.Parameters[1].Name != "height" || m.Parameters[1].Type != "int" {
		t.Fatalf("parameters = %+v", m.Parameters)
	}
	if m.Parameters[0].Description != "the new width in pixels" {
		t.Errorf("first parameter description = %q", m.Parameters[0].Description)
	}
	if m.Documentation != "Resizes the widget." {
		t.Errorf("Documentation = %q", m.Documentation)
	}
}

func TestExtract_PrimaryWithoutSourcesIsStub(t *testing.T) {
	jar := buildJar(t, map[string]string{
		"org/acme/Widget.class":       "\xca\xfe\xba\xbe",
		"org/acme/Widget$Inner.class": "\xca\xfe\xba\xbe",
		"org/acme/package-info.class": "\xca\xfe\xba\xbe",
		"module-info.class":           "\xca\xfe\xba\xbe",
		"META-INF/MANIFEST.MF":        "Manifest-Version: 1.0\n",
		"org/acme/":                   "",
	})
	e := New(Options{Logger: quietLogger()})

	classes, err := e.Extract(context.Background(), &acquire.Bundle{Coordinate: widget, Primary: jar})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(classes) != 1 {
		t.Fatalf("got %d classes, want 1: %+v", len(classes), classes)
	}
	c := classes[0]
	if c.QualifiedName() != "org.acme.Widget" || len(c.Modifiers) != 1 || c.Modifiers[0] != "public" || len(c.Methods) != 0 {
		t.Errorf("stub = %+v", c)
	}
}

func TestExtract_PrimaryWithSourcesSidecar(t *testing.T) {
	jar := buildJar(t, map[string]string{"org/acme/Widget.class": "\xca\xfe\xba\xbe"})
	sources := buildJar(t, map[string]string{"org/acme/Widget.java": widgetSource})
	cache := newMemCache()
	e := New(Options{Cache: cache, Logger: quietLogger()})

	classes, err := e.Extract(context.Background(), &acquire.Bundle{Coordinate: widget, Primary: jar, Sources: sources})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(classes) != 1 || len(classes[0].Methods) != 1 {
		t.Fatalf("classes = %+v", classes)
	}
	if _, ok := cache.sidecars["org.acme:widget:1.0!org/acme/Widget.java"]; !ok {
		t.Error("sidecar text not cached")
	}

	// A cached sidecar text is used without the sidecar archive.
	classes, err = e.Extract(context.Background(), &acquire.Bundle{Coordinate: widget, Primary: jar})
	if err != nil {
		t.Fatal(err)
	}
	if len(classes[0].Methods) != 1 {
		t.Errorf("cached sidecar text not used: %+v", classes[0])
	}
}

func TestExtract_JavadocSidecar(t *testing.T) {
	jar := buildJar(t, map[string]string{"org/acme/Widget.class": "\xca\xfe\xba\xbe"})
	javadoc := buildJar(t, map[string]string{
		"org/acme/Widget.html": `<html><body><h1>Class Widget</h1>
<div class="block">A <code>Widget</code> &amp; its
   parts.</div><div class="block">Second block.</div></body></html>`,
	})
	cache := newMemCache()
	e := New(Options{Cache: cache, Logger: quietLogger()})

	classes, err := e.Extract(context.Background(), &acquire.Bundle{Coordinate: widget, Primary: jar, Javadoc: javadoc})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := classes[0].Documentation; got != "A Widget & its parts." {
		t.Errorf("Documentation = %q", got)
	}
	if cache.docs["org.acme.Widget"] != "A Widget & its parts." {
		t.Errorf("doc not cached: %v", cache.docs)
	}
}

func TestExtract_InvalidArchive(t *testing.T) {
	e := New(Options{Logger: quietLogger()})
	_, err := e.Extract(context.Background(), &acquire.Bundle{Coordinate: widget, Primary: []byte("not a zip")})
	if !errors.Is(err, errors.ErrCodeInvalidArchive) {
		t.Errorf("err = %v, want INVALID_ARCHIVE", err)
	}
}

func TestExtract_BrokenSidecarIgnored(t *testing.T) {
	jar := buildJar(t, map[string]string{"org/acme/Widget.class": "\xca\xfe\xba\xbe"})
	e := New(Options{Logger: quietLogger()})

	classes, err := e.Extract(context.Background(), &acquire.Bundle{Coordinate: widget, Primary: jar, Sources: []byte("junk"), Javadoc: []byte("junk")})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(classes) != 1 {
		t.Errorf("got %d classes, want 1", len(classes))
	}
}

func TestClassEntry(t *testing.T) {
	tests := []struct {
		name       string
		mode       Mode
		pkg, class string
		ok         bool
	}{
		{"org/acme/Widget.class", ModePrimary, "org.acme", "Widget", true},
		{"Root.class", ModePrimary, "", "Root", true},
		{"org/acme/Widget.java", ModePrimary, "", "", false},
		{"org/acme/Widget.java", ModeSources, "org.acme", "Widget", true},
		{"org/acme/Widget$1.class", ModePrimary, "", "", false},
		{"org/acme/package-info.java", ModeSources, "", "", false},
		{"META-INF/versions/9/module-info.class", ModePrimary, "", "", false},
		{"org/acme/", ModePrimary, "", "", false},
	}
	for _, tt := range tests {
		pkg, class, ok := classEntry(tt.name, tt.mode)
		if pkg != tt.pkg || class != tt.class || ok != tt.ok {
			t.Errorf("classEntry(%q, %s) = %q, %q, %v", tt.name, tt.mode, pkg, class, ok)
		}
	}
}

func TestNewScanner(t *testing.T) {
	for _, name := range []string{"", "lexical", "treesitter"} {
		if _, err := NewScanner(name); err != nil {
			t.Errorf("NewScanner(%q): %v", name, err)
		}
	}
	if _, err := NewScanner("javac"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewScanner(javac) err = %v", err)
	}
}
