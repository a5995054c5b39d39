package extract

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/jarlens/pkg/acquire"
	"github.com/matzehuels/jarlens/pkg/errors"
	"github.com/matzehuels/jarlens/pkg/javaapi"
	"github.com/matzehuels/jarlens/pkg/maven"
	"github.com/matzehuels/jarlens/pkg/observability"
	"github.com/matzehuels/jarlens/pkg/store"
)

// Mode selects which archive entries describe classes.
type Mode int

const (
	ModePrimary Mode = iota // compiled .class entries
	ModeSources             // .java entries
)

func (m Mode) String() string {
	if m == ModeSources {
		return "sources"
	}
	return "primary"
}

func (m Mode) suffix() string {
	if m == ModeSources {
		return ".java"
	}
	return ".class"
}

// maxEntrySize bounds how much of a single archive entry is read.
const maxEntrySize = 8 << 20

// Cache memoizes sidecar source text and javadoc descriptions.
// [store.Store] implements it.
type Cache interface {
	CachedSidecarText(key string) (string, bool)
	CacheSidecarText(key, text string)
	CachedDoc(qualifiedName string) (string, bool)
	CacheDoc(qualifiedName, text string)
}

// Options configures an [Extractor].
type Options struct {
	Scanner Scanner     // default: LexicalScanner
	Cache   Cache       // optional
	Logger  *log.Logger // default: log.Default()
}

// Extractor turns archive bytes into class metadata.
type Extractor struct {
	scanner Scanner
	cache   Cache
	logger  *log.Logger
}

// New creates an Extractor.
func New(opts Options) *Extractor {
	if opts.Scanner == nil {
		opts.Scanner = LexicalScanner{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Extractor{scanner: opts.Scanner, cache: opts.Cache, logger: opts.Logger}
}

// NewScanner returns the scanner registered under name: "lexical" (or "")
// and "treesitter".
func NewScanner(name string) (Scanner, error) {
	switch name {
	case "", "lexical":
		return LexicalScanner{}, nil
	case "treesitter":
		return TreeSitterScanner{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown scanner %q (want lexical or treesitter)", name)
}

// Extract returns one class per selected entry of the bundle's primary
// archive. The mode follows b.SourcesMode. Classes are not deduplicated.
//
// Only an unreadable primary archive is an error (INVALID_ARCHIVE).
// Unusable sidecars and scan failures degrade the affected classes.
func (e *Extractor) Extract(ctx context.Context, b *acquire.Bundle) (classes []javaapi.Class, err error) {
	start := time.Now()
	defer func() {
		observability.Extract().OnExtractComplete(ctx, b.Coordinate.String(), len(classes), time.Since(start), err)
	}()

	mode := ModePrimary
	if b.SourcesMode {
		mode = ModeSources
	}
	primary, err := openArchive(b.Primary)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArchive, err, "%s %s archive", b.Coordinate, mode)
	}
	sources := e.sidecar(b.Coordinate, maven.ClassifierSources, b.Sources)
	javadoc := e.sidecar(b.Coordinate, maven.ClassifierJavadoc, b.Javadoc)

	classes = []javaapi.Class{}
	for _, f := range primary.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg, name, ok := classEntry(f.Name, mode)
		if !ok {
			continue
		}

		class := javaapi.Stub(pkg, name)
		if src, ok := e.sourceText(b.Coordinate, f, mode, sources); ok {
			if err := e.scanner.Scan(src, &class); err != nil {
				e.logger.Debug("scan failed", "class", class.QualifiedName(), "err", err)
			}
		}
		if javadoc != nil {
			if doc, ok := e.classDoc(class.Package, class.Name, javadoc); ok && doc != "" {
				class.Documentation = doc
			}
		}
		classes = append(classes, class)
	}
	return classes, nil
}

// classEntry reports whether an archive entry describes a top-level class in
// the given mode, and derives its package and simple name.
func classEntry(name string, mode Mode) (pkg, simple string, ok bool) {
	if strings.HasSuffix(name, "/") || !strings.HasSuffix(name, mode.suffix()) {
		return "", "", false
	}
	if strings.HasPrefix(name, "META-INF/") || strings.Contains(name, "$") {
		return "", "", false
	}
	dir, file := path.Split(name)
	simple = strings.TrimSuffix(file, mode.suffix())
	if simple == "" || simple == "package-info" || simple == "module-info" {
		return "", "", false
	}
	return strings.ReplaceAll(strings.TrimSuffix(dir, "/"), "/", "."), simple, true
}

type archive struct {
	*zip.Reader
	byName map[string]*zip.File
}

func openArchive(data []byte) (*archive, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	a := &archive{Reader: r, byName: make(map[string]*zip.File, len(r.File))}
	for _, f := range r.File {
		a.byName[f.Name] = f
	}
	return a, nil
}

func (e *Extractor) sidecar(c maven.Coordinate, classifier string, data []byte) *archive {
	if data == nil {
		return nil
	}
	a, err := openArchive(data)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeEnrichment, err, "%s %s sidecar", c, classifier)
		e.logger.Debug("ignoring sidecar", "err", errors.UserMessage(err))
		return nil
	}
	return a
}

// sourceText returns the Java source for an entry: the entry itself in
// sources mode, otherwise the matching entry of the sources sidecar.
func (e *Extractor) sourceText(c maven.Coordinate, f *zip.File, mode Mode, sources *archive) (string, bool) {
	if mode == ModeSources {
		text, err := readEntry(f)
		if err != nil {
			e.logger.Debug("unreadable entry", "entry", f.Name, "err", err)
			return "", false
		}
		return text, true
	}

	entry := strings.TrimSuffix(f.Name, ".class") + ".java"
	key := store.SidecarKey(c, entry)
	if e.cache != nil {
		if text, ok := e.cache.CachedSidecarText(key); ok {
			return text, true
		}
	}
	if sources == nil {
		return "", false
	}
	sf, ok := sources.byName[entry]
	if !ok {
		return "", false
	}
	text, err := readEntry(sf)
	if err != nil {
		e.logger.Debug("unreadable sidecar entry", "entry", entry, "err", err)
		return "", false
	}
	if e.cache != nil {
		e.cache.CacheSidecarText(key, text)
	}
	return text, true
}

// classDoc returns the javadoc page description for a class.
func (e *Extractor) classDoc(pkg, name string, javadoc *archive) (string, bool) {
	fqcn := javaapi.QualifiedName(pkg, name)
	if e.cache != nil {
		if doc, ok := e.cache.CachedDoc(fqcn); ok {
			return doc, true
		}
	}
	f, ok := javadoc.byName[javadocPage(pkg, name)]
	if !ok {
		return "", false
	}
	page, err := readEntry(f)
	if err != nil {
		return "", false
	}
	doc := pageDescription([]byte(page))
	if e.cache != nil {
		e.cache.CacheDoc(fqcn, doc)
	}
	return doc, true
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
