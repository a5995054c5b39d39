package acquire

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jarlens/pkg/errors"
	"github.com/matzehuels/jarlens/pkg/maven"
)

var widget = maven.Coordinate{GroupID: "org.acme", ArtifactID: "widget", Version: "1.0"}

type fakeFetcher struct {
	mu       sync.Mutex
	archives map[string][]byte // classifier → bytes
	calls    map[string]int
}

func newFakeFetcher(archives map[string][]byte) *fakeFetcher {
	return &fakeFetcher{archives: archives, calls: make(map[string]int)}
}

func (f *fakeFetcher) FetchArchive(_ context.Context, c maven.Coordinate, classifier string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[classifier]++
	data, ok := f.archives[classifier]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFoundRemotely, "%s %s", c, classifier)
	}
	return data, nil
}

func (f *fakeFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.calls {
		n += v
	}
	return n
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

func putLocal(t *testing.T, root, classifier string, data []byte) {
	t.Helper()
	if _, err := (LocalRepository{Root: root}).Write(widget, classifier, data); err != nil {
		t.Fatal(err)
	}
}

func TestAcquire_LocalMainShortCircuits(t *testing.T) {
	repo := t.TempDir()
	putLocal(t, repo, maven.ClassifierNone, []byte("main"))

	decisions := NewScripted(nil, nil)
	remote := newFakeFetcher(nil)
	a := New(Options{LocalRepository: repo, Remote: remote, Decisions: decisions, Logger: quietLogger()})

	b, err := a.Acquire(context.Background(), widget)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if b.SourcesMode || string(b.Primary) != "main" {
		t.Errorf("bundle = %+v, want primary mode with local jar", b)
	}
	if choose, confirm := decisions.Prompts(); choose+confirm != 0 {
		t.Errorf("prompted %d times, want 0", choose+confirm)
	}
}

func TestAcquire_LocalSources(t *testing.T) {
	repo := t.TempDir()
	putLocal(t, repo, maven.ClassifierSources, []byte("src"))

	a := New(Options{LocalRepository: repo, Decisions: NewScripted(nil, nil), Logger: quietLogger()})

	b, err := a.Acquire(context.Background(), widget)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !b.SourcesMode || string(b.Primary) != "src" || b.Sources != nil {
		t.Errorf("bundle = %+v, want sources mode", b)
	}
}

func TestAcquire_OfflineFastFail(t *testing.T) {
	decisions := NewScripted([]Strategy{StrategyMain}, []bool{true})
	remote := newFakeFetcher(map[string][]byte{"": []byte("main")})
	a := New(Options{LocalRepository: t.TempDir(), Remote: remote, Decisions: decisions, Offline: true, Logger: quietLogger()})

	_, err := a.Acquire(context.Background(), widget)
	if !errors.Is(err, errors.ErrCodeOfflineBlocked) {
		t.Fatalf("err = %v, want OFFLINE_BLOCKED", err)
	}
	if remote.total() != 0 {
		t.Errorf("made %d network calls while offline", remote.total())
	}
	if choose, confirm := decisions.Prompts(); choose+confirm != 0 {
		t.Errorf("prompted %d times while offline", choose+confirm)
	}
}

func TestAcquire_DownloadSourcesScenario(t *testing.T) {
	repo := t.TempDir()
	decisions := NewScripted([]Strategy{StrategySources}, []bool{true})
	remote := newFakeFetcher(map[string][]byte{"sources": []byte("src")})
	a := New(Options{LocalRepository: repo, Remote: remote, Decisions: decisions, Logger: quietLogger()})

	b, err := a.Acquire(context.Background(), widget)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !b.SourcesMode || string(b.Primary) != "src" {
		t.Errorf("bundle = %+v, want sources mode", b)
	}
	if remote.calls["sources"] != 1 {
		t.Errorf("sources fetched %d times, want 1", remote.calls["sources"])
	}
	if remote.calls[""] != 0 {
		t.Errorf("main jar fetched %d times, want 0", remote.calls[""])
	}

	written := filepath.Join(repo, "org", "acme", "widget", "1.0", "widget-1.0-sources.jar")
	data, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("download not stored: %v", err)
	}
	if !bytes.Equal(data, []byte("src")) {
		t.Errorf("stored %q, want %q", data, "src")
	}
	if _, err := os.Stat(filepath.Join(repo, "org", "acme", "widget", "1.0", "widget-1.0.jar")); !os.IsNotExist(err) {
		t.Error("main jar written without download")
	}
}

func TestAcquire_Skip(t *testing.T) {
	remote := newFakeFetcher(nil)
	a := New(Options{LocalRepository: t.TempDir(), Remote: remote, Decisions: NewScripted([]Strategy{StrategySkip}, nil), Logger: quietLogger()})

	_, err := a.Acquire(context.Background(), widget)
	if !errors.Is(err, errors.ErrCodeUserSkipped) {
		t.Errorf("err = %v, want USER_SKIPPED", err)
	}
	if !errors.Recoverable(err) {
		t.Error("skip should be recoverable")
	}
	if remote.total() != 0 {
		t.Error("skip made network calls")
	}
}

func TestAcquire_ChooseOfflineBlocksLater(t *testing.T) {
	decisions := NewScripted([]Strategy{StrategyOffline, StrategyMain}, []bool{true})
	a := New(Options{LocalRepository: t.TempDir(), Remote: newFakeFetcher(nil), Decisions: decisions, Logger: quietLogger()})

	if _, err := a.Acquire(context.Background(), widget); !errors.Is(err, errors.ErrCodeOfflineBlocked) {
		t.Fatalf("err = %v, want OFFLINE_BLOCKED", err)
	}
	if !a.Offline() {
		t.Fatal("offline flag not set")
	}

	other := maven.Coordinate{GroupID: "org.acme", ArtifactID: "gadget", Version: "2.0"}
	if _, err := a.Acquire(context.Background(), other); !errors.Is(err, errors.ErrCodeOfflineBlocked) {
		t.Errorf("second err = %v, want OFFLINE_BLOCKED", err)
	}
	if choose, _ := decisions.Prompts(); choose != 1 {
		t.Errorf("Choose called %d times, want 1", choose)
	}

	a.SetOffline(false)
	if a.Offline() {
		t.Error("SetOffline(false) did not clear the flag")
	}
}

func TestAcquire_Declined(t *testing.T) {
	remote := newFakeFetcher(map[string][]byte{"": []byte("main")})
	a := New(Options{LocalRepository: t.TempDir(), Remote: remote, Decisions: NewScripted([]Strategy{StrategyMain}, []bool{false}), Logger: quietLogger()})

	_, err := a.Acquire(context.Background(), widget)
	if !errors.Is(err, errors.ErrCodeDownloadDeclined) {
		t.Errorf("err = %v, want DOWNLOAD_DECLINED", err)
	}
	if remote.total() != 0 {
		t.Error("declined download still fetched")
	}
}

func TestAcquire_Both(t *testing.T) {
	tests := []struct {
		name     string
		confirms []bool
		wantErr  errors.Code
		wantSrc  bool
		wantData string
	}{
		{name: "both confirmed", confirms: []bool{true, true}, wantSrc: true, wantData: "src"},
		{name: "sources declined", confirms: []bool{false, true}, wantSrc: false, wantData: "main"},
		{name: "main declined", confirms: []bool{true, false}, wantSrc: true, wantData: "src"},
		{name: "both declined", confirms: []bool{false, false}, wantErr: errors.ErrCodeDownloadDeclined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newFakeFetcher(map[string][]byte{"": []byte("main"), "sources": []byte("src")})
			a := New(Options{
				LocalRepository:  t.TempDir(),
				Remote:           remote,
				Decisions:        NewScripted([]Strategy{StrategyBoth}, tt.confirms),
				NoRemoteSidecars: true,
				Logger:           quietLogger(),
			})

			b, err := a.Acquire(context.Background(), widget)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Acquire: %v", err)
			}
			if b.SourcesMode != tt.wantSrc || string(b.Primary) != tt.wantData {
				t.Errorf("bundle = {SourcesMode:%v Primary:%q}, want {%v %q}", b.SourcesMode, b.Primary, tt.wantSrc, tt.wantData)
			}
		})
	}
}

func TestAcquire_SidecarsBestEffort(t *testing.T) {
	repo := t.TempDir()
	putLocal(t, repo, maven.ClassifierNone, []byte("main"))

	remote := newFakeFetcher(map[string][]byte{"javadoc": []byte("doc")})
	a := New(Options{LocalRepository: repo, Remote: remote, Logger: quietLogger()})

	b, err := a.Acquire(context.Background(), widget)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if b.Sources != nil {
		t.Errorf("Sources = %q, want nil (not in repository)", b.Sources)
	}
	if string(b.Javadoc) != "doc" {
		t.Errorf("Javadoc = %q, want %q", b.Javadoc, "doc")
	}
	if _, err := os.Stat(LocalRepository{Root: repo}.Path(widget, maven.ClassifierJavadoc)); err != nil {
		t.Errorf("javadoc sidecar not stored: %v", err)
	}
}

func TestAcquire_SidecarsOfflineLocalOnly(t *testing.T) {
	repo := t.TempDir()
	putLocal(t, repo, maven.ClassifierNone, []byte("main"))
	putLocal(t, repo, maven.ClassifierSources, []byte("src"))

	remote := newFakeFetcher(map[string][]byte{"javadoc": []byte("doc")})
	a := New(Options{LocalRepository: repo, Remote: remote, Offline: true, Logger: quietLogger()})

	b, err := a.Acquire(context.Background(), widget)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if string(b.Sources) != "src" || b.Javadoc != nil {
		t.Errorf("Sources = %q, Javadoc = %q", b.Sources, b.Javadoc)
	}
	if remote.total() != 0 {
		t.Error("offline enrichment made network calls")
	}
}

func TestAcquire_InvalidCoordinate(t *testing.T) {
	a := New(Options{Logger: quietLogger()})
	_, err := a.Acquire(context.Background(), maven.Coordinate{GroupID: "g", ArtifactID: "a", Version: "${v}"})
	if !errors.Is(err, errors.ErrCodeInvalidCoordinate) {
		t.Errorf("err = %v, want INVALID_COORDINATE", err)
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies {
		got, err := ParseStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseStrategy("later"); err == nil {
		t.Error("ParseStrategy(later) succeeded")
	}
}
