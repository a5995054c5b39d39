package maven

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/jarlens/pkg/errors"
	mvn "github.com/matzehuels/jarlens/pkg/maven"
)

func TestClient_FetchPOM(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/maven2/org/example/mylib/1.0.0/mylib-1.0.0.pom" {
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(`<project><groupId>org.example</groupId></project>`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL + "/maven2", Timeout: 5 * time.Second})
	coord := mvn.Coordinate{GroupID: "org.example", ArtifactID: "mylib", Version: "1.0.0"}

	data, err := c.FetchPOM(context.Background(), coord)
	if err != nil {
		t.Fatalf("FetchPOM failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("FetchPOM returned empty body")
	}
}

func TestClient_FetchArchive(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("PK\x03\x04"))
	}))
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL + "/"})
	coord := mvn.Coordinate{GroupID: "org.acme", ArtifactID: "widget", Version: "1.0"}

	if _, err := c.FetchArchive(context.Background(), coord, mvn.ClassifierSources); err != nil {
		t.Fatalf("FetchArchive failed: %v", err)
	}
	if want := "/org/acme/widget/1.0/widget-1.0-sources.jar"; gotPath != want {
		t.Errorf("requested %q, want %q", gotPath, want)
	}
}

func TestClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL})
	coord := mvn.Coordinate{GroupID: "org.missing", ArtifactID: "artifact", Version: "1"}

	_, err := c.FetchPOM(context.Background(), coord)
	if !errors.Is(err, errors.ErrCodeNotFoundRemotely) {
		t.Errorf("err = %v, want NOT_FOUND_REMOTELY", err)
	}
}

func TestClient_RemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL})
	coord := mvn.Coordinate{GroupID: "org.acme", ArtifactID: "widget", Version: "1.0"}

	_, err := c.FetchArchive(context.Background(), coord, mvn.ClassifierNone)
	if !errors.Is(err, errors.ErrCodeRemoteFetch) {
		t.Errorf("err = %v, want REMOTE_FETCH", err)
	}
}

func TestClient_InvalidCoordinate(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:1"})
	coord := mvn.Coordinate{GroupID: "org.acme", ArtifactID: "widget", Version: "${revision}"}

	_, err := c.FetchPOM(context.Background(), coord)
	if !errors.Is(err, errors.ErrCodeInvalidCoordinate) {
		t.Errorf("err = %v, want INVALID_COORDINATE", err)
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(Options{})
	if c.BaseURL() != mvn.DefaultRemoteRepository {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), mvn.DefaultRemoteRepository)
	}
}
