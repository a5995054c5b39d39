package acquire

import (
	"os"

	"github.com/matzehuels/jarlens/pkg/errors"
	"github.com/matzehuels/jarlens/pkg/fsutil"
	"github.com/matzehuels/jarlens/pkg/maven"
)

// LocalRepository reads and writes jars under a Maven-layout directory.
// The zero value (empty Root) has no artifacts and discards writes.
type LocalRepository struct {
	Root string
}

// Path returns where the archive for c with classifier lives.
func (r LocalRepository) Path(c maven.Coordinate, classifier string) string {
	return maven.LocalPath(r.Root, c, classifier, maven.ExtJar)
}

// Read returns the archive bytes, or an error with code NOT_FOUND_LOCALLY.
func (r LocalRepository) Read(c maven.Coordinate, classifier string) ([]byte, error) {
	if r.Root == "" {
		return nil, errors.New(errors.ErrCodeNotFoundLocally, "no local repository")
	}
	path := r.Path(c, classifier)
	if !fsutil.Exists(path) {
		return nil, errors.New(errors.ErrCodeNotFoundLocally, "%s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFoundLocally, err, "%s", path)
	}
	return data, nil
}

// Write stores archive bytes atomically under the layout path.
func (r LocalRepository) Write(c maven.Coordinate, classifier string, data []byte) (string, error) {
	if r.Root == "" {
		return "", nil
	}
	path := r.Path(c, classifier)
	return path, fsutil.WriteFileAtomic(path, data, 0o644)
}
