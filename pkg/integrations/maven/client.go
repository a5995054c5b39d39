package maven

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	jlerrors "github.com/matzehuels/jarlens/pkg/errors"
	"github.com/matzehuels/jarlens/pkg/integrations"
	mvn "github.com/matzehuels/jarlens/pkg/maven"
)

// Client downloads POMs and archives from a Maven 2 layout repository.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	logger  *log.Logger
}

// Options configures a [Client].
type Options struct {
	BaseURL string        // Repository root (default: Maven Central)
	Timeout time.Duration // Per-request timeout (default: integrations.DefaultTimeout)
	Logger  *log.Logger   // Debug logging of fetched URLs (default: log.Default())
}

// NewClient creates a repository client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = mvn.DefaultRemoteRepository
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Client{
		Client: integrations.NewClient(integrations.Options{
			Timeout: opts.Timeout,
			Headers: map[string]string{"User-Agent": "jarlens"},
		}),
		baseURL: opts.BaseURL,
		logger:  opts.Logger,
	}
}

// BaseURL returns the repository root this client downloads from.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchPOM downloads the manifest for coord.
//
// Returns an error with code NOT_FOUND_REMOTELY when the repository has no
// such POM, and REMOTE_FETCH for every other failure.
func (c *Client) FetchPOM(ctx context.Context, coord mvn.Coordinate) ([]byte, error) {
	return c.fetch(ctx, coord, mvn.ClassifierNone, mvn.ExtPOM)
}

// FetchArchive downloads the jar for coord with the given classifier
// ("" for the primary archive, "sources" or "javadoc" for sidecars).
// Errors are coded as for [Client.FetchPOM].
func (c *Client) FetchArchive(ctx context.Context, coord mvn.Coordinate, classifier string) ([]byte, error) {
	return c.fetch(ctx, coord, classifier, mvn.ExtJar)
}

func (c *Client) fetch(ctx context.Context, coord mvn.Coordinate, classifier, ext string) ([]byte, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	url := mvn.RemoteURL(c.baseURL, coord, classifier, ext)
	c.logger.Debug("fetching", "url", url)

	data, err := c.GetBytes(ctx, url)
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, jlerrors.Wrap(jlerrors.ErrCodeNotFoundRemotely, err, "%s not in %s", mvn.ArtifactPath(coord, classifier, ext), c.baseURL)
		}
		return nil, jlerrors.Wrap(jlerrors.ErrCodeRemoteFetch, err, "fetch %s", url)
	}
	return data, nil
}
