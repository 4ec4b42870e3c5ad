package github

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/rohankatakam/csmell/internal/errors"
	"github.com/rohankatakam/csmell/internal/source"
)

// Client wraps the GitHub API client with rate limiting and concurrency
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	maxWorkers  int
}

// NewClient creates a new GitHub client with rate limiting.
// An empty token makes unauthenticated requests.
func NewClient(token string, rateLimit int) *Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if rateLimit <= 0 {
		rateLimit = 10
	}

	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		maxWorkers:  8, // Concurrent API calls
	}
}

// WithBaseURL points the client at another API root (GitHub Enterprise)
func (c *Client) WithBaseURL(base string) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c.client.BaseURL = u
	return c, nil
}

// Location names a file or directory in a repository: owner/repo[/path][@ref]
type Location struct {
	Owner string
	Repo  string
	Path  string
	Ref   string // branch, tag or SHA; empty means the default branch
}

// ParseLocation parses owner/repo[/path][@ref]
func ParseLocation(s string) (Location, error) {
	var loc Location
	if i := strings.LastIndex(s, "@"); i >= 0 {
		loc.Ref = s[i+1:]
		s = s[:i]
		if loc.Ref == "" {
			return Location{}, errors.ValidationErrorf("empty ref in github location %q", s)
		}
	}

	parts := strings.SplitN(strings.Trim(s, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Location{}, errors.ValidationErrorf("github location must be owner/repo[/path][@ref], got %q", s)
	}
	loc.Owner, loc.Repo = parts[0], parts[1]
	if len(parts) == 3 {
		loc.Path = parts[2]
	}
	return loc, nil
}

func (l Location) String() string {
	s := l.Owner + "/" + l.Repo
	if l.Path != "" {
		s += "/" + l.Path
	}
	if l.Ref != "" {
		s += "@" + l.Ref
	}
	return s
}

func (l Location) name(path string) string {
	return l.Owner + "/" + l.Repo + "/" + path
}

// FetchSources loads the file at loc, or every Python file below loc when it
// names a directory. Sources are returned sorted by path.
func (c *Client) FetchSources(ctx context.Context, loc Location) ([]source.Source, error) {
	file, dir, err := c.getContents(ctx, loc, loc.Path)
	if err != nil {
		return nil, err
	}
	if file != nil {
		content, err := file.GetContent()
		if err != nil {
			return nil, errors.ExternalErrorf(err, "decode %s", loc)
		}
		return []source.Source{{Name: loc.name(file.GetPath()), Text: content}}, nil
	}

	paths, err := c.listPython(ctx, loc, dir)
	if err != nil {
		return nil, err
	}
	return c.fetchFiles(ctx, loc, paths)
}

func (c *Client) getContents(ctx context.Context, loc Location, path string) (*github.RepositoryContent, []*github.RepositoryContent, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter: %w", err)
	}

	opts := &github.RepositoryContentGetOptions{Ref: loc.Ref}
	file, dir, _, err := c.client.Repositories.GetContents(ctx, loc.Owner, loc.Repo, path, opts)
	if err != nil {
		return nil, nil, errors.ExternalErrorf(err, "fetch contents %s", loc.name(path))
	}
	return file, dir, nil
}

// listPython walks directory listings breadth first
func (c *Client) listPython(ctx context.Context, loc Location, entries []*github.RepositoryContent) ([]string, error) {
	var paths []string
	queue := entries
	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		switch entry.GetType() {
		case "file":
			if source.IsPython(entry.GetPath()) {
				paths = append(paths, entry.GetPath())
			}
		case "dir":
			_, children, err := c.getContents(ctx, loc, entry.GetPath())
			if err != nil {
				return nil, err
			}
			queue = append(queue, children...)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (c *Client) fetchFiles(ctx context.Context, loc Location, paths []string) ([]source.Source, error) {
	sources := make([]source.Source, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)
	for i, path := range paths {
		g.Go(func() error {
			file, _, err := c.getContents(ctx, loc, path)
			if err != nil {
				return err
			}
			if file == nil {
				return errors.ExternalErrorf(fmt.Errorf("not a file"), "fetch %s", loc.name(path))
			}
			content, err := file.GetContent()
			if err != nil {
				return errors.ExternalErrorf(err, "decode %s", loc.name(path))
			}
			sources[i] = source.Source{Name: loc.name(path), Text: content}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}
