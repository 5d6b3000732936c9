package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/metrics"
	"git.home.luguber.info/inful/markupdown/internal/retry"
)

// Source describes the repository to clone.
type Source struct {
	URL string
	// Ref is a branch name. Empty clones the remote HEAD.
	Ref string
	// Depth limits history; 0 clones everything.
	Depth int
	// Token authenticates HTTP(S) remotes.
	Token string
}

// Client clones repositories below a base directory.
type Client struct {
	baseDir  string
	policy   retry.Policy
	recorder metrics.Recorder
}

// NewClient creates a Client that clones into baseDir.
func NewClient(baseDir string) *Client {
	return &Client{
		baseDir:  baseDir,
		policy:   retry.DefaultPolicy(),
		recorder: metrics.NoopRecorder{},
	}
}

// WithPolicy sets the retry policy.
func (c *Client) WithPolicy(p retry.Policy) *Client {
	c.policy = p
	return c
}

// WithRecorder sets the metrics recorder.
func (c *Client) WithRecorder(r metrics.Recorder) *Client {
	if r != nil {
		c.recorder = r
	}
	return c
}

// Clone clones src into a fresh directory below the base directory and
// returns its path. An existing directory of the same name is replaced.
func (c *Client) Clone(ctx context.Context, src Source) (string, error) {
	if src.URL == "" {
		return "", errors.ValidationError("source repository URL is empty").Build()
	}
	repoPath := filepath.Join(c.baseDir, RepoName(src.URL))

	opts := &git.CloneOptions{URL: src.URL, Depth: src.Depth}
	if src.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Ref)
		opts.SingleBranch = true
	}
	if auth := authFor(src); auth != nil {
		opts.Auth = auth
	}

	slog.Debug("Cloning content source", logfields.URL(src.URL), slog.String("ref", src.Ref), logfields.Path(repoPath))

	start := time.Now()
	var repo *git.Repository
	err := c.policy.Do(ctx, func(attempt int) error {
		if attempt > 0 {
			slog.Warn("Retrying clone", logfields.URL(src.URL), slog.Int("attempt", attempt))
		}
		if err := os.RemoveAll(repoPath); err != nil {
			return fmt.Errorf("remove existing directory: %w", err)
		}
		var err error
		repo, err = git.PlainCloneContext(ctx, repoPath, false, opts)
		return err
	}, isPermanentGitError)
	c.recorder.ObserveCloneDuration(time.Since(start), err == nil)
	if err != nil {
		return "", classifyCloneError(err, src)
	}

	attrs := []any{logfields.URL(src.URL), logfields.Path(repoPath)}
	if head, herr := repo.Head(); herr == nil {
		attrs = append(attrs, slog.String("commit", head.Hash().String()[:8]))
	}
	slog.Info("Content source cloned", attrs...)
	return repoPath, nil
}

// RepoName derives a directory name from a repository URL or path.
func RepoName(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	if i := strings.LastIndex(p, ":"); i >= 0 {
		p = p[i+1:]
	}
	name := strings.TrimSuffix(path.Base(filepath.ToSlash(strings.TrimRight(p, "/"))), ".git")
	if name == "" || name == "." || name == "/" {
		return "source"
	}
	return name
}

func authFor(src Source) transport.AuthMethod {
	if src.Token == "" {
		return nil
	}
	return &http.BasicAuth{Username: "markupdown", Password: src.Token}
}

func classifyCloneError(err error, src Source) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	category := errors.CategoryNetwork
	switch {
	case isNotFound(err):
		category = errors.CategorySourceNotFound
	case isAuthError(err):
		category = errors.CategoryConfig
	}
	return errors.WrapError(err, category, "failed to clone content source").
		WithContext("url", src.URL).
		WithContext("ref", src.Ref).
		Build()
}
