package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

// GitHub mirrors the document to a file in a GitHub repository through the
// contents API. The blob SHA of the file is the version token.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	path   string
	branch string
}

// NewGitHub creates a contents API remote. A nil client uses http.DefaultClient.
// BaseURL points the client at GitHub Enterprise or a test server.
func NewGitHub(cfg *Config, client *http.Client) (*GitHub, error) {
	gh := github.NewClient(client).WithAuthToken(cfg.Token)

	if cfg.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse base_url: %w", err)
		}
		gh.BaseURL = u
	}

	return &GitHub{
		client: gh,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		path:   cfg.Path,
		branch: cfg.Branch,
	}, nil
}

func (g *GitHub) Target() string {
	target := fmt.Sprintf("%s/%s/%s", g.owner, g.repo, g.path)
	if g.branch != "" {
		target += "@" + g.branch
	}
	return target
}

func (g *GitHub) Version(ctx context.Context) (string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: g.branch}

	file, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, g.path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("get contents %s: %w", g.path, err)
	}
	if file == nil {
		return "", fmt.Errorf("get contents %s: path is a directory", g.path)
	}

	return file.GetSHA(), nil
}

func (g *GitHub) Put(ctx context.Context, content []byte, message, version string) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
	}
	if g.branch != "" {
		opts.Branch = github.String(g.branch)
	}

	var (
		result *github.RepositoryContentResponse
		resp   *github.Response
		err    error
	)
	if version == "" {
		result, resp, err = g.client.Repositories.CreateFile(ctx, g.owner, g.repo, g.path, opts)
	} else {
		opts.SHA = github.String(version)
		result, resp, err = g.client.Repositories.UpdateFile(ctx, g.owner, g.repo, g.path, opts)
	}

	if err != nil {
		if isConflict(resp, err) {
			return "", fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return "", fmt.Errorf("put contents %s: %w", g.path, err)
	}

	if result == nil || result.Content == nil {
		return "", nil
	}
	return result.Content.GetSHA(), nil
}

// GitHub answers a stale sha with 409 and a missing sha for an existing file
// with 422.
func isConflict(resp *github.Response, err error) bool {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return true
		}
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return true
		}
	}
	return false
}
