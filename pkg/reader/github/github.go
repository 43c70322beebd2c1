// Package github implements reader.Reader against a GitHub repository, so a
// pack call can pull files straight from a hosted repo without a checkout.
package github

import (
	"context"
	"fmt"
	"strings"

	gogh "github.com/google/go-github/v68/github"

	"github.com/readpack/readpack/pkg/reader"
)

// Reader fetches file contents from one GitHub repository via the contents
// API.
type Reader struct {
	gh    *gogh.Client
	owner string
	repo  string
	ref   string // branch, tag, or SHA; empty means the default branch
}

// New creates a GitHub reader for "owner/repo" at the given ref. The token
// may be empty for public repositories.
func New(repoFullName, ref, token string) (*Reader, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}
	gh := gogh.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	return &Reader{gh: gh, owner: owner, repo: repo, ref: ref}, nil
}

// WithBaseURL points the underlying client at a different API endpoint
// (GitHub Enterprise, or a test server).
func (r *Reader) WithBaseURL(baseURL string) error {
	gh, err := r.gh.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return fmt.Errorf("setting base URL: %w", err)
	}
	r.gh = gh
	return nil
}

// ReadFile fetches one file's contents and applies the request's offset/limit
// line window. Directory paths are rejected.
func (r *Reader) ReadFile(ctx context.Context, req reader.Request) (*reader.Result, error) {
	opts := &gogh.RepositoryContentGetOptions{Ref: r.ref}
	file, _, _, err := r.gh.Repositories.GetContents(ctx, r.owner, r.repo, req.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", req.Path, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s is a directory, not a file", req.Path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", req.Path, err)
	}

	content = strings.TrimSuffix(content, "\n")
	text, trunc := reader.Window(content, req.Offset, req.Limit)
	return &reader.Result{
		Fragments:  []reader.Fragment{{Text: text}},
		Truncation: trunc,
	}, nil
}

func splitRepo(fullName string) (owner, repo string, err error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format %q, expected \"owner/repo\"", fullName)
	}
	return parts[0], parts[1], nil
}
