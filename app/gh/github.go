// Author: DoItWithASmile (2025). Apache 2.0 License

package gh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/DoItWithASmile/git-it-write/app/config"
	"github.com/DoItWithASmile/git-it-write/app/errs"
	"github.com/DoItWithASmile/git-it-write/app/logging"
	"github.com/DoItWithASmile/git-it-write/app/settings"
	"github.com/DoItWithASmile/git-it-write/app/tree"

	"github.com/google/go-github/github"
	"golang.org/x/oauth2"
)

// Fetcher retrieves recursive tree listings and raw file contents from
// GitHub. Username and Token come from the general settings; BaseURL is
// empty for github.com.
type Fetcher struct {
	Username   string
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewFetcher builds a fetcher with the credentials from the general
// settings and the configured API base url.
func NewFetcher(ctx context.Context) (*Fetcher, error) {
	general, err := settings.General(ctx)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		Username: general.GithubUsername,
		Token:    general.GithubAccessToken,
		BaseURL:  config.GithubApiUrl(),
	}, nil
}

func (f *Fetcher) client(ctx context.Context) (*github.Client, error) {
	var hc *http.Client
	switch {
	case f.Username != "" && f.Token != "":
		hc = &http.Client{Transport: &github.BasicAuthTransport{
			Username:  f.Username,
			Password:  f.Token,
			Transport: f.transport(),
		}}
	case f.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: f.Token})
		hc = oauth2.NewClient(ctx, ts)
	default:
		hc = f.HTTPClient
	}
	client := github.NewClient(hc)
	if f.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(f.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API base url %v: %w", f.BaseURL, err)
		}
		client.BaseURL = base
	}
	return client, nil
}

func (f *Fetcher) transport() http.RoundTripper {
	if f.HTTPClient != nil {
		return f.HTTPClient.Transport
	}
	return nil
}

// Fetch retrieves the recursive tree listing for a branch and folds it into
// a RemoteTree.
func (f *Fetcher) Fetch(ctx context.Context, owner, repo, branch string) (*tree.RemoteTree, error) {
	client, err := f.client(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.RemoteUnavailable, "github_client", err)
	}
	tr, resp, err := client.Git.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		return nil, treeError(owner, repo, branch, resp, err)
	}
	logging.Logger.Printf("%v/%v#%v: fetched tree with %v entries\n", owner, repo, branch, len(tr.Entries))

	entries := make([]tree.Entry, 0, len(tr.Entries))
	for _, e := range tr.Entries {
		entries = append(entries, tree.Entry{
			Path: e.GetPath(),
			Type: e.GetType(),
			Sha:  e.GetSHA(),
		})
	}
	return tree.Build(owner, repo, branch, entries), nil
}

func treeError(owner, repo, branch string, resp *github.Response, err error) error {
	if resp == nil {
		return errs.Newf(errs.RemoteUnavailable, "github_unreachable", "failed to fetch tree for %v/%v#%v: %v", owner, repo, branch, err)
	}
	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		return errs.Newf(errs.RemoteNotFound, "tree_not_found", "no tree for %v/%v#%v", owner, repo, branch)
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.Newf(errs.RemoteUnauthorized, "github_unauthorized", "credentials rejected for %v/%v#%v", owner, repo, branch)
	}
	return errs.Newf(errs.RemoteUnavailable, "github_error", "failed to fetch tree for %v/%v#%v: %v", owner, repo, branch, err)
}

// RawContent fetches the raw bytes of a file using basic authentication.
func (f *Fetcher) RawContent(ctx context.Context, file *tree.RemoteFile) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.RawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.RemoteUnavailable, "raw_request", err)
	}
	if f.Username != "" || f.Token != "" {
		req.SetBasicAuth(f.Username, f.Token)
	}
	hc := f.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, errs.Newf(errs.RemoteUnavailable, "raw_unreachable", "failed to fetch %v: %v", file.RawURL, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errs.Newf(errs.RemoteNotFound, "raw_not_found", "no content at %v", file.RawURL)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errs.Newf(errs.RemoteUnauthorized, "raw_unauthorized", "credentials rejected for %v", file.RawURL)
	case resp.StatusCode != http.StatusOK:
		return nil, errs.Newf(errs.RemoteUnavailable, "raw_error", "unexpected status %v for %v", resp.StatusCode, file.RawURL)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.RemoteUnavailable, "raw_read", err)
	}
	return b, nil
}
