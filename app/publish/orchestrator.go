// Author: DoItWithASmile (2025). Apache 2.0 License

package publish

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DoItWithASmile/git-it-write/app/config"
	"github.com/DoItWithASmile/git-it-write/app/errs"
	"github.com/DoItWithASmile/git-it-write/app/gh"
	"github.com/DoItWithASmile/git-it-write/app/logging"
	"github.com/DoItWithASmile/git-it-write/app/render"
	"github.com/DoItWithASmile/git-it-write/app/settings"
	"github.com/DoItWithASmile/git-it-write/app/store"
	"github.com/DoItWithASmile/git-it-write/app/tree"
)

// TreeFetcher retrieves the remote tree for one repository branch.
type TreeFetcher interface {
	Fetch(ctx context.Context, owner, repo, branch string) (*tree.RemoteTree, error)
}

// Orchestrator runs publishes for configured repositories. Trees fetched
// within one orchestration pass are cached per (owner, repo, branch) behind
// a single-flight guard, so several configurations targeting the same
// branch trigger exactly one listing.
type Orchestrator struct {
	Engine           *Engine
	Fetcher          TreeFetcher
	Workers          int
	AllowedFileTypes []string
}

// NewOrchestrator wires the orchestrator against the configured content
// store and the GitHub credentials from the general settings.
func NewOrchestrator(ctx context.Context) (*Orchestrator, error) {
	fetcher, err := gh.NewFetcher(ctx)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		Engine: &Engine{
			Store:    store.NewClient(),
			Raw:      fetcher,
			Renderer: render.NewRenderer(),
		},
		Fetcher: fetcher,
	}, nil
}

// PublishByID publishes the repository with the given configuration id.
func (o *Orchestrator) PublishByID(ctx context.Context, id string) (Summary, error) {
	if id == "" {
		return Summary{}, errs.New(errs.ValidationFailed, "repository_id_invalid", "repository configuration id is empty")
	}
	cfg, ok, err := settings.Repository(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return Summary{}, errs.Newf(errs.NotConfigured, "repository_unknown", "repository configuration %v not found on server", id)
	}
	return o.PublishConfig(ctx, cfg)
}

// PublishConfig publishes one repository configuration.
func (o *Orchestrator) PublishConfig(ctx context.Context, cfg settings.RepositoryConfig) (Summary, error) {
	return o.publish(ctx, cfg, newRunCache())
}

// PublishByFullName publishes every configuration matching the owner/repo
// full name as delivered by a push notification. Matching is branch
// agnostic: a repository configured under several branches is published
// for each of them.
func (o *Orchestrator) PublishByFullName(ctx context.Context, fullName string) ([]Summary, error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errs.Newf(errs.ValidationFailed, "repository_name_invalid", "repository name %q does not follow syntax <owner>/<repository>", fullName)
	}
	owner, repo := parts[0], parts[1]

	all, err := settings.Repositories(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cache := newRunCache()
	summaries := []Summary{}
	matched := false
	for _, id := range ids {
		cfg := all[id]
		if cfg.Owner != owner || cfg.Repo != repo {
			continue
		}
		matched = true
		logging.Logger.Printf("[repo %q] FOUND matching configuration %v\n", fullName, cfg)

		summary, err := o.publish(ctx, cfg, cache)
		if err != nil {
			logging.Logger.Printf("[repo %q] ERROR publishing configuration %v: %v\n", fullName, id, err)
			continue
		}
		summaries = append(summaries, summary)
	}
	if !matched {
		return nil, errs.Newf(errs.NotConfigured, "repository_unknown", "repository %q is not configured on server", fullName)
	}
	return summaries, nil
}

func (o *Orchestrator) publish(ctx context.Context, cfg settings.RepositoryConfig, cache *runCache) (Summary, error) {
	logging.Logger.Printf("[repo %v] ********** START publishing **********\n", cfg)

	unlock, err := o.lock(ctx, cfg)
	if err != nil {
		return Summary{}, err
	}
	defer unlock()

	remoteTree, err := cache.fetch(ctx, o.Fetcher, cfg.Owner, cfg.Repo, cfg.Branch)
	if err != nil {
		return Summary{}, err
	}

	files := o.matchFiles(remoteTree, cfg)
	if len(files) == 0 {
		return Summary{}, errs.Newf(errs.NotConfigured, "no_matching_files", "no publishable files for %v", cfg)
	}

	summary := Summary{
		ConfigId: cfg.Id,
		Owner:    cfg.Owner,
		Repo:     cfg.Repo,
		Branch:   cfg.Branch,
	}
	for result := range o.reconcileAll(ctx, files, cfg) {
		summary.add(result)
	}

	if cfg.Id != "" {
		if err := settings.TouchLastPublish(ctx, cfg.Id, time.Now()); err != nil {
			logging.Logger.Printf("[repo %v] failed to record last publish time: %v\n", cfg, err)
		}
	}
	logging.Logger.Printf("[repo %v] ********** END: %v created, %v updated, %v skipped, %v failed **********\n",
		cfg, summary.Created, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

// matchFiles selects the publishable leaves: inside the configured folder
// and of an allowed file type.
func (o *Orchestrator) matchFiles(remoteTree *tree.RemoteTree, cfg settings.RepositoryConfig) []*tree.RemoteFile {
	allowed := o.AllowedFileTypes
	if len(allowed) == 0 {
		allowed = config.AllowedFileTypes()
	}
	allowedSet := map[string]bool{}
	for _, t := range allowed {
		allowedSet[strings.ToLower(t)] = true
	}

	folder := strings.Trim(cfg.Folder, "/")
	files := []*tree.RemoteFile{}
	remoteTree.WalkFiles(func(f *tree.RemoteFile) {
		if folder != "" && !strings.HasPrefix(f.Path, folder+"/") {
			return
		}
		if !allowedSet[f.FileType] {
			return
		}
		files = append(files, f)
	})
	return files
}

// reconcileAll runs the engine over the files with a bounded worker pool.
// Every file maps to its own record, so files are safe to reconcile
// concurrently.
func (o *Orchestrator) reconcileAll(ctx context.Context, files []*tree.RemoteFile, cfg settings.RepositoryConfig) <-chan Result {
	workers := o.Workers
	if workers < 1 {
		workers = config.PublishWorkers()
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan *tree.RemoteFile)
	results := make(chan Result)
	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				results <- o.Engine.Reconcile(ctx, f, cfg)
			}
		}()
	}
	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()
	return results
}

// lock guards one configuration against overlapping publish runs.
func (o *Orchestrator) lock(ctx context.Context, cfg settings.RepositoryConfig) (func(), error) {
	key := "giw lock: " + cfg.Id + " " + cfg.String()
	ok := config.GetRedis().SetNX(ctx, key, true, config.LockMaxDuration)
	if ok.Err() != nil {
		return nil, fmt.Errorf("failed to acquire publish lock for %v: %w", cfg, ok.Err())
	}
	if !ok.Val() {
		return nil, fmt.Errorf("publish for %v is already in progress", cfg)
	}
	return func() {
		config.GetRedis().Del(context.WithoutCancel(ctx), key)
	}, nil
}

// runCache caches fetched trees for the duration of one orchestration
// pass. Concurrent requests for the same key trigger exactly one fetch.
type runCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	tree *tree.RemoteTree
	err  error
}

func newRunCache() *runCache {
	return &runCache{entries: map[string]*cacheEntry{}}
}

func (c *runCache) fetch(ctx context.Context, fetcher TreeFetcher, owner, repo, branch string) (*tree.RemoteTree, error) {
	key := owner + "/" + repo + "#" + branch
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
	}
	c.mu.Unlock()
	e.once.Do(func() {
		e.tree, e.err = fetcher.Fetch(ctx, owner, repo, branch)
	})
	return e.tree, e.err
}
