// Author: DoItWithASmile (2025). Apache 2.0 License

package publish

import (
	"context"
	"errors"
	"sort"

	"github.com/DoItWithASmile/git-it-write/app/logging"
	"github.com/DoItWithASmile/git-it-write/app/record"
	"github.com/DoItWithASmile/git-it-write/app/render"
	"github.com/DoItWithASmile/git-it-write/app/settings"
	"github.com/DoItWithASmile/git-it-write/app/store"
	"github.com/DoItWithASmile/git-it-write/app/tree"
)

const (
	shaMetaKey       = "giw_sha"
	githubURLMetaKey = "giw_github_url"
)

// RawFetcher retrieves the raw bytes of one remote file.
type RawFetcher interface {
	RawContent(ctx context.Context, file *tree.RemoteFile) ([]byte, error)
}

// Engine reconciles one remote file into one content record. The upsert is
// the only step that can fail the whole file; the remaining side effects
// roll forward, recording their first failure on the record.
type Engine struct {
	Store    store.ContentStore
	Raw      RawFetcher
	Renderer render.Renderer
}

func (e *Engine) Reconcile(ctx context.Context, file *tree.RemoteFile, cfg settings.RepositoryConfig) Result {
	rec, err := e.buildRecord(ctx, file, cfg)
	if err != nil {
		logging.Logger.Printf("%v: ERROR failed to prepare record: %v\n", file, err)
		return Result{Path: file.Path, Outcome: Failed, Err: err}
	}

	outcome, err := e.createOrUpdate(ctx, rec, file)
	if err != nil {
		logging.Logger.Printf("%v: ERROR failed to publish: %v\n", file, err)
		return Result{Path: file.Path, Outcome: Failed, Err: err}
	}
	logging.Logger.Printf("%v: %v as %v\n", file, outcome, rec)

	e.updateStickiness(ctx, rec)
	e.updateTaxonomies(ctx, rec, true)
	e.updateCoverImage(ctx, rec)

	return Result{Path: file.Path, Outcome: outcome}
}

// buildRecord fetches the file contents and assembles the content record
// from front matter, configuration defaults and the rendered body.
func (e *Engine) buildRecord(ctx context.Context, file *tree.RemoteFile, cfg settings.RepositoryConfig) (*record.Record, error) {
	raw, err := e.Raw.RawContent(ctx, file)
	if err != nil {
		return nil, err
	}
	props, body, err := render.SplitFrontMatter(raw)
	if err != nil {
		return nil, err
	}

	rec := record.New()
	for name, value := range props {
		if err := rec.Meta.Set(name, value); err != nil {
			logging.Logger.Printf("%v: SKIP property %v: %v\n", file, name, err)
		}
	}
	rec.Meta.Set(record.PropType, cfg.PostType)
	rec.Meta.Set(record.PropName, file.Slug)
	if !rec.Meta.HasValue(record.PropAuthor) {
		rec.Meta.Set(record.PropAuthor, cfg.PostAuthor)
	}
	if !rec.Meta.HasValue(record.PropTitle) {
		rec.Meta.Set(record.PropTitle, file.Slug)
	}
	if !rec.Meta.HasValue(record.PropStatus) {
		rec.Meta.Set(record.PropStatus, "publish")
	}

	html, err := e.Renderer.Render(body)
	if err != nil {
		return nil, err
	}
	rec.Meta.Set(record.PropContent, render.ApplyTemplate(cfg.ContentTemplate, html))

	meta := map[string]interface{}{}
	if v, ok := rec.Meta.Get(record.PropMetaInput); ok {
		if existing, ok := v.(map[string]interface{}); ok {
			for k, val := range existing {
				meta[k] = val
			}
		}
	}
	meta[shaMetaKey] = file.Sha
	meta[githubURLMetaKey] = file.GithubURL
	rec.Meta.Set(record.PropMetaInput, meta)

	return rec, nil
}

// createOrUpdate resolves the record identity by slug and applies the
// upsert. Skipped certifies only that a record with the same remote hash
// already exists, not that nothing else differs on the store side.
func (e *Engine) createOrUpdate(ctx context.Context, rec *record.Record, file *tree.RemoteFile) (Outcome, error) {
	rec.ClearError()

	id, knownSha, found, err := e.Store.FindPost(ctx, rec.Slug(), rec.PostType())
	if err != nil {
		rec.SetError(err)
		return Failed, err
	}
	if found {
		rec.SetID(id)
		if knownSha == file.Sha {
			return Skipped, nil
		}
	}

	newId, err := e.Store.CreateOrUpdatePost(ctx, rec.PostAttributes())
	if err != nil {
		rec.SetError(err)
		return Failed, err
	}
	if newId == 0 {
		err := errors.New("post ID is empty")
		rec.SetError(err)
		return Failed, err
	}
	rec.SetID(newId)
	if found {
		return Updated, nil
	}
	return Created, nil
}

// updateStickiness asserts the visibility flag unconditionally; the store
// treats re-asserting the same state as a no-op.
func (e *Engine) updateStickiness(ctx context.Context, rec *record.Record) {
	rec.ClearError()
	if rec.Sticky() {
		logging.Logger.Printf("%v: SET sticky\n", rec)
	} else {
		logging.Logger.Printf("%v: UNSET sticky\n", rec)
	}
	if err := e.Store.SetSticky(ctx, rec.ID(), rec.Sticky()); err != nil {
		rec.SetError(err)
		logging.Logger.Printf("%v: FAILED to update sticky flag: %v\n", rec, err)
	}
}

// updateTaxonomies optionally clears existing term relationships, then
// assigns each configured taxonomy. Unknown taxonomy names are skipped;
// only failures on recognized taxonomies count as a step failure.
func (e *Engine) updateTaxonomies(ctx context.Context, rec *record.Record, clearOld bool) {
	rec.ClearError()

	if clearOld {
		if err := e.Store.ClearTermRelationships(ctx, rec.ID(), rec.PostType()); err != nil {
			rec.SetError(err)
			logging.Logger.Printf("%v: FAILED to clear term relationships: %v\n", rec, err)
		}
	}

	taxonomyMap := rec.TaxonomyMap()
	if len(taxonomyMap) == 0 {
		logging.Logger.Printf("%v: SKIP taxonomies - none set\n", rec)
		return
	}

	names := make([]string, 0, len(taxonomyMap))
	for name := range taxonomyMap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		err := e.Store.AssignTerms(ctx, rec.ID(), rec.PostType(), name, taxonomyMap[name])
		if errors.Is(err, store.ErrUnknownTaxonomy) {
			logging.Logger.Printf("%v: SKIP taxonomy [%v] - does not exist\n", rec, name)
			continue
		}
		if err != nil {
			rec.SetError(err)
			logging.Logger.Printf("%v: FAILED to add taxonomy [%v]: %v\n", rec, name, err)
			continue
		}
		logging.Logger.Printf("%v: ADD taxonomy [%v]\n", rec, name)
	}
}

// updateCoverImage attaches the cover image when one is set.
func (e *Engine) updateCoverImage(ctx context.Context, rec *record.Record) {
	rec.ClearError()

	imageURL := rec.FeaturedImageURL()
	if imageURL == "" {
		logging.Logger.Printf("%v: SKIP cover image - not set\n", rec)
		return
	}
	logging.Logger.Printf("%v: UPLOAD cover image [%v]\n", rec, imageURL)
	if err := e.Store.AttachCoverImage(ctx, rec.ID(), imageURL); err != nil {
		rec.SetError(err)
		logging.Logger.Printf("%v: FAILED to attach cover image: %v\n", rec, err)
	}
}
