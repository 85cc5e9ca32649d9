// Author: DoItWithASmile (2025). Apache 2.0 License

package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/DoItWithASmile/git-it-write/app/store"
)

// FakePost is one record held by the fake content store.
type FakePost struct {
	Id     int64
	Slug   string
	Type   string
	Props  map[string]interface{}
	Sticky bool
	Terms  map[string][]string
	Cover  string
}

// FakeStore is an in-memory content store for testing. Failures can be
// injected per operation name; Calls records every operation in order.
type FakeStore struct {
	sync.Mutex
	Posts      map[int64]*FakePost
	Taxonomies map[string]bool
	Fail       map[string]error
	Calls      []string
	nextId     int64
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		Posts:      map[int64]*FakePost{},
		Taxonomies: map[string]bool{"category": true, "post_tag": true},
		Fail:       map[string]error{},
		nextId:     100,
	}
}

func (f *FakeStore) record(call string) error {
	f.Calls = append(f.Calls, call)
	return f.Fail[call]
}

func (f *FakeStore) FindPost(ctx context.Context, slug, postType string) (int64, string, bool, error) {
	f.Lock()
	defer f.Unlock()
	if err := f.record("FindPost"); err != nil {
		return 0, "", false, err
	}
	for _, p := range f.Posts {
		if p.Slug == slug && p.Type == postType {
			sha, _ := shaOf(p.Props)
			return p.Id, sha, true, nil
		}
	}
	return 0, "", false, nil
}

func shaOf(props map[string]interface{}) (string, bool) {
	meta, ok := props["meta_input"].(map[string]interface{})
	if !ok {
		return "", false
	}
	sha, ok := meta["giw_sha"].(string)
	return sha, ok
}

func (f *FakeStore) CreateOrUpdatePost(ctx context.Context, props map[string]interface{}) (int64, error) {
	f.Lock()
	defer f.Unlock()
	if err := f.record("CreateOrUpdatePost"); err != nil {
		return 0, err
	}
	postType, _ := props["post_type"].(string)
	slug, _ := props["post_name"].(string)
	if id, ok := props["ID"].(int64); ok && id != 0 {
		p, ok := f.Posts[id]
		if !ok {
			return 0, fmt.Errorf("post %v not found", id)
		}
		p.Props = props
		return id, nil
	}
	f.nextId++
	p := &FakePost{
		Id:    f.nextId,
		Slug:  slug,
		Type:  postType,
		Props: props,
		Terms: map[string][]string{},
	}
	f.Posts[p.Id] = p
	return p.Id, nil
}

func (f *FakeStore) SetSticky(ctx context.Context, id int64, sticky bool) error {
	f.Lock()
	defer f.Unlock()
	if err := f.record("SetSticky"); err != nil {
		return err
	}
	if p, ok := f.Posts[id]; ok {
		p.Sticky = sticky
	}
	return nil
}

func (f *FakeStore) ClearTermRelationships(ctx context.Context, id int64, postType string) error {
	f.Lock()
	defer f.Unlock()
	if err := f.record("ClearTermRelationships"); err != nil {
		return err
	}
	if p, ok := f.Posts[id]; ok {
		p.Terms = map[string][]string{}
	}
	return nil
}

func (f *FakeStore) AssignTerms(ctx context.Context, id int64, postType, taxonomy string, terms []string) error {
	f.Lock()
	defer f.Unlock()
	if err := f.record("AssignTerms " + taxonomy); err != nil {
		return err
	}
	if !f.Taxonomies[taxonomy] {
		return fmt.Errorf("%w: %v", store.ErrUnknownTaxonomy, taxonomy)
	}
	if p, ok := f.Posts[id]; ok {
		if p.Terms == nil {
			p.Terms = map[string][]string{}
		}
		p.Terms[taxonomy] = terms
	}
	return nil
}

func (f *FakeStore) AttachCoverImage(ctx context.Context, id int64, sourceURL string) error {
	f.Lock()
	defer f.Unlock()
	if err := f.record("AttachCoverImage"); err != nil {
		return err
	}
	if p, ok := f.Posts[id]; ok {
		p.Cover = sourceURL
	}
	return nil
}

// PostBySlug is a test convenience accessor.
func (f *FakeStore) PostBySlug(slug string) *FakePost {
	f.Lock()
	defer f.Unlock()
	for _, p := range f.Posts {
		if p.Slug == slug {
			return p
		}
	}
	return nil
}
