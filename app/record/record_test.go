// Author: DoItWithASmile (2025). Apache 2.0 License

package record

import (
	"errors"
	"testing"
)

func TestRecordDefaultsAndAliases(t *testing.T) {
	r := New()
	if got := r.PostType(); got != "post" {
		t.Errorf("expected default post type, got %v", got)
	}
	if r.Sticky() {
		t.Error("expected sticky to default to false")
	}

	r.Meta.Set("slug", "intro")
	if got := r.Slug(); got != "intro" {
		t.Errorf("expected slug alias to map to post_name, got %v", got)
	}
	r.Meta.Set("image", "https://example.org/cover.png")
	if got := r.FeaturedImageURL(); got != "https://example.org/cover.png" {
		t.Errorf("unexpected featured image %v", got)
	}
	r.Meta.Set("stick_post", true)
	if !r.Sticky() {
		t.Error("expected stick_post alias to set sticky")
	}
	r.Meta.Set("title", "Intro")
	if v, _ := r.Meta.Get("post_title"); v != "Intro" {
		t.Errorf("expected title alias to map to post_title, got %v", v)
	}
}

func TestRecordTaxonomyMapNormalization(t *testing.T) {
	r := New()
	r.Meta.Set(PropTaxonomy, map[string]interface{}{
		"category": "guides",
		"post_tag": []interface{}{"go", "sync"},
	})
	got := r.TaxonomyMap()
	if len(got["category"]) != 1 || got["category"][0] != "guides" {
		t.Errorf("unexpected category terms %v", got["category"])
	}
	if len(got["post_tag"]) != 2 {
		t.Errorf("unexpected tag terms %v", got["post_tag"])
	}
}

func TestRecordErrorSlot(t *testing.T) {
	r := New()
	first := errors.New("first")
	r.SetError(first)
	r.SetError(errors.New("second"))
	if r.Err() != first {
		t.Errorf("expected first failure to stick, got %v", r.Err())
	}
	r.ClearError()
	if r.HasError() {
		t.Error("expected error slot to be cleared")
	}
}

func TestRecordPostAttributesExcludeExtensions(t *testing.T) {
	r := New()
	r.Meta.Set(PropTitle, "Intro")
	r.Meta.Set(PropSticky, true)
	r.Meta.Set(PropFeaturedImage, "x")

	attrs := r.PostAttributes()
	if attrs[PropTitle] != "Intro" {
		t.Errorf("expected title in attributes, got %v", attrs)
	}
	if _, ok := attrs[PropSticky]; ok {
		t.Error("sticky is not a native post attribute")
	}
	if _, ok := attrs[PropFeaturedImage]; ok {
		t.Error("featured image is not a native post attribute")
	}
}
