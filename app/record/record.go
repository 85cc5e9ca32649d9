// Author: DoItWithASmile (2025). Apache 2.0 License

package record

import (
	"fmt"
)

// Native post attribute names understood by the content store.
const (
	PropID        = "ID"
	PropTitle     = "post_title"
	PropAuthor    = "post_author"
	PropName      = "post_name"
	PropContent   = "post_content"
	PropType      = "post_type"
	PropStatus    = "post_status"
	PropMetaInput = "meta_input"
)

// Extension attribute names handled by the reconciliation steps, not by the
// record upsert itself.
const (
	PropSticky        = "sticky"
	PropTaxonomy      = "taxonomy"
	PropFeaturedImage = "featured_image"
)

// PostAttributeNames is the subset of properties passed to the content
// store on create/update.
var PostAttributeNames = []string{
	PropID,
	PropTitle,
	PropName,
	PropAuthor,
	"post_date",
	"post_excerpt",
	PropContent,
	PropStatus,
	PropType,
	"post_parent",
	"menu_order",
	"comment_status",
	PropMetaInput,
}

var aliasMap = map[string]string{
	"title":         PropTitle,
	"stick_post":    PropSticky,
	"isSticky":      PropSticky,
	"author":        PropAuthor,
	"slug":          PropName,
	"custom_fields": PropMetaInput,
	"image":         PropFeaturedImage,
	"image_url":     PropFeaturedImage,
}

// Record is the normalized representation of one managed content item: a
// property container plus a single last-error slot set by the first failure
// of a mutating operation.
type Record struct {
	Meta      *Container
	lastError error
}

func New() *Record {
	c := NewContainer()
	for alias, canonical := range aliasMap {
		if err := c.AddAlias(alias, canonical); err != nil {
			panic(fmt.Errorf("invalid record alias %v: %v", alias, err))
		}
	}
	c.SetDefault(PropType, "post")
	c.SetDefault(PropStatus, "draft")
	c.SetDefault(PropSticky, false)
	return &Record{Meta: c}
}

func (r *Record) String() string {
	return fmt.Sprintf("post [%v: %v]", r.ID(), r.Slug())
}

// HasError reports whether the last mutating operation recorded a failure.
func (r *Record) HasError() bool {
	return r.lastError != nil
}

func (r *Record) Err() error {
	return r.lastError
}

// SetError stores the first failure of the running operation; later
// failures of the same operation do not overwrite it.
func (r *Record) SetError(err error) {
	if r.lastError == nil {
		r.lastError = err
	}
}

// ClearError resets the error slot; called at the start of each mutating
// operation.
func (r *Record) ClearError() {
	r.lastError = nil
}

func (r *Record) ID() int64 {
	v, ok := r.Meta.Get(PropID)
	if !ok {
		return 0
	}
	switch id := v.(type) {
	case int64:
		return id
	case int:
		return int64(id)
	}
	return 0
}

func (r *Record) SetID(id int64) {
	r.Meta.Set(PropID, id)
}

func (r *Record) Slug() string {
	return r.stringProp(PropName)
}

func (r *Record) PostType() string {
	return r.stringProp(PropType)
}

func (r *Record) Sticky() bool {
	v, ok := r.Meta.Get(PropSticky)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (r *Record) FeaturedImageURL() string {
	return r.stringProp(PropFeaturedImage)
}

// TaxonomyMap returns the configured taxonomy assignments, normalizing term
// values given as a single string or as a list.
func (r *Record) TaxonomyMap() map[string][]string {
	res := map[string][]string{}
	v, ok := r.Meta.Get(PropTaxonomy)
	if !ok {
		return res
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return res
	}
	for taxonomy, raw := range m {
		res[taxonomy] = toTerms(raw)
	}
	return res
}

func toTerms(raw interface{}) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []interface{}:
		terms := make([]string, 0, len(v))
		for _, t := range v {
			terms = append(terms, fmt.Sprintf("%v", t))
		}
		return terms
	}
	return nil
}

// PostAttributes picks the native attribute subset for the store call.
func (r *Record) PostAttributes() map[string]interface{} {
	return r.Meta.Pick(PostAttributeNames)
}

func (r *Record) stringProp(name string) string {
	v, ok := r.Meta.Get(name)
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}
