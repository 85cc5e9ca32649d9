// Author: DoItWithASmile (2025). Apache 2.0 License

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/DoItWithASmile/git-it-write/app/config"
	"github.com/DoItWithASmile/git-it-write/app/errs"
	"github.com/DoItWithASmile/git-it-write/app/logging"
)

const shaMetaKey = "giw_sha"

// Client talks to the WordPress REST API using an application password.
type Client struct {
	Server      string
	Username    string
	AppPassword string
	HTTPClient  *http.Client
}

func NewClient() *Client {
	return &Client{
		Server:      config.ContentStoreServer(),
		Username:    config.ContentStoreUser(),
		AppPassword: config.ContentStorePassword,
	}
}

// restBase maps a post type to its REST collection route.
func restBase(postType string) string {
	switch postType {
	case "post", "":
		return "posts"
	case "page":
		return "pages"
	}
	return postType
}

// attribute name translation from the native insert attributes to the REST
// field names
var restFields = map[string]string{
	"post_title":     "title",
	"post_content":   "content",
	"post_name":      "slug",
	"post_status":    "status",
	"post_author":    "author",
	"post_date":      "date",
	"post_excerpt":   "excerpt",
	"post_parent":    "parent",
	"menu_order":     "menu_order",
	"comment_status": "comment_status",
	"meta_input":     "meta",
}

type postResponse struct {
	Id   int64                  `json:"id"`
	Slug string                 `json:"slug"`
	Meta map[string]interface{} `json:"meta"`
}

func (c *Client) FindPost(ctx context.Context, slug, postType string) (int64, string, bool, error) {
	posts := []postResponse{}
	query := url.Values{"slug": {slug}, "status": {"publish,draft,future,pending,private"}}
	err := c.do(ctx, http.MethodGet, c.collectionPath(postType)+"?"+query.Encode(), nil, &posts)
	if err != nil {
		return 0, "", false, err
	}
	for _, p := range posts {
		if p.Slug != slug {
			continue
		}
		sha := ""
		if v, ok := p.Meta[shaMetaKey].(string); ok {
			sha = v
		}
		return p.Id, sha, true, nil
	}
	return 0, "", false, nil
}

func (c *Client) CreateOrUpdatePost(ctx context.Context, props map[string]interface{}) (int64, error) {
	body := map[string]interface{}{}
	for name, value := range props {
		if name == "ID" || name == "post_type" {
			continue
		}
		if field, ok := restFields[name]; ok {
			body[field] = value
		}
	}

	postType, _ := props["post_type"].(string)
	target := c.collectionPath(postType)
	if id, ok := props["ID"].(int64); ok && id != 0 {
		target = fmt.Sprintf("%v/%v", target, id)
	}

	res := postResponse{}
	err := c.do(ctx, http.MethodPost, target, body, &res)
	if err != nil {
		return 0, err
	}
	if res.Id == 0 {
		return 0, errs.New(errs.StoreOperationFailed, "empty_post_id", "content store returned no identity")
	}
	return res.Id, nil
}

func (c *Client) SetSticky(ctx context.Context, id int64, sticky bool) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%v/%v", c.collectionPath("post"), id),
		map[string]interface{}{"sticky": sticky}, nil)
}

type taxonomyInfo struct {
	RestBase string   `json:"rest_base"`
	Types    []string `json:"types"`
}

func (c *Client) taxonomies(ctx context.Context, postType string) (map[string]taxonomyInfo, error) {
	res := map[string]taxonomyInfo{}
	err := c.do(ctx, http.MethodGet, "/wp-json/wp/v2/taxonomies?type="+url.QueryEscape(postType), nil, &res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ClearTermRelationships(ctx context.Context, id int64, postType string) error {
	taxonomies, err := c.taxonomies(ctx, postType)
	if err != nil {
		return err
	}
	body := map[string]interface{}{}
	for _, info := range taxonomies {
		body[info.RestBase] = []int64{}
	}
	if len(body) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%v/%v", c.collectionPath(postType), id), body, nil)
}

func (c *Client) AssignTerms(ctx context.Context, id int64, postType, taxonomy string, terms []string) error {
	taxonomies, err := c.taxonomies(ctx, postType)
	if err != nil {
		return err
	}
	info, ok := taxonomies[taxonomy]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownTaxonomy, taxonomy)
	}

	termIds := make([]int64, 0, len(terms))
	for _, term := range terms {
		termId, err := c.resolveTerm(ctx, info.RestBase, term)
		if err != nil {
			return err
		}
		termIds = append(termIds, termId)
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%v/%v", c.collectionPath(postType), id),
		map[string]interface{}{info.RestBase: termIds}, nil)
}

type termResponse struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

// resolveTerm finds a term by name, creating it when absent.
func (c *Client) resolveTerm(ctx context.Context, restBase, term string) (int64, error) {
	found := []termResponse{}
	err := c.do(ctx, http.MethodGet, "/wp-json/wp/v2/"+restBase+"?search="+url.QueryEscape(term), nil, &found)
	if err != nil {
		return 0, err
	}
	for _, t := range found {
		if strings.EqualFold(t.Name, term) {
			return t.Id, nil
		}
	}
	created := termResponse{}
	err = c.do(ctx, http.MethodPost, "/wp-json/wp/v2/"+restBase, map[string]interface{}{"name": term}, &created)
	if err != nil {
		return 0, err
	}
	return created.Id, nil
}

func (c *Client) AttachCoverImage(ctx context.Context, id int64, sourceURL string) error {
	img, filename, err := c.download(ctx, sourceURL)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Server+"/wp-json/wp/v2/media", bytes.NewReader(img))
	if err != nil {
		return errs.Wrap(errs.StoreOperationFailed, "media_request", err)
	}
	req.SetBasicAuth(c.Username, c.AppPassword)
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return errs.Wrap(errs.StoreOperationFailed, "media_upload", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.Newf(errs.StoreOperationFailed, "media_upload", "media upload failed with status %v: %s", resp.StatusCode, b)
	}
	media := postResponse{}
	if err := json.Unmarshal(b, &media); err != nil {
		return errs.Wrap(errs.StoreOperationFailed, "media_response", err)
	}

	return c.do(ctx, http.MethodPost, fmt.Sprintf("%v/%v", c.collectionPath("post"), id),
		map[string]interface{}{"featured_media": media.Id}, nil)
}

func (c *Client) download(ctx context.Context, sourceURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", errs.Wrap(errs.StoreOperationFailed, "image_request", err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", errs.Newf(errs.StoreOperationFailed, "image_fetch", "failed to fetch image %v: %v", sourceURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", errs.Newf(errs.StoreOperationFailed, "image_fetch", "unexpected status %v for image %v", resp.StatusCode, sourceURL)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errs.Wrap(errs.StoreOperationFailed, "image_read", err)
	}
	filename := path.Base(sourceURL)
	if i := strings.IndexAny(filename, "?#"); i >= 0 {
		filename = filename[:i]
	}
	if filename == "" || filename == "." || filename == "/" {
		filename = "cover"
	}
	return b, filename, nil
}

func (c *Client) collectionPath(postType string) string {
	return "/wp-json/wp/v2/" + restBase(postType)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) do(ctx context.Context, method, target string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errs.Wrap(errs.StoreOperationFailed, "marshal", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Server+target, reader)
	if err != nil {
		return errs.Wrap(errs.StoreOperationFailed, "request", err)
	}
	req.SetBasicAuth(c.Username, c.AppPassword)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return errs.Newf(errs.StoreOperationFailed, "store_unreachable", "content store request %v %v failed: %v", method, target, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrap(errs.StoreOperationFailed, "response_read", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Logger.Printf("content store %v %v returned %v: %s\n", method, target, resp.StatusCode, b)
		return errs.Newf(errs.StoreOperationFailed, "store_error", "content store request %v %v failed with status %v", method, target, resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			return errs.Wrap(errs.StoreOperationFailed, "unmarshal", err)
		}
	}
	return nil
}
