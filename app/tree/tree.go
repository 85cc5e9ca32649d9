// Author: DoItWithASmile (2025). Apache 2.0 License

package tree

import (
	"sort"
	"strings"

	"github.com/DoItWithASmile/git-it-write/app/logging"
)

// Entry is the projection of one tree listing entry as reported by the
// hosting provider.
type Entry struct {
	Path string
	Type string // "blob" for files, "tree" for directories
	Sha  string
}

// RemoteTree is the navigable form of a recursive tree listing. Directory
// nodes are created while folding the flat entry list; the tree is read-only
// afterwards.
type RemoteTree struct {
	Owner  string           `json:"owner"`
	Repo   string           `json:"repo"`
	Branch string           `json:"branch"`
	Root   map[string]*Node `json:"root"`
}

// Build folds a flat tree listing into a RemoteTree. Directory entries are
// skipped, their nodes are created implicitly while descending file paths.
// When two entries fold to the same node the later entry wins.
func Build(owner, repo, branch string, entries []Entry) *RemoteTree {
	t := &RemoteTree{
		Owner:  owner,
		Repo:   repo,
		Branch: branch,
		Root:   map[string]*Node{},
	}
	for _, e := range entries {
		if e.Type != "blob" {
			continue
		}
		t.add(e)
	}
	return t
}

func (t *RemoteTree) add(e Entry) {
	segments := strings.Split(e.Path, "/")
	items := t.Root
	for _, dir := range segments[:len(segments)-1] {
		node, ok := items[dir]
		if ok && node.IsFile() {
			logging.Logger.Printf("tree %v/%v#%v: replacing file node %v with a directory\n", t.Owner, t.Repo, t.Branch, dir)
			ok = false
		}
		if !ok {
			node = &Node{Items: map[string]*Node{}}
			items[dir] = node
		}
		items = node.Items
	}

	slug, extension := SplitName(segments[len(segments)-1])
	if old, ok := items[slug]; ok {
		if old.IsFile() {
			logging.Logger.Printf("tree %v/%v#%v: duplicate entry for %v, keeping %v\n", t.Owner, t.Repo, t.Branch, old.File.Path, e.Path)
		} else {
			logging.Logger.Printf("tree %v/%v#%v: replacing directory node %v with file %v\n", t.Owner, t.Repo, t.Branch, slug, e.Path)
		}
	}
	items[slug] = &Node{File: &RemoteFile{
		Owner:     t.Owner,
		Repo:      t.Repo,
		Branch:    t.Branch,
		Path:      e.Path,
		Slug:      slug,
		Sha:       e.Sha,
		RawURL:    RawURL(t.Owner, t.Repo, t.Branch, e.Path),
		GithubURL: GithubURL(t.Owner, t.Repo, t.Branch, e.Path),
		FileType:  extension,
	}}
}

// WalkFiles visits every file leaf depth-first in sorted key order.
func (t *RemoteTree) WalkFiles(visit func(f *RemoteFile)) {
	walk(t.Root, visit)
}

func walk(items map[string]*Node, visit func(f *RemoteFile)) {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		node := items[k]
		if node.IsFile() {
			visit(node.File)
		} else {
			walk(node.Items, visit)
		}
	}
}

// Files returns all file leaves in walk order.
func (t *RemoteTree) Files() []*RemoteFile {
	res := []*RemoteFile{}
	t.WalkFiles(func(f *RemoteFile) {
		res = append(res, f)
	})
	return res
}
