// Author: DoItWithASmile (2025). Apache 2.0 License

package tree

import (
	"fmt"
	"strings"
)

// RemoteFile describes one file of a repository tree at a branch.
// Immutable once built.
type RemoteFile struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	Branch    string `json:"branch"`
	Path      string `json:"path"`
	Slug      string `json:"slug"`
	Sha       string `json:"sha"`
	RawURL    string `json:"rawUrl"`
	GithubURL string `json:"githubUrl"`
	FileType  string `json:"fileType"`
}

func (f *RemoteFile) String() string {
	return fmt.Sprintf("%v/%v#%v:%v", f.Owner, f.Repo, f.Branch, f.Path)
}

// Node is either a file leaf or a directory; exactly one of File and Items
// is set.
type Node struct {
	File  *RemoteFile      `json:"file,omitempty"`
	Items map[string]*Node `json:"items,omitempty"`
}

func (n *Node) IsFile() bool {
	return n.File != nil
}

// RawURL is the address of the file contents on the raw content host.
func RawURL(owner, repo, branch, path string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%v/%v/%v/%v", owner, repo, branch, path)
}

// GithubURL is the canonical browse address of the file.
func GithubURL(owner, repo, branch, path string) string {
	return fmt.Sprintf("https://github.com/%v/%v/blob/%v/%v", owner, repo, branch, path)
}

// SplitName separates a file name into slug and extension. Only a single
// extension is recognized: "intro.md" gives ("intro", "md"), a name without
// a dot keeps its full name, and a name with several dots keeps only the
// part before the first dot with an empty extension.
func SplitName(name string) (slug, extension string) {
	parts := strings.Split(name, ".")
	if len(parts) == 2 {
		return parts[0], strings.ToLower(parts[1])
	}
	return parts[0], ""
}
