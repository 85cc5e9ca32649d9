// Author: DoItWithASmile (2025). Apache 2.0 License

package tree

import (
	"reflect"
	"testing"
)

func TestBuildFoldsEntriesIntoTree(t *testing.T) {
	entries := []Entry{
		{Path: "guide", Type: "tree"},
		{Path: "guide/intro.md", Type: "blob", Sha: "aaa"},
		{Path: "guide/setup.md", Type: "blob", Sha: "bbb"},
		{Path: "README.md", Type: "blob", Sha: "ccc"},
	}
	tr := Build("acme", "docs", "main", entries)

	readme, ok := tr.Root["README"]
	if !ok || !readme.IsFile() {
		t.Fatalf("expected top-level leaf README, got %v", tr.Root)
	}
	if readme.File.FileType != "md" {
		t.Errorf("expected file type md, got %v", readme.File.FileType)
	}
	guide, ok := tr.Root["guide"]
	if !ok || guide.IsFile() {
		t.Fatalf("expected directory guide, got %v", tr.Root)
	}
	for _, slug := range []string{"intro", "setup"} {
		leaf, ok := guide.Items[slug]
		if !ok || !leaf.IsFile() {
			t.Errorf("expected leaf %v under guide", slug)
		}
	}
	if got := readme.File.RawURL; got != "https://raw.githubusercontent.com/acme/docs/main/README.md" {
		t.Errorf("unexpected raw url %v", got)
	}
	if got := readme.File.GithubURL; got != "https://github.com/acme/docs/blob/main/README.md" {
		t.Errorf("unexpected github url %v", got)
	}
}

func TestWalkFilesReproducesAllPaths(t *testing.T) {
	entries := []Entry{
		{Path: "a/b/c.md", Type: "blob", Sha: "1"},
		{Path: "a/b/d.md", Type: "blob", Sha: "2"},
		{Path: "a/e.md", Type: "blob", Sha: "3"},
		{Path: "f.md", Type: "blob", Sha: "4"},
		{Path: "a", Type: "tree"},
		{Path: "a/b", Type: "tree"},
	}
	tr := Build("o", "r", "main", entries)

	got := []string{}
	tr.WalkFiles(func(f *RemoteFile) {
		got = append(got, f.Path)
	})
	want := []string{"a/b/c.md", "a/b/d.md", "a/e.md", "f.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("walk produced %v, want %v", got, want)
	}
}

func TestBuildLaterEntryWins(t *testing.T) {
	entries := []Entry{
		{Path: "page.md", Type: "blob", Sha: "old"},
		{Path: "page.md", Type: "blob", Sha: "new"},
	}
	tr := Build("o", "r", "main", entries)
	if got := tr.Root["page"].File.Sha; got != "new" {
		t.Errorf("expected later entry to win, got sha %v", got)
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name      string
		slug      string
		extension string
	}{
		{"intro.md", "intro", "md"},
		{"README", "README", ""},
		{"UPPER.MD", "UPPER", "md"},
		{"archive.tar.gz", "archive", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, extension := SplitName(tt.name)
			if slug != tt.slug || extension != tt.extension {
				t.Errorf("SplitName(%v) = (%v, %v), want (%v, %v)", tt.name, slug, extension, tt.slug, tt.extension)
			}
		})
	}
}
