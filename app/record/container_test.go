// Author: DoItWithASmile (2025). Apache 2.0 License

package record

import (
	"testing"
)

func TestContainerAliasResolution(t *testing.T) {
	c := NewContainer()
	if err := c.AddAlias("author", "post_author"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Set("author", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := c.Get("post_author")
	if !ok || v != 7 {
		t.Errorf("expected aliased write to land on post_author, got %v %v", v, ok)
	}
	v, ok = c.Get("author")
	if !ok || v != 7 {
		t.Errorf("expected aliased read, got %v %v", v, ok)
	}
}

func TestContainerDefaultFallback(t *testing.T) {
	c := NewContainer()
	c.SetDefault("post_status", "draft")

	v, ok := c.Get("post_status")
	if !ok || v != "draft" {
		t.Errorf("expected default value, got %v %v", v, ok)
	}
	if c.HasValue("post_status") {
		t.Error("default must not count as explicit value")
	}

	c.Set("post_status", "publish")
	v, _ = c.Get("post_status")
	if v != "publish" {
		t.Errorf("explicit value must win over default, got %v", v)
	}
}

func TestContainerCaseSensitivity(t *testing.T) {
	t.Run("insensitive by default", func(t *testing.T) {
		c := NewContainer()
		c.Set("Title", "hello")
		if v, ok := c.Get("title"); !ok || v != "hello" {
			t.Errorf("expected case-insensitive lookup, got %v %v", v, ok)
		}
	})
	t.Run("sensitive when configured", func(t *testing.T) {
		c := NewContainer().SetCaseSensitive(true)
		c.Set("Title", "hello")
		if _, ok := c.Get("title"); ok {
			t.Error("expected case-sensitive lookup to miss")
		}
	})
}

func TestContainerProtectedNamespace(t *testing.T) {
	c := NewContainer()
	for _, name := range []string{"values", "aliases", "defaults", "Reserved", ""} {
		if err := c.Set(name, 1); err == nil {
			t.Errorf("expected Set(%q) to be rejected", name)
		}
	}
	// aliases cannot be used to reach a protected name either
	if err := c.AddAlias("harmless", "values"); err == nil {
		t.Error("expected alias to protected name to be rejected")
	}
}

func TestContainerUnsetAndPick(t *testing.T) {
	c := NewContainer()
	c.Set("a", 1)
	c.Set("b", 2)
	c.SetDefault("c", 3)
	c.Unset("a")

	got := c.Pick([]string{"a", "b", "c", "d"})
	if _, ok := got["a"]; ok {
		t.Error("unset property must not be picked")
	}
	if got["b"] != 2 || got["c"] != 3 {
		t.Errorf("unexpected pick result %v", got)
	}
	if _, ok := got["d"]; ok {
		t.Error("unknown property must be omitted")
	}
}
