package views

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func render(t *testing.T, page string, data PageData) string {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, page, data, nil); err != nil {
		t.Fatalf("render %s: %v", page, err)
	}
	return buf.String()
}

func TestRenderer_Feed(t *testing.T) {
	out := render(t, PageFeed, PageData{
		User: "alice",
		Posts: []PostView{
			{ID: "p1", Author: "alice", Content: "mine", CreatedAt: time.Now(), Likes: 2, IsLiked: true, CanDelete: true},
			{ID: "p2", Author: "bob", Content: "<script>alert(1)</script>", CreatedAt: time.Now()},
		},
	})

	if !strings.Contains(out, "signed in as <strong>alice</strong>") {
		t.Errorf("expected the viewer in the nav")
	}
	if strings.Count(out, `action="/deletePost"`) != 1 {
		t.Errorf("only deletable posts get a delete form")
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Errorf("post content must be escaped")
	}
	if strings.Count(out, `class="like liked"`) != 1 {
		t.Errorf("exactly one post is liked by the viewer")
	}
	if !strings.Contains(out, `onsubmit="return confirm('Delete this post?');"`) {
		t.Errorf("delete form must ask for confirmation")
	}
}

func TestRenderer_FormsKeepInputAndError(t *testing.T) {
	out := render(t, PageSignup, PageData{Username: "carol", Error: "passwords do not match"})
	if !strings.Contains(out, `value="carol"`) || !strings.Contains(out, "passwords do not match") {
		t.Errorf("signup must echo username and error: %s", out)
	}
	if !strings.Contains(out, "<title>Sign up · minifeed</title>") {
		t.Errorf("page title should override the layout default")
	}

	out = render(t, PageLogin, PageData{})
	if !strings.Contains(out, `action="/login"`) {
		t.Errorf("login form missing")
	}

	out = render(t, PageNewPost, PageData{User: "alice", Content: "draft"})
	if !strings.Contains(out, ">draft</textarea>") {
		t.Errorf("composer must keep the draft")
	}
}

func TestRenderer_EmptyFeed(t *testing.T) {
	out := render(t, PageFeed, PageData{User: "alice"})
	if !strings.Contains(out, "No posts yet") {
		t.Errorf("expected empty-feed message")
	}
}

func TestRenderer_FeedLoadError(t *testing.T) {
	out := render(t, PageFeed, PageData{User: "alice", Error: "something went wrong"})
	if !strings.Contains(out, "something went wrong") {
		t.Errorf("expected the error on the feed page")
	}
	if strings.Contains(out, "No posts yet") {
		t.Errorf("a failed load must not show the empty-feed message")
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if err := r.Render(&bytes.Buffer{}, "nope", PageData{}, nil); err == nil {
		t.Fatalf("expected error for unknown page")
	}
}
