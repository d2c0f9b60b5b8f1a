// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(SettingsInvalidId) {
		t.Fatalf("len(Values()) = %d, want %d", len(values), SettingsInvalidId)
	}
	for i, iss := range values {
		if want := Id(i + 1); iss.Id() != want {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, iss.Id(), want)
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if Get(RespawnLoopId) == nil {
		t.Fatal("Get(RespawnLoopId) returned nil")
	}
	if Get(Id(0)) != nil {
		t.Error("Get(0) should be nil")
	}
	if Get(Id(9999)) != nil {
		t.Error("Get(9999) should be nil")
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	t.Parallel()

	msg := string(Get(ConfigFileNotFoundId).MarkdownMsg())
	if !strings.Contains(msg, "No config file found") {
		t.Errorf("MarkdownMsg() = %q", msg)
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	t.Parallel()

	iss := &Issue{id: 1, mdMsg: "x", docLinks: []HttpLink{"https://a"}, extLinks: []HttpLink{"https://b"}}
	docs := iss.DocLinks()
	docs[0] = "changed"
	if iss.DocLinks()[0] != "https://a" {
		t.Error("DocLinks() should return a copy")
	}
	ext := iss.ExtLinks()
	ext[0] = "changed"
	if iss.ExtLinks()[0] != "https://b" {
		t.Error("ExtLinks() should return a copy")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	t.Parallel()

	for _, iss := range Values() {
		if strings.TrimSpace(string(iss.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no content", iss.Id())
			continue
		}
		out, err := iss.Render("dark")
		if err != nil {
			t.Errorf("issue %d Render() error: %v", iss.Id(), err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("issue %d rendered empty", iss.Id())
		}
	}
}

func TestIssue_RenderWithLinks(t *testing.T) {
	t.Parallel()

	iss := &Issue{
		id:       1,
		mdMsg:    "# Title",
		docLinks: []HttpLink{"https://example.com/docs"},
	}
	out, err := iss.Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "See also") || !strings.Contains(out, "example.com/docs") {
		t.Errorf("Render() output missing links:\n%s", out)
	}
}
