package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sabaki-dev/sabaki/internal/github"
)

func TestBuildPrompt(t *testing.T) {
	issue := &github.Issue{
		Number:    42,
		Title:     "crash",
		Body:      "It crashes on startup.",
		State:     github.IssueStateOpen,
		Author:    "alice",
		Labels:    []string{"bug"},
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Reactions: 5,
		Comments:  2,
	}
	events := []*github.TimelineEvent{
		{Kind: github.EventCommented, Actor: "bob", CreatedAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		{Kind: github.EventLabeled, Actor: "alice", Label: "bug", CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	repoLabels := []github.Label{
		{Name: "bug", Description: "Something is broken"},
		{Name: "enhancement"},
	}

	t.Run("正常系: 主要情報が全て含まれる", func(t *testing.T) {
		prompt := BuildPrompt(issue, events, repoLabels, "")

		assert.Contains(t, prompt.System, "triage assistant")
		assert.Contains(t, prompt.System, `"summary"`)
		assert.Contains(t, prompt.User, "Issue #42: crash")
		assert.Contains(t, prompt.User, "It crashes on startup.")
		assert.Contains(t, prompt.User, "bob commented")
		assert.Contains(t, prompt.User, `alice added label "bug"`)
		assert.Contains(t, prompt.User, "bug: Something is broken")
		assert.Contains(t, prompt.User, "enhancement")
		assert.NotContains(t, prompt.User, "Additional context")
	})

	t.Run("正常系: 追加文脈は末尾に付く", func(t *testing.T) {
		prompt := BuildPrompt(issue, nil, nil, "a prior pass suspected a duplicate")

		assert.Contains(t, prompt.User, "Additional context from a prior pass")
		assert.Contains(t, prompt.User, "a prior pass suspected a duplicate")
	})

	t.Run("正常系: 本文が空ならプレースホルダ", func(t *testing.T) {
		empty := *issue
		empty.Body = ""
		prompt := BuildPrompt(&empty, nil, nil, "")

		assert.Contains(t, prompt.User, "(no description)")
	})
}
