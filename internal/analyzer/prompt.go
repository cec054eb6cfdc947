package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/sabaki-dev/sabaki/internal/github"
)

// Prompt はモデルに渡すsystem/userプロンプトの組
type Prompt struct {
	System string
	User   string
}

const systemPrompt = `You are an issue triage assistant for a GitHub repository.
Given an issue snapshot, its recent timeline, and the repository's label list,
decide what maintenance actions are appropriate. Be conservative: prefer no
action over a wrong one. Only use labels from the provided list.

Respond with a single JSON object matching this schema:
` + ResponseSchema

// BuildPrompt はIssueスナップショット・タイムライン・ラベル一覧からプロンプトを組み立てる。
// extraContext には前段(fast)の分析理由などの追加文脈を渡せる。
func BuildPrompt(issue *github.Issue, events []*github.TimelineEvent, repoLabels []github.Label, extraContext string) Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, "## Issue #%d: %s\n\n", issue.Number, issue.Title)
	fmt.Fprintf(&b, "State: %s", issue.State)
	if issue.StateReason != "" {
		fmt.Fprintf(&b, " (%s)", issue.StateReason)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Author: %s\n", issue.Author)
	fmt.Fprintf(&b, "Created: %s / Updated: %s\n",
		issue.CreatedAt.Format(time.RFC3339), issue.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Labels: %s\n", formatList(issue.Labels))
	fmt.Fprintf(&b, "Reactions: %d, Comments: %d\n", issue.Reactions, issue.Comments)
	if issue.IsPullRequest {
		b.WriteString("This item is a pull request.\n")
	}
	if issue.Locked {
		b.WriteString("This issue is locked.\n")
	}

	b.WriteString("\n### Body\n\n")
	body := issue.Body
	if body == "" {
		body = "(no description)"
	}
	b.WriteString(body)
	b.WriteString("\n")

	if len(events) > 0 {
		b.WriteString("\n### Recent timeline\n\n")
		for _, ev := range events {
			b.WriteString("- ")
			b.WriteString(formatEvent(ev))
			b.WriteString("\n")
		}
	}

	if len(repoLabels) > 0 {
		b.WriteString("\n### Repository labels\n\n")
		for _, l := range repoLabels {
			if l.Description != "" {
				fmt.Fprintf(&b, "- %s: %s\n", l.Name, l.Description)
			} else {
				fmt.Fprintf(&b, "- %s\n", l.Name)
			}
		}
	}

	if extraContext != "" {
		b.WriteString("\n### Additional context from a prior pass\n\n")
		b.WriteString(extraContext)
		b.WriteString("\n")
	}

	return Prompt{
		System: systemPrompt,
		User:   b.String(),
	}
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func formatEvent(ev *github.TimelineEvent) string {
	when := ev.CreatedAt.Format(time.RFC3339)
	switch ev.Kind {
	case github.EventCommented:
		return fmt.Sprintf("%s commented (%s)", ev.Actor, when)
	case github.EventLabeled:
		return fmt.Sprintf("%s added label %q (%s)", ev.Actor, ev.Label, when)
	case github.EventUnlabeled:
		return fmt.Sprintf("%s removed label %q (%s)", ev.Actor, ev.Label, when)
	case github.EventRenamed:
		return fmt.Sprintf("%s renamed %q to %q (%s)", ev.Actor, ev.RenameFrom, ev.RenameTo, when)
	case github.EventAssigned:
		return fmt.Sprintf("%s assigned %s (%s)", ev.Actor, ev.Assignee, when)
	case github.EventUnassigned:
		return fmt.Sprintf("%s unassigned %s (%s)", ev.Actor, ev.Assignee, when)
	case github.EventMilestoned:
		return fmt.Sprintf("%s added to milestone %q (%s)", ev.Actor, ev.Milestone, when)
	case github.EventDemilestoned:
		return fmt.Sprintf("%s removed from milestone %q (%s)", ev.Actor, ev.Milestone, when)
	case github.EventReviewed:
		return fmt.Sprintf("%s reviewed: %s (%s)", ev.Actor, ev.ReviewState, when)
	case github.EventClosed:
		return fmt.Sprintf("%s closed (%s)", ev.Actor, when)
	case github.EventReopened:
		return fmt.Sprintf("%s reopened (%s)", ev.Actor, when)
	case github.EventMerged:
		return fmt.Sprintf("%s merged (%s)", ev.Actor, when)
	default:
		return fmt.Sprintf("%s %s (%s)", ev.Actor, ev.Kind, when)
	}
}
