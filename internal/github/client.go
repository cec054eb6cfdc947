package github

import (
	"context"
	"errors"
	"fmt"

	gh "github.com/google/go-github/v50/github"
	"golang.org/x/oauth2"

	"github.com/sabaki-dev/sabaki/internal/logger"
)

// Client はGitHub APIクライアントのラッパー。
// 読み取り操作は一時的なエラーをリトライするが、変更系操作はリトライしない。
type Client struct {
	github *gh.Client
	owner  string
	repo   string
	retry  RetryStrategy
	logger logger.Logger
}

// NewClient は新しいGitHub APIクライアントを作成する
func NewClient(token, owner, repo string, log logger.Logger) (*Client, error) {
	if token == "" {
		return nil, errors.New("GitHub token is required")
	}
	if owner == "" {
		return nil, errors.New("owner is required")
	}
	if repo == "" {
		return nil, errors.New("repo is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		github: gh.NewClient(tc),
		owner:  owner,
		repo:   repo,
		retry:  DefaultRetryStrategy(),
		logger: log,
	}, nil
}

// GetIssue は指定番号のIssueスナップショットを取得する
func (c *Client) GetIssue(ctx context.Context, number int) (*Issue, error) {
	var issue *gh.Issue
	err := RetryWithStrategy(ctx, c.retry, func() error {
		var err error
		issue, _, err = c.github.Issues.Get(ctx, c.owner, c.repo, number)
		return ClassifyError(err)
	})
	if err != nil {
		return nil, err
	}
	return convertIssue(issue), nil
}

// ListOpenIssues はオープン状態の全Issueを更新日時の降順で取得する
func (c *Client) ListOpenIssues(ctx context.Context) ([]*Issue, error) {
	return c.listIssues(ctx, IssueStateOpen)
}

// ListClosedIssues はクローズ済みの全Issueを更新日時の降順で取得する。
// バックログ掃除でクローズ後に活動のあったIssueを拾い直すために使う。
func (c *Client) ListClosedIssues(ctx context.Context) ([]*Issue, error) {
	return c.listIssues(ctx, IssueStateClosed)
}

func (c *Client) listIssues(ctx context.Context, state string) ([]*Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:     state,
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var allIssues []*Issue
	for {
		var issues []*gh.Issue
		var resp *gh.Response
		err := RetryWithStrategy(ctx, c.retry, func() error {
			var err error
			issues, resp, err = c.github.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
			return ClassifyError(err)
		})
		if err != nil {
			return nil, err
		}
		for _, issue := range issues {
			allIssues = append(allIssues, convertIssue(issue))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allIssues, nil
}

// ListRepoLabels はリポジトリに定義された全ラベルを取得する
func (c *Client) ListRepoLabels(ctx context.Context) ([]Label, error) {
	opts := &gh.ListOptions{PerPage: 100}

	var allLabels []Label
	for {
		var labels []*gh.Label
		var resp *gh.Response
		err := RetryWithStrategy(ctx, c.retry, func() error {
			var err error
			labels, resp, err = c.github.Issues.ListLabels(ctx, c.owner, c.repo, opts)
			return ClassifyError(err)
		})
		if err != nil {
			return nil, err
		}
		for _, l := range labels {
			allLabels = append(allLabels, Label{
				Name:        l.GetName(),
				Color:       l.GetColor(),
				Description: l.GetDescription(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allLabels, nil
}

// ListTimelineEvents はIssueのタイムラインイベントを新しい順に最大limit件取得する
func (c *Client) ListTimelineEvents(ctx context.Context, number, limit int) ([]*TimelineEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := &gh.ListOptions{PerPage: 100}

	var all []*TimelineEvent
	for {
		var events []*gh.Timeline
		var resp *gh.Response
		err := RetryWithStrategy(ctx, c.retry, func() error {
			var err error
			events, resp, err = c.github.Issues.ListIssueTimeline(ctx, c.owner, c.repo, number, opts)
			return ClassifyError(err)
		})
		if err != nil {
			return nil, err
		}
		for _, ev := range events {
			if converted := convertTimelineEvent(ev); converted != nil {
				all = append(all, converted)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	// APIは古い順で返すので末尾のlimit件を残す
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

// AddLabels はIssueにラベルを追加する
func (c *Client) AddLabels(ctx context.Context, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	_, _, err := c.github.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, labels)
	if err != nil {
		return ClassifyError(err)
	}
	return nil
}

// RemoveLabel はIssueからラベルを1つ削除する
func (c *Client) RemoveLabel(ctx context.Context, number int, label string) error {
	_, err := c.github.Issues.RemoveLabelForIssue(ctx, c.owner, c.repo, number, label)
	if err != nil {
		// 既に外れている場合は成功扱い
		classified := ClassifyError(err)
		if IsNotFoundError(classified) {
			c.logger.Warn("Label already removed", "issue", number, "label", label)
			return nil
		}
		return classified
	}
	return nil
}

// CreateComment はIssueにコメントを投稿する
func (c *Client) CreateComment(ctx context.Context, number int, body string) error {
	if body == "" {
		return errors.New("comment body is required")
	}
	comment := &gh.IssueComment{Body: gh.String(body)}
	_, _, err := c.github.Issues.CreateComment(ctx, c.owner, c.repo, number, comment)
	if err != nil {
		return ClassifyError(err)
	}
	return nil
}

// UpdateTitle はIssueのタイトルを変更する
func (c *Client) UpdateTitle(ctx context.Context, number int, title string) error {
	if title == "" {
		return errors.New("title is required")
	}
	req := &gh.IssueRequest{Title: gh.String(title)}
	_, _, err := c.github.Issues.Edit(ctx, c.owner, c.repo, number, req)
	if err != nil {
		return ClassifyError(err)
	}
	return nil
}

// UpdateIssueState はIssueの開閉状態を変更する。
// stateは open / closed、クローズ時はreasonに completed / not_planned を指定する。
func (c *Client) UpdateIssueState(ctx context.Context, number int, state, reason string) error {
	if state != IssueStateOpen && state != IssueStateClosed {
		return fmt.Errorf("invalid issue state: %s", state)
	}
	req := &gh.IssueRequest{State: gh.String(state)}
	if state == IssueStateClosed && reason != "" {
		req.StateReason = gh.String(reason)
	}
	_, _, err := c.github.Issues.Edit(ctx, c.owner, c.repo, number, req)
	if err != nil {
		return ClassifyError(err)
	}
	return nil
}

// convertIssue はgo-githubのIssueをスナップショットに変換する
func convertIssue(issue *gh.Issue) *Issue {
	if issue == nil {
		return nil
	}

	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	snapshot := &Issue{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		State:         issue.GetState(),
		StateReason:   issue.GetStateReason(),
		Labels:        labels,
		Author:        issue.GetUser().GetLogin(),
		CreatedAt:     issue.GetCreatedAt().Time,
		UpdatedAt:     issue.GetUpdatedAt().Time,
		Reactions:     issue.GetReactions().GetTotalCount(),
		Comments:      issue.GetComments(),
		IsPullRequest: issue.IsPullRequest(),
		Locked:        issue.GetLocked(),
	}
	if issue.ClosedAt != nil {
		t := issue.GetClosedAt().Time
		snapshot.ClosedAt = &t
	}
	return snapshot
}

// convertTimelineEvent はタイムラインイベントを変換する。対象外のイベント種別はnilを返す。
func convertTimelineEvent(ev *gh.Timeline) *TimelineEvent {
	if ev == nil {
		return nil
	}

	kind := TimelineEventKind(ev.GetEvent())
	switch kind {
	case EventCommented, EventLabeled, EventUnlabeled, EventRenamed,
		EventAssigned, EventUnassigned, EventMilestoned, EventDemilestoned,
		EventReviewed, EventClosed, EventReopened, EventMerged:
	default:
		return nil
	}

	converted := &TimelineEvent{
		Kind:      kind,
		Actor:     ev.GetActor().GetLogin(),
		CreatedAt: ev.GetCreatedAt().Time,
	}

	switch kind {
	case EventLabeled, EventUnlabeled:
		converted.Label = ev.GetLabel().GetName()
	case EventRenamed:
		converted.RenameFrom = ev.GetRename().GetFrom()
		converted.RenameTo = ev.GetRename().GetTo()
	case EventAssigned, EventUnassigned:
		converted.Assignee = ev.GetAssignee().GetLogin()
	case EventMilestoned, EventDemilestoned:
		converted.Milestone = ev.GetMilestone().GetTitle()
	case EventReviewed:
		converted.ReviewState = ev.GetState()
	}

	return converted
}
