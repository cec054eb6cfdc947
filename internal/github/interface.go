package github

import "context"

// TrackerClient はトリアージパイプラインが必要とするIssueトラッカー操作のインターフェース
type TrackerClient interface {
	GetIssue(ctx context.Context, number int) (*Issue, error)
	ListOpenIssues(ctx context.Context) ([]*Issue, error)
	ListClosedIssues(ctx context.Context) ([]*Issue, error)
	ListRepoLabels(ctx context.Context) ([]Label, error)
	ListTimelineEvents(ctx context.Context, number, limit int) ([]*TimelineEvent, error)
	AddLabels(ctx context.Context, number int, labels []string) error
	RemoveLabel(ctx context.Context, number int, label string) error
	CreateComment(ctx context.Context, number int, body string) error
	UpdateTitle(ctx context.Context, number int, title string) error
	UpdateIssueState(ctx context.Context, number int, state, reason string) error
}

// コンパイル時のインターフェース実装チェック
var _ TrackerClient = (*Client)(nil)
