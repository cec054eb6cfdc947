package github

import (
	"time"
)

// IssueState はIssueの開閉状態
const (
	IssueStateOpen   = "open"
	IssueStateClosed = "closed"
)

// StateReason はIssueクローズ時の理由
const (
	StateReasonCompleted  = "completed"
	StateReasonNotPlanned = "not_planned"
	StateReasonReopened   = "reopened"
)

// Issue はトリアージ対象のIssueスナップショット。
// 毎回の実行でAPIから取り直し、実行をまたいでキャッシュしない。
type Issue struct {
	Number        int
	Title         string
	Body          string
	State         string // open / closed
	StateReason   string // completed / not_planned / reopened / ""
	Labels        []string
	Author        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ClosedAt      *time.Time
	Reactions     int
	Comments      int
	IsPullRequest bool
	Draft         bool
	Locked        bool
}

// IsOpen はIssueがオープン状態かどうかを返す
func (i *Issue) IsOpen() bool {
	return i.State == IssueStateOpen
}

// LastUpdated は updated_at と created_at の新しい方をエポックミリ秒で返す。
// どちらも取得できない場合は 0。
func (i *Issue) LastUpdated() int64 {
	updated := i.UpdatedAt
	if i.CreatedAt.After(updated) {
		updated = i.CreatedAt
	}
	if updated.IsZero() {
		return 0
	}
	return updated.UnixMilli()
}

// TimelineEventKind はタイムラインイベントの種別
type TimelineEventKind string

const (
	EventCommented    TimelineEventKind = "commented"
	EventLabeled      TimelineEventKind = "labeled"
	EventUnlabeled    TimelineEventKind = "unlabeled"
	EventRenamed      TimelineEventKind = "renamed"
	EventAssigned     TimelineEventKind = "assigned"
	EventUnassigned   TimelineEventKind = "unassigned"
	EventMilestoned   TimelineEventKind = "milestoned"
	EventDemilestoned TimelineEventKind = "demilestoned"
	EventReviewed     TimelineEventKind = "reviewed"
	EventClosed       TimelineEventKind = "closed"
	EventReopened     TimelineEventKind = "reopened"
	EventMerged       TimelineEventKind = "merged"
)

// TimelineEvent はIssueタイムライン上の1イベント。
// Kindに応じて関連フィールドのみが設定される。
// 前回トリアージ以降の変化検出とプロンプトの文脈にのみ使う。
type TimelineEvent struct {
	Kind      TimelineEventKind
	Actor     string
	CreatedAt time.Time

	// labeled / unlabeled
	Label string
	// renamed
	RenameFrom string
	RenameTo   string
	// assigned / unassigned
	Assignee string
	// milestoned / demilestoned
	Milestone string
	// reviewed
	ReviewState string
}

// Label はリポジトリに定義されたラベル
type Label struct {
	Name        string
	Color       string
	Description string
}
