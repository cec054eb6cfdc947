package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sabaki-dev/sabaki/internal/github"
	"github.com/sabaki-dev/sabaki/internal/store"
)

type fakeRecords map[int]store.TriageRecord

func (f fakeRecords) Get(number int) (store.TriageRecord, bool) {
	rec, ok := f[number]
	return rec, ok
}

func openIssue(number int, updatedAt time.Time) *github.Issue {
	return &github.Issue{
		Number:    number,
		State:     github.IssueStateOpen,
		CreatedAt: updatedAt.Add(-24 * time.Hour),
		UpdatedAt: updatedAt,
	}
}

func triagedAt(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func TestBuildQueue(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		issues  []*github.Issue
		records fakeRecords
		opts    QueueOptions
		want    []int
	}{
		{
			name: "正常系: レコードが無いIssueは優先",
			issues: []*github.Issue{
				openIssue(1, base),
				openIssue(2, base.Add(-time.Hour)),
			},
			records: fakeRecords{},
			want:    []int{1, 2},
		},
		{
			name: "正常系: 更新済みが先頭、未更新は後ろ",
			issues: []*github.Issue{
				openIssue(1, base),                    // 前回トリアージより古い → 二次
				openIssue(2, base.Add(2*time.Hour)),   // トリアージ後に更新 → 優先
				openIssue(3, base.Add(-2*time.Hour)),  // レコードなし → 優先
			},
			records: fakeRecords{
				1: {TriagedAt: triagedAt(base.Add(time.Hour))},
				2: {TriagedAt: triagedAt(base.Add(time.Hour))},
			},
			want: []int{2, 3, 1},
		},
		{
			name: "正常系: トリアージ日時がパースできなければ優先",
			issues: []*github.Issue{
				openIssue(1, base),
			},
			records: fakeRecords{
				1: {TriagedAt: "not-a-timestamp"},
			},
			want: []int{1},
		},
		{
			name: "正常系: 各バケット内は入力順を保持",
			issues: []*github.Issue{
				openIssue(1, base.Add(3*time.Hour)),
				openIssue(2, base.Add(2*time.Hour)),
				openIssue(3, base.Add(time.Hour)),
				openIssue(4, base),
			},
			records: fakeRecords{
				2: {TriagedAt: triagedAt(base.Add(48 * time.Hour))},
				4: {TriagedAt: triagedAt(base.Add(48 * time.Hour))},
			},
			want: []int{1, 3, 2, 4},
		},
		{
			name: "正常系: sort-staleで二次バケットは古い順",
			issues: []*github.Issue{
				openIssue(1, base),
				openIssue(2, base),
				openIssue(3, base),
			},
			records: fakeRecords{
				1: {TriagedAt: triagedAt(base.Add(30 * time.Hour))},
				2: {TriagedAt: triagedAt(base.Add(10 * time.Hour))},
				3: {TriagedAt: triagedAt(base.Add(20 * time.Hour))},
			},
			opts: QueueOptions{SortStaleOldestFirst: true},
			want: []int{2, 3, 1},
		},
		{
			name: "正常系: skip-unchangedで二次バケットは捨てる",
			issues: []*github.Issue{
				openIssue(1, base.Add(2 * time.Hour)),
				openIssue(2, base),
			},
			records: fakeRecords{
				1: {TriagedAt: triagedAt(base.Add(time.Hour))},
				2: {TriagedAt: triagedAt(base.Add(time.Hour))},
			},
			opts: QueueOptions{SkipUnchanged: true},
			want: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := BuildQueue(tt.issues, tt.records, tt.opts)

			got := make([]int, 0, len(queue))
			for _, issue := range queue {
				got = append(got, issue.Number)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReopenedOrActive(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	closedIssue := func(number int, updatedAt, closedAt time.Time) *github.Issue {
		issue := openIssue(number, updatedAt)
		issue.State = github.IssueStateClosed
		issue.ClosedAt = &closedAt
		return issue
	}

	issues := []*github.Issue{
		// クローズ後に活動あり → 対象
		closedIssue(1, base.Add(5*time.Hour), base.Add(time.Hour)),
		// クローズ以降に活動なし → 対象外
		closedIssue(2, base.Add(time.Hour), base.Add(2*time.Hour)),
		// トリアージ済みでない → 対象外
		closedIssue(3, base.Add(5*time.Hour), base.Add(time.Hour)),
		// オープンIssueは対象外
		openIssue(4, base.Add(5*time.Hour)),
	}
	records := fakeRecords{
		1: {TriagedAt: triagedAt(base.Add(2 * time.Hour))},
		2: {TriagedAt: triagedAt(base.Add(3 * time.Hour))},
		4: {TriagedAt: triagedAt(base)},
	}

	result := ReopenedOrActive(issues, records)

	got := make([]int, 0, len(result))
	for _, issue := range result {
		got = append(got, issue.Number)
	}
	assert.Equal(t, []int{1}, got)
}
