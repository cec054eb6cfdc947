package triage

import (
	"sort"

	"github.com/sabaki-dev/sabaki/internal/github"
	"github.com/sabaki-dev/sabaki/internal/store"
)

// RecordSource はIssue番号からトリアージレコードを引く読み取りインターフェース
type RecordSource interface {
	Get(number int) (store.TriageRecord, bool)
}

// QueueOptions は自動検出キューの並べ方のオプション
type QueueOptions struct {
	// SortStaleOldestFirst は二次バケットを前回トリアージが古い順に並べ替える。
	// 停滞したIssueにも巡回が回ることを保証する。
	SortStaleOldestFirst bool
	// SkipUnchanged は前回トリアージ以降変化の無いIssueをキューに積まない
	SkipUnchanged bool
}

// BuildQueue は自動検出モードのトリアージ順序を決める。
// 入力は更新日時の降順で与えられる前提。以下のいずれかを満たすIssueを
// 「優先」として入力順のまま先頭に置く:
//   - レコードが無い（未トリアージ）
//   - レコードのトリアージ日時がパースできない
//   - 最終更新がトリアージ日時より後
//
// 残り（変化なし）は後ろに続ける。
func BuildQueue(issues []*github.Issue, records RecordSource, opts QueueOptions) []*github.Issue {
	prioritized := make([]*github.Issue, 0, len(issues))
	secondary := make([]*github.Issue, 0)
	secondaryTriagedMs := make(map[int]int64)

	for _, issue := range issues {
		rec, ok := records.Get(issue.Number)
		if !ok {
			prioritized = append(prioritized, issue)
			continue
		}
		triagedMs, parsed := rec.TriagedAtMs()
		if !parsed || issue.LastUpdated() > triagedMs {
			prioritized = append(prioritized, issue)
			continue
		}
		secondary = append(secondary, issue)
		secondaryTriagedMs[issue.Number] = triagedMs
	}

	if opts.SkipUnchanged {
		return prioritized
	}

	if opts.SortStaleOldestFirst {
		sort.SliceStable(secondary, func(i, j int) bool {
			return secondaryTriagedMs[secondary[i].Number] < secondaryTriagedMs[secondary[j].Number]
		})
	}

	return append(prioritized, secondary...)
}

// ReopenedOrActive はクローズ済みかつトリアージ済みのIssueのうち、
// その後に再オープンや新しい活動があったものを抽出する。
// バックログ掃除で再浮上させる対象の判定に使う。
func ReopenedOrActive(issues []*github.Issue, records RecordSource) []*github.Issue {
	var result []*github.Issue
	for _, issue := range issues {
		if issue.IsOpen() {
			continue
		}
		rec, ok := records.Get(issue.Number)
		if !ok {
			continue
		}
		triagedMs, parsed := rec.TriagedAtMs()
		if !parsed {
			result = append(result, issue)
			continue
		}

		var closedMs int64
		if issue.ClosedAt != nil {
			closedMs = issue.ClosedAt.UnixMilli()
		}
		threshold := triagedMs
		if closedMs > threshold {
			threshold = closedMs
		}
		if issue.LastUpdated() > threshold {
			result = append(result, issue)
		}
	}
	return result
}
