package triage

import (
	"fmt"
	"strings"

	"github.com/sabaki-dev/sabaki/internal/analyzer"
	"github.com/sabaki-dev/sabaki/internal/github"
)

// thoughtsPlaceholder は分析理由が得られなかった場合のコメント監査ブロックの代替文
const thoughtsPlaceholder = "(no reasoning provided)"

// Plan は分析結果をOperationの列に変換する。決定的な純関数でI/Oを持たない。
//
// 並び順はタイトル → ラベル → コメント → 状態で固定。
// タイトル変更が最も安価で低リスクなため先頭に置き、ログにも先に出す。
func Plan(issue *github.Issue, result *analyzer.AnalysisResult, knownLabels []string, thoughts string) []Operation {
	var ops []Operation
	if issue == nil || result == nil {
		return ops
	}

	// 1. タイトル: 非空かつ現在のタイトルと異なる場合のみ
	if result.NewTitle != "" && result.NewTitle != issue.Title {
		ops = append(ops, UpdateTitleOp{NewTitle: result.NewTitle})
	}

	// 2. ラベル: フィールドが提示されていれば（空配列でも）差分を取り、差分が空なら出さない
	if result.HasLabels {
		diff := DiffLabels(issue.Labels, result.Labels, knownLabels)
		if !diff.IsEmpty() {
			ops = append(ops, UpdateLabelsOp{Diff: diff})
		}
	}

	// 3. コメント: トリム後に非空なら、監査用の理由ブロックを付けて投稿
	if comment := strings.TrimSpace(result.Comment); comment != "" {
		ops = append(ops, CreateCommentOp{Body: withAuditBlock(comment, thoughts)})
	}

	// 4. 状態: 現在の状態・クローズ理由と一致する指示は何もしない
	if op, ok := planStateChange(issue, result.State); ok {
		ops = append(ops, op)
	}

	return ops
}

// planStateChange は希望状態と現状を突き合わせ、必要な場合だけ状態変更を返す
func planStateChange(issue *github.Issue, desired string) (Operation, bool) {
	switch desired {
	case analyzer.StateOpen:
		if issue.IsOpen() {
			return nil, false
		}
	case analyzer.StateCompleted, analyzer.StateNotPlanned:
		if !issue.IsOpen() && issue.StateReason == desired {
			return nil, false
		}
	default:
		return nil, false
	}
	return UpdateStateOp{State: desired}, true
}

// withAuditBlock はコメント本文に分析理由を隠しHTMLコメントとして付加する。
// トラッカー上で後から判断根拠を追跡できるようにするため。
func withAuditBlock(body, thoughts string) string {
	thoughts = strings.TrimSpace(thoughts)
	if thoughts == "" {
		thoughts = thoughtsPlaceholder
	}
	return fmt.Sprintf("%s\n\n<!-- sabaki:reasoning\n%s\n-->", body, thoughts)
}
