package triage

import (
	"fmt"
	"strings"
)

// Operation はプランナーが提案しエグゼキュータが一度だけ適用する1つの変更。
// 閉じた直和型であり、エグゼキュータ側で網羅的に分岐する。
type Operation interface {
	// Describe はログ・ドライラン表示用の説明を返す
	Describe() string
}

// UpdateTitleOp はIssueタイトルの変更
type UpdateTitleOp struct {
	NewTitle string
}

// Describe はログ・ドライラン表示用の説明を返す
func (o UpdateTitleOp) Describe() string {
	return fmt.Sprintf("update title to %q", o.NewTitle)
}

// UpdateLabelsOp はラベル集合の変更
type UpdateLabelsOp struct {
	Diff LabelDiff
}

// Describe はログ・ドライラン表示用の説明を返す
func (o UpdateLabelsOp) Describe() string {
	return fmt.Sprintf("update labels (add: [%s], remove: [%s])",
		strings.Join(o.Diff.ToAdd, ", "), strings.Join(o.Diff.ToRemove, ", "))
}

// CreateCommentOp はコメントの投稿
type CreateCommentOp struct {
	Body string
}

// Describe はログ・ドライラン表示用の説明を返す
func (o CreateCommentOp) Describe() string {
	preview := o.Body
	if idx := strings.IndexByte(preview, '\n'); idx >= 0 {
		preview = preview[:idx]
	}
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	return fmt.Sprintf("create comment: %q", preview)
}

// UpdateStateOp はIssueの開閉状態の変更。
// Stateは open / completed / not_planned のいずれか。
type UpdateStateOp struct {
	State string
}

// Describe はログ・ドライラン表示用の説明を返す
func (o UpdateStateOp) Describe() string {
	return fmt.Sprintf("update state to %q", o.State)
}
