package triage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sabaki-dev/sabaki/internal/analyzer"
	"github.com/sabaki-dev/sabaki/internal/github"
	"github.com/sabaki-dev/sabaki/internal/logger"
)

// Executor はOperationをトラッカーに適用する。
// ドライランでは実行内容をログに出すだけで変更系APIを一切呼ばない。
type Executor struct {
	tracker github.TrackerClient
	dryRun  bool
	logger  logger.Logger
}

// NewExecutor は新しいExecutorを作成する
func NewExecutor(tracker github.TrackerClient, dryRun bool, log logger.Logger) (*Executor, error) {
	if tracker == nil {
		return nil, errors.New("tracker client is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	return &Executor{
		tracker: tracker,
		dryRun:  dryRun,
		logger:  log,
	}, nil
}

// Apply はOperationを順に適用し、適用した数を返す。
// トラッカーエラーはリトライせずそのまま返す（実行全体を失敗させる）。
func (e *Executor) Apply(ctx context.Context, issueNumber int, ops []Operation) (int, error) {
	performed := 0
	for _, op := range ops {
		if e.dryRun {
			e.logger.Info("Dry-run: would perform operation", "issue", issueNumber, "operation", op.Describe())
			performed++
			continue
		}

		if err := e.perform(ctx, issueNumber, op); err != nil {
			return performed, fmt.Errorf("failed to apply operation on issue #%d (%s): %w", issueNumber, op.Describe(), err)
		}
		e.logger.Info("Applied operation", "issue", issueNumber, "operation", op.Describe())
		performed++
	}
	return performed, nil
}

// perform は1つのOperationを実行する。直和型の全ケースをここで網羅する。
func (e *Executor) perform(ctx context.Context, issueNumber int, op Operation) error {
	switch op := op.(type) {
	case UpdateTitleOp:
		return e.tracker.UpdateTitle(ctx, issueNumber, op.NewTitle)

	case UpdateLabelsOp:
		if err := e.tracker.AddLabels(ctx, issueNumber, op.Diff.ToAdd); err != nil {
			return err
		}
		for _, label := range op.Diff.ToRemove {
			if err := e.tracker.RemoveLabel(ctx, issueNumber, label); err != nil {
				return err
			}
		}
		return nil

	case CreateCommentOp:
		return e.tracker.CreateComment(ctx, issueNumber, op.Body)

	case UpdateStateOp:
		switch op.State {
		case analyzer.StateOpen:
			return e.tracker.UpdateIssueState(ctx, issueNumber, github.IssueStateOpen, "")
		case analyzer.StateCompleted:
			return e.tracker.UpdateIssueState(ctx, issueNumber, github.IssueStateClosed, github.StateReasonCompleted)
		case analyzer.StateNotPlanned:
			return e.tracker.UpdateIssueState(ctx, issueNumber, github.IssueStateClosed, github.StateReasonNotPlanned)
		default:
			return fmt.Errorf("unknown desired state: %s", op.State)
		}

	default:
		return fmt.Errorf("unknown operation type: %T", op)
	}
}
