package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sabaki-dev/sabaki/internal/analyzer"
	"github.com/sabaki-dev/sabaki/internal/artifact"
	"github.com/sabaki-dev/sabaki/internal/github"
	"github.com/sabaki-dev/sabaki/internal/logger"
	"github.com/sabaki-dev/sabaki/internal/store"
)

// IssueAnalyzer は2層モデルによる分析のインターフェース
type IssueAnalyzer interface {
	AnalyzeFast(ctx context.Context, prompt analyzer.Prompt) (*analyzer.AnalysisResult, *analyzer.ModelResponse, error)
	AnalyzePro(ctx context.Context, prompt analyzer.Prompt) (*analyzer.AnalysisResult, *analyzer.ModelResponse, error)
}

// Options はトリアージ実行のオプション
type Options struct {
	DryRun               bool
	SkipFastPass         bool
	SkipUnchanged        bool
	SortStaleOldestFirst bool
	MaxTriages           int
	MaxOperations        int
	MaxFastRuns          int
	MaxConsecutiveFails  int
	TimelineLimit        int
}

// Runner はトリアージパイプライン全体を駆動する実行コンテキスト。
// 実行スコープのカウンタを全てフィールドとして持ち、単一の制御ループだけが
// 変更する。並行処理は行わない。
type Runner struct {
	tracker  github.TrackerClient
	analyzer IssueAnalyzer
	executor *Executor
	store    *store.Store
	sink     *artifact.Sink
	opts     Options
	logger   logger.Logger

	// 実行スコープのカウンタ
	triages          int
	fastRuns         int
	operations       int
	consecutiveFails int
	fastInputTokens  int64
	fastOutputTokens int64
	proInputTokens   int64
	proOutputTokens  int64

	// テストから現在時刻を固定するためのフック
	now func() time.Time
}

// NewRunner は新しいRunnerを作成する
func NewRunner(tracker github.TrackerClient, issueAnalyzer IssueAnalyzer, executor *Executor, db *store.Store, sink *artifact.Sink, opts Options, log logger.Logger) (*Runner, error) {
	if tracker == nil {
		return nil, errors.New("tracker client is required")
	}
	if issueAnalyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	if executor == nil {
		return nil, errors.New("executor is required")
	}
	if db == nil {
		return nil, errors.New("store is required")
	}
	if sink == nil {
		return nil, errors.New("artifact sink is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if opts.MaxConsecutiveFails <= 0 {
		opts.MaxConsecutiveFails = 3
	}
	return &Runner{
		tracker:  tracker,
		analyzer: issueAnalyzer,
		executor: executor,
		store:    db,
		sink:     sink,
		opts:     opts,
		logger:   log,
		now:      time.Now,
	}, nil
}

// Run はトリアージを実行する。issueNumbersが空の場合は自動検出モードで
// オープンIssueを列挙し、キュー順に1件ずつ逐次処理する。
func (r *Runner) Run(ctx context.Context, issueNumbers []int) error {
	repoLabels, err := r.tracker.ListRepoLabels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list repository labels: %w", err)
	}

	queue, err := r.buildWorklist(ctx, issueNumbers)
	if err != nil {
		return err
	}

	r.logger.Info("Starting triage run",
		"queued", len(queue),
		"dry_run", r.opts.DryRun,
		"skip_fast_pass", r.opts.SkipFastPass,
	)

	for _, issue := range queue {
		if reason, exhausted := r.budgetExhausted(); exhausted {
			r.logger.Info("Budget exhausted, stopping run", "reason", reason)
			break
		}

		if err := r.processIssue(ctx, issue, repoLabels); err != nil {
			if analyzer.IsModelResponseError(err) {
				// モデル応答エラーだけはIssue単位でスキップできる
				r.consecutiveFails++
				r.logger.Error("Model analysis failed, skipping issue",
					"issue", issue.Number,
					"consecutive_failures", r.consecutiveFails,
					"error", err,
				)
				if r.consecutiveFails >= r.opts.MaxConsecutiveFails {
					return fmt.Errorf("aborting run after %d consecutive model failures: %w", r.consecutiveFails, err)
				}
				continue
			}
			return err
		}
		r.consecutiveFails = 0
	}

	r.logger.Info("Triage run finished",
		"triages", r.triages,
		"fast_runs", r.fastRuns,
		"operations", r.operations,
		"fast_tokens_in", r.fastInputTokens,
		"fast_tokens_out", r.fastOutputTokens,
		"pro_tokens_in", r.proInputTokens,
		"pro_tokens_out", r.proOutputTokens,
	)
	return nil
}

// buildWorklist は処理対象のIssue一覧を決める
func (r *Runner) buildWorklist(ctx context.Context, issueNumbers []int) ([]*github.Issue, error) {
	// 明示的な指定があれば自動検出はせずその順で処理する
	if len(issueNumbers) > 0 {
		issues := make([]*github.Issue, 0, len(issueNumbers))
		for _, number := range issueNumbers {
			issue, err := r.tracker.GetIssue(ctx, number)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
			}
			issues = append(issues, issue)
		}
		return issues, nil
	}

	open, err := r.tracker.ListOpenIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open issues: %w", err)
	}
	queue := BuildQueue(open, r.store, QueueOptions{
		SortStaleOldestFirst: r.opts.SortStaleOldestFirst,
		SkipUnchanged:        r.opts.SkipUnchanged,
	})

	// バックログ掃除: クローズ後に再オープンや新しい活動のあった
	// トリアージ済みIssueをキューの末尾に再浮上させる
	closed, err := r.tracker.ListClosedIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed issues: %w", err)
	}
	return append(queue, ReopenedOrActive(closed, r.store)...), nil
}

// budgetExhausted は実行予算を使い切ったかどうかを返す
func (r *Runner) budgetExhausted() (string, bool) {
	if r.opts.MaxTriages > 0 && r.triages >= r.opts.MaxTriages {
		return "max_triages", true
	}
	if r.opts.MaxOperations > 0 && r.operations >= r.opts.MaxOperations {
		return "max_operations", true
	}
	if r.opts.MaxFastRuns > 0 && r.fastRuns >= r.opts.MaxFastRuns {
		return "max_fast_runs", true
	}
	return "", false
}

// processIssue は1件のIssueを2段階の昇格付きで処理する。
//
// fastパスはIssueごとに実行中1回だけ呼ばれる。計画されたOperationが
// ゼロならfastの分析だけでレコードを確定し、proモデルは呼ばない。
// Operationが出たか、fastの呼び出し自体が失敗した場合はproに昇格し、
// proのプランがfastのプランを完全に置き換える。実際にトラッカーへ
// 適用されるのは常にpro由来のプランのみ。
func (r *Runner) processIssue(ctx context.Context, issue *github.Issue, repoLabels []github.Label) error {
	log := r.logger.WithFields("issue", issue.Number)

	events, err := r.tracker.ListTimelineEvents(ctx, issue.Number, r.opts.TimelineLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch timeline for issue #%d: %w", issue.Number, err)
	}

	knownLabels := labelNames(repoLabels)
	prompt := analyzer.BuildPrompt(issue, events, repoLabels, "")
	r.sink.SaveText(issue.Number, "prompt.txt", prompt.System+"\n\n---\n\n"+prompt.User)

	var fastContext string
	if !r.opts.SkipFastPass {
		r.fastRuns++
		fastResult, fastResp, fastErr := r.analyzer.AnalyzeFast(ctx, prompt)
		if fastErr != nil {
			if !analyzer.IsModelResponseError(fastErr) {
				return fastErr
			}
			// fastの呼び出し失敗は昇格理由になるだけで、致命的ではない
			log.Warn("Fast pass failed, escalating to pro model", "error", fastErr)
		} else {
			r.fastInputTokens += fastResp.InputTokens
			r.fastOutputTokens += fastResp.OutputTokens
			r.sink.SaveJSON(issue.Number, "analysis-fast.json", fastResult)

			fastOps := Plan(issue, fastResult, knownLabels, fastResult.Reasoning)
			if len(fastOps) == 0 {
				// アクション不要はエラーではなく正当な終端。
				// 再分析を防ぐためレコードはここでも更新する。
				log.Info("Fast pass found no actions, finalizing without escalation")
				return r.finalize(issue, fastResult)
			}
			log.Debug("Fast pass proposed operations, escalating", "operations", len(fastOps))
			fastContext = fastResult.Reasoning
		}
	}

	proPrompt := prompt
	if fastContext != "" {
		proPrompt = analyzer.BuildPrompt(issue, events, repoLabels, fastContext)
	}

	result, resp, err := r.analyzer.AnalyzePro(ctx, proPrompt)
	if err != nil {
		return err
	}
	r.proInputTokens += resp.InputTokens
	r.proOutputTokens += resp.OutputTokens
	r.sink.SaveJSON(issue.Number, "analysis-pro.json", result)

	ops := Plan(issue, result, knownLabels, result.Reasoning)
	r.sink.SaveText(issue.Number, "plan.txt", describeOps(ops))

	if len(ops) > 0 {
		performed, err := r.executor.Apply(ctx, issue.Number, ops)
		r.operations += performed
		if err != nil {
			return err
		}
	} else {
		log.Info("No actions needed")
	}

	r.triages++
	return r.finalize(issue, result)
}

// finalize は分析結果をTriageRecordに要約して永続化する。
// DB保存は変更が有効なときだけ行い、保存失敗は致命的ではない。
func (r *Runner) finalize(issue *github.Issue, result *analyzer.AnalysisResult) error {
	r.store.Set(issue.Number, store.TriageRecord{
		TriagedAt: r.now().UTC().Format(time.RFC3339),
		Summary:   result.Summary,
		Reasoning: result.Reasoning,
		Reactions: issue.Reactions,
	})

	if !r.opts.DryRun {
		if err := r.store.Save(); err != nil {
			r.logger.Warn("Failed to save triage database", "error", err)
		}
	}
	return nil
}

func labelNames(labels []github.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}

func describeOps(ops []Operation) string {
	if len(ops) == 0 {
		return "(no operations)\n"
	}
	var out string
	for i, op := range ops {
		out += fmt.Sprintf("%d. %s\n", i+1, op.Describe())
	}
	return out
}
