package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sabaki-dev/sabaki/internal/analyzer"
	"github.com/sabaki-dev/sabaki/internal/artifact"
	"github.com/sabaki-dev/sabaki/internal/github"
	"github.com/sabaki-dev/sabaki/internal/store"
	"github.com/sabaki-dev/sabaki/internal/triage"
)

func newTriageCmd() *cobra.Command {
	var (
		issues        []int
		dryRun        bool
		skipFastPass  bool
		skipUnchanged bool
		sortStale     bool
	)

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Issueのトリアージを実行",
		Long: `Issueを取得してLLMで分析し、必要な操作（ラベル・コメント・
タイトル・状態の変更）を適用します。--issues を指定しない場合は
オープンIssueを自動検出し、前回トリアージ以降に変化のあったものを
優先して処理します。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// フラグは設定ファイル・環境変数より優先
			if cmd.Flags().Changed("dry-run") {
				appCfg.Triage.DryRun = dryRun
			}
			if cmd.Flags().Changed("skip-fast") {
				appCfg.Triage.SkipFastPass = skipFastPass
			}
			if cmd.Flags().Changed("skip-unchanged") {
				appCfg.Triage.SkipUnchanged = skipUnchanged
			}

			// 資格情報の検証はIssue処理を始める前に行う
			if err := appCfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			tracker, err := github.NewClient(appCfg.GitHub.Token, appCfg.GitHub.Owner, appCfg.GitHub.Repo, appLog)
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}

			caller, err := analyzer.NewClient(appCfg.Anthropic.APIKey)
			if err != nil {
				return fmt.Errorf("failed to create model client: %w", err)
			}

			issueAnalyzer, err := analyzer.New(caller, analyzer.Config{
				FastModel:      appCfg.Anthropic.FastModel,
				ProModel:       appCfg.Anthropic.ProModel,
				MaxRetries:     appCfg.Anthropic.MaxRetries,
				InitialBackoff: appCfg.Anthropic.InitialBackoff,
			}, appLog)
			if err != nil {
				return fmt.Errorf("failed to create analyzer: %w", err)
			}

			executor, err := triage.NewExecutor(tracker, appCfg.Triage.DryRun, appLog)
			if err != nil {
				return fmt.Errorf("failed to create executor: %w", err)
			}

			db := store.New(appCfg.Triage.DatabasePath, appLog)
			db.Load()

			sink := artifact.New(appCfg.Triage.ArtifactsDir, appLog)

			runner, err := triage.NewRunner(tracker, issueAnalyzer, executor, db, sink, triage.Options{
				DryRun:               appCfg.Triage.DryRun,
				SkipFastPass:         appCfg.Triage.SkipFastPass,
				SkipUnchanged:        appCfg.Triage.SkipUnchanged,
				SortStaleOldestFirst: sortStale,
				MaxTriages:           appCfg.Triage.MaxTriages,
				MaxOperations:        appCfg.Triage.MaxOperations,
				MaxFastRuns:          appCfg.Triage.MaxFastRuns,
				MaxConsecutiveFails:  appCfg.Triage.MaxConsecutiveFails,
				TimelineLimit:        appCfg.GitHub.TimelineLimit,
			}, appLog)
			if err != nil {
				return fmt.Errorf("failed to create runner: %w", err)
			}

			return runner.Run(cmd.Context(), issues)
		},
	}

	cmd.Flags().IntSliceVar(&issues, "issues", nil, "処理対象のIssue番号（省略時は自動検出）")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "変更を適用せず実行内容のみ表示")
	cmd.Flags().BoolVar(&skipFastPass, "skip-fast", false, "fastモデルを使わず直接proモデルで分析")
	cmd.Flags().BoolVar(&skipUnchanged, "skip-unchanged", false, "変化のないIssueをキューに積まない")
	cmd.Flags().BoolVar(&sortStale, "sort-stale", false, "変化のないIssueを前回トリアージが古い順に処理")

	return cmd
}
