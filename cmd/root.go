package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sabaki-dev/sabaki/internal/config"
	"github.com/sabaki-dev/sabaki/internal/logger"
	"github.com/sabaki-dev/sabaki/internal/version"
)

var (
	cfgFile string
	verbose bool
	rootCmd *cobra.Command
	appCfg  *config.Config
	appLog  logger.Logger
)

func init() {
	rootCmd = newRootCmd()
	addCommands(rootCmd)
}

func addCommands(cmd *cobra.Command) {
	cmd.AddCommand(newTriageCmd())
	cmd.AddCommand(newStatusCmd())
}

// NewRootCmd creates a new root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := newRootCmd()
	addCommands(cmd)
	return cmd
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sabaki",
		Short: "LLMによるIssueトリアージツール",
		Long: `sabakiは、GitHubリポジトリのIssueをLLMで分析し、
ラベル付け・コメント・タイトル修正・クローズ判断を自動化するツールです。
GitHub Actionsのステップとしても、単体のCLIとしても動作します。`,
		Version: version.Get().String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			appCfg = config.NewConfig()
			appCfg.LoadOrDefault(cfgFile)

			// ロガーの初期化
			if verbose {
				os.Setenv("DEBUG", "true")
			}
			var err error
			appLog, err = logger.NewFromEnv()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "設定ファイルのパス")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "詳細出力")

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
