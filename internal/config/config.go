package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config はアプリケーション全体の設定
type Config struct {
	GitHub    GitHubConfig    `mapstructure:"github"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Triage    TriageConfig    `mapstructure:"triage"`
}

// GitHubConfig はGitHub関連の設定
type GitHubConfig struct {
	Token         string `mapstructure:"token"`
	Owner         string `mapstructure:"owner"`
	Repo          string `mapstructure:"repo"`
	TimelineLimit int    `mapstructure:"timeline_limit"`
}

// AnthropicConfig はLLM関連の設定
type AnthropicConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	FastModel      string        `mapstructure:"fast_model"`
	ProModel       string        `mapstructure:"pro_model"`
	MaxRetries     int           `mapstructure:"max_retries"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
}

// TriageConfig はトリアージ実行の設定
type TriageConfig struct {
	DryRun              bool   `mapstructure:"dry_run"`
	SkipFastPass        bool   `mapstructure:"skip_fast_pass"`
	SkipUnchanged       bool   `mapstructure:"skip_unchanged"`
	MaxTriages          int    `mapstructure:"max_triages"`
	MaxOperations       int    `mapstructure:"max_operations"`
	MaxFastRuns         int    `mapstructure:"max_fast_runs"`
	MaxConsecutiveFails int    `mapstructure:"max_consecutive_fails"`
	DatabasePath        string `mapstructure:"database_path"`
	ArtifactsDir        string `mapstructure:"artifacts_dir"`
}

// NewConfig は新しいConfigを作成する
func NewConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			TimelineLimit: 50,
		},
		Anthropic: AnthropicConfig{
			FastModel:      "claude-3-5-haiku-20241022",
			ProModel:       "claude-sonnet-4-5-20250929",
			MaxRetries:     2,
			InitialBackoff: 1 * time.Second,
		},
		Triage: TriageConfig{
			MaxTriages:          20,
			MaxOperations:       50,
			MaxFastRuns:         100,
			MaxConsecutiveFails: 3,
			DatabasePath:        ".sabaki/triage.json",
			ArtifactsDir:        ".sabaki/artifacts",
		},
	}
}

// Load は設定ファイルから設定を読み込む
func (c *Config) Load(configPath string) error {
	v := viper.New()

	v.SetConfigFile(configPath)

	// 環境変数の設定
	v.SetEnvPrefix("SABAKI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 標準的な環境変数もサポート
	v.BindEnv("github.token", "GITHUB_TOKEN", "SABAKI_GITHUB_TOKEN")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY", "SABAKI_ANTHROPIC_API_KEY")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	if err := v.Unmarshal(c); err != nil {
		return err
	}

	c.applyRepositoryEnv()
	return nil
}

// LoadOrDefault は設定ファイルを読み込み、失敗した場合はデフォルト値と環境変数を使用する
func (c *Config) LoadOrDefault(configPath string) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			// 設定ファイルを読み込む（エラーは無視）
			if err := c.Load(configPath); err == nil {
				return
			}
		}
	}

	// ファイルなしでも環境変数は反映する
	v := viper.New()
	v.SetEnvPrefix("SABAKI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("github.token", "GITHUB_TOKEN", "SABAKI_GITHUB_TOKEN")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY", "SABAKI_ANTHROPIC_API_KEY")
	setDefaults(v)
	_ = v.Unmarshal(c)

	c.applyRepositoryEnv()
}

// applyRepositoryEnv はGitHub Actionsが設定するGITHUB_REPOSITORY(owner/repo)を反映する
func (c *Config) applyRepositoryEnv() {
	if c.GitHub.Owner != "" && c.GitHub.Repo != "" {
		return
	}
	repository := os.Getenv("GITHUB_REPOSITORY")
	if repository == "" {
		return
	}
	parts := strings.SplitN(repository, "/", 2)
	if len(parts) != 2 {
		return
	}
	if c.GitHub.Owner == "" {
		c.GitHub.Owner = parts[0]
	}
	if c.GitHub.Repo == "" {
		c.GitHub.Repo = parts[1]
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.timeline_limit", 50)
	v.SetDefault("anthropic.fast_model", "claude-3-5-haiku-20241022")
	v.SetDefault("anthropic.pro_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_retries", 2)
	v.SetDefault("anthropic.initial_backoff", 1*time.Second)
	v.SetDefault("triage.max_triages", 20)
	v.SetDefault("triage.max_operations", 50)
	v.SetDefault("triage.max_fast_runs", 100)
	v.SetDefault("triage.max_consecutive_fails", 3)
	v.SetDefault("triage.database_path", ".sabaki/triage.json")
	v.SetDefault("triage.artifacts_dir", ".sabaki/artifacts")
}

// Validate は設定の妥当性を検証する。
// 資格情報やリポジトリ情報の不足はIssue処理開始前にここで検出する。
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return errors.New("GitHub token is required (GITHUB_TOKEN)")
	}
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		return errors.New("repository is required (GITHUB_REPOSITORY or github.owner/github.repo)")
	}
	if c.Anthropic.APIKey == "" {
		return errors.New("Anthropic API key is required (ANTHROPIC_API_KEY)")
	}
	if c.Anthropic.MaxRetries < 0 {
		return errors.New("max_retries must not be negative")
	}
	if c.Anthropic.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive: %v", c.Anthropic.InitialBackoff)
	}
	if c.Triage.MaxTriages <= 0 {
		return errors.New("max_triages must be positive")
	}
	if c.Triage.MaxOperations <= 0 {
		return errors.New("max_operations must be positive")
	}
	if c.Triage.MaxConsecutiveFails <= 0 {
		return errors.New("max_consecutive_fails must be positive")
	}
	return nil
}

// ChangesEnabled は実際の書き込み（API変更とDB保存）を行うかどうかを返す
func (c *Config) ChangesEnabled() bool {
	return !c.Triage.DryRun
}
