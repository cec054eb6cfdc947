package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/sabaki-dev/sabaki/internal/logger"
)

// Config はAnalyzerの設定
type Config struct {
	FastModel      string
	ProModel       string
	MaxRetries     int
	InitialBackoff time.Duration
}

// Analyzer は2層のモデル（fast/pro）でIssueを分析する。
// fastで当たりを付けてopsが出たときだけproに昇格させるのはランナー側の責務で、
// Analyzer自体は個々の呼び出しを担当する。
type Analyzer struct {
	caller ModelCaller
	config Config
	logger logger.Logger

	// テストから差し替えるためのスリープフック
	sleep func(context.Context, time.Duration) error
}

// New は新しいAnalyzerを作成する
func New(caller ModelCaller, config Config, log logger.Logger) (*Analyzer, error) {
	if caller == nil {
		return nil, errors.New("model caller is required")
	}
	if config.FastModel == "" || config.ProModel == "" {
		return nil, errors.New("fast and pro models are required")
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = 1 * time.Second
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	return &Analyzer{
		caller: caller,
		config: config,
		logger: log,
	}, nil
}

// AnalyzeFast は低コストモデルで分析を実行する
func (a *Analyzer) AnalyzeFast(ctx context.Context, prompt Prompt) (*AnalysisResult, *ModelResponse, error) {
	return a.analyze(ctx, a.config.FastModel, prompt)
}

// AnalyzePro は高性能モデルで分析を実行する
func (a *Analyzer) AnalyzePro(ctx context.Context, prompt Prompt) (*AnalysisResult, *ModelResponse, error) {
	return a.analyze(ctx, a.config.ProModel, prompt)
}

func (a *Analyzer) analyze(ctx context.Context, model string, prompt Prompt) (*AnalysisResult, *ModelResponse, error) {
	started := time.Now()
	req := ModelRequest{
		Model:  model,
		System: prompt.System,
		Prompt: prompt.User,
	}

	result, resp, err := CallModel(ctx, a.caller, req, a.config.MaxRetries, a.config.InitialBackoff, a.sleep)
	if err != nil {
		a.logger.Warn("Model analysis failed",
			"model", model,
			"duration", time.Since(started),
			"error", err,
		)
		return nil, nil, err
	}

	a.logger.Debug("Model analysis completed",
		"model", model,
		"duration", time.Since(started),
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)
	return result, resp, nil
}
