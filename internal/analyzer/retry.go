package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ModelResponseError はリトライしても回復しなかったモデル応答の失敗。
// 実行ループはこのエラー型のみをIssue単位でスキップ可能として扱う。
type ModelResponseError struct {
	Attempts int
	Message  string
	LastErr  error
}

// Error implements the error interface
func (e *ModelResponseError) Error() string {
	return fmt.Sprintf("model response error after %d attempts: %s", e.Attempts, e.Message)
}

// Unwrap returns the last underlying failure
func (e *ModelResponseError) Unwrap() error {
	return e.LastErr
}

// IsModelResponseError はエラーがモデル応答エラーかどうかを判定する
func IsModelResponseError(err error) bool {
	var mrErr *ModelResponseError
	return errors.As(err, &mrErr)
}

// Backoff は指数バックオフの遅延を計算する。
// delay = initial * 2^(attempt-1)、下限は1ミリ秒。
func Backoff(attempt int, initial time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := initial
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	if delay < time.Millisecond {
		delay = time.Millisecond
	}
	return delay
}

// CallModel はモデル呼び出しと応答のJSONパースを、最大 maxRetries+1 回試行する。
// ネットワークエラー・非2xx・空テキスト・JSONパース失敗のいずれも同じ扱いで
// リトライし、使い切った場合は最後の失敗を持つModelResponseErrorを返す。
func CallModel(ctx context.Context, caller ModelCaller, req ModelRequest, maxRetries int, initialBackoff time.Duration, sleep func(context.Context, time.Duration) error) (*AnalysisResult, *ModelResponse, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if sleep == nil {
		sleep = sleepWithContext
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		resp, err := caller.Call(ctx, req)
		if err == nil {
			var result *AnalysisResult
			result, err = DecodeAnalysis(resp.Text)
			if err == nil {
				return result, resp, nil
			}
		}
		lastErr = err

		if attempt <= maxRetries {
			if sleepErr := sleep(ctx, Backoff(attempt, initialBackoff)); sleepErr != nil {
				return nil, nil, sleepErr
			}
		}
	}

	return nil, nil, &ModelResponseError{
		Attempts: maxRetries + 1,
		Message:  lastErr.Error(),
		LastErr:  lastErr,
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
