package github

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	gh "github.com/google/go-github/v50/github"
)

// ClassifyError はgo-githubのエラーを構造化されたGitHubErrorに変換する。
// すでにGitHubErrorの場合はそのまま返す。
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		return err
	}

	// プライマリレート制限
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &GitHubError{
			Type:        ErrorTypeRateLimit,
			StatusCode:  429,
			Message:     rateLimitErr.Message,
			RetryAfter:  time.Until(rateLimitErr.Rate.Reset.Time),
			OriginalErr: err,
		}
	}

	// セカンダリ(abuse)レート制限
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		retryAfter := time.Duration(0)
		if abuseErr.RetryAfter != nil {
			retryAfter = *abuseErr.RetryAfter
		}
		return &GitHubError{
			Type:        ErrorTypeRateLimit,
			StatusCode:  403,
			Message:     abuseErr.Message,
			RetryAfter:  retryAfter,
			OriginalErr: err,
		}
	}

	// APIエラーレスポンス
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) {
		classified := &GitHubError{
			Type:        ErrorTypeUnknown,
			Message:     errResp.Message,
			OriginalErr: err,
		}
		if resp := errResp.Response; resp != nil {
			classified.StatusCode = resp.StatusCode
			if req := resp.Request; req != nil {
				classified.Method = req.Method
				if req.URL != nil {
					classified.URL = req.URL.String()
				}
			}
			classified.RequestID = resp.Header.Get("X-GitHub-Request-Id")
			switch {
			case resp.StatusCode == 401:
				classified.Type = ErrorTypeAuthentication
			case resp.StatusCode == 404:
				classified.Type = ErrorTypeNotFound
			case resp.StatusCode == 429:
				classified.Type = ErrorTypeRateLimit
			case resp.StatusCode >= 500 && resp.StatusCode < 600:
				classified.Type = ErrorTypeServerError
			}
		}
		return classified
	}

	// ネットワーク系エラー
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GitHubError{
			Type:        ErrorTypeNetworkTimeout,
			Message:     netErr.Error(),
			OriginalErr: err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &GitHubError{
			Type:        ErrorTypeNetworkTimeout,
			Message:     err.Error(),
			OriginalErr: err,
		}
	}

	// メッセージ内容からの推定
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"):
		return &GitHubError{Type: ErrorTypeRateLimit, Message: err.Error(), OriginalErr: err}
	case strings.Contains(msg, "bad credentials"), strings.Contains(msg, "unauthorized"):
		return &GitHubError{Type: ErrorTypeAuthentication, Message: err.Error(), OriginalErr: err}
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "dial tcp"), strings.Contains(msg, "timeout"):
		return &GitHubError{Type: ErrorTypeNetworkTimeout, Message: err.Error(), OriginalErr: err}
	}

	return &GitHubError{
		Type:        ErrorTypeUnknown,
		Message:     err.Error(),
		OriginalErr: err,
	}
}
