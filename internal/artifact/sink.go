package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sabaki-dev/sabaki/internal/logger"
)

// Sink はデバッグ用の中間生成物（プロンプト・分析結果・プラン）を
// ローカルディレクトリに書き出す。ベストエフォートであり、
// 書き込み失敗はログに残して握りつぶす。実行を止めることは決してない。
type Sink struct {
	dir    string
	logger logger.Logger
}

// New は新しいSinkを作成する。dirが空の場合は何も書かないSinkを返す。
func New(dir string, log logger.Logger) *Sink {
	return &Sink{
		dir:    dir,
		logger: log,
	}
}

// Enabled は書き出しが有効かどうかを返す
func (s *Sink) Enabled() bool {
	return s.dir != ""
}

// SaveText はIssueごとのサブディレクトリにテキストを書き出す
func (s *Sink) SaveText(issueNumber int, name, content string) {
	s.save(issueNumber, name, []byte(content))
}

// SaveJSON は値をインデント付きJSONとして書き出す
func (s *Sink) SaveJSON(issueNumber int, name string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.logger.Warn("Failed to encode artifact", "issue", issueNumber, "name", name, "error", err)
		return
	}
	s.save(issueNumber, name, data)
}

func (s *Sink) save(issueNumber int, name string, data []byte) {
	if !s.Enabled() {
		return
	}

	dir := filepath.Join(s.dir, fmt.Sprintf("issue-%d", issueNumber))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Warn("Failed to create artifact directory", "dir", dir, "error", err)
		return
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Warn("Failed to write artifact", "path", path, "error", err)
	}
}
