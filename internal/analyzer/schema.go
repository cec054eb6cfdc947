package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DesiredState はモデルが指示できるIssueの状態
const (
	StateOpen       = "open"
	StateCompleted  = "completed"
	StateNotPlanned = "not_planned"
)

// AnalysisResult はモデルの構造化された分析結果。
// 永続化はされず、TriageRecordに要約されるだけの一時データ。
type AnalysisResult struct {
	Summary   string
	Reasoning string
	// Labels はモデルが提案したラベルの完全な集合。
	// HasLabels がtrueのときのみ意味を持つ（空配列の提示は「全ラベル削除」の指示）。
	Labels    []string
	HasLabels bool
	Comment   string
	NewTitle  string
	// State は open / completed / not_planned のいずれか、または空
	State string
}

// rawAnalysis はモデルJSONの境界表現。フィールドの有無を区別するためポインタを使う。
type rawAnalysis struct {
	Summary   string    `json:"summary"`
	Reasoning string    `json:"reasoning"`
	Labels    *[]string `json:"labels"`
	Comment   string    `json:"comment"`
	NewTitle  string    `json:"new_title"`
	State     string    `json:"state"`
}

var (
	// コードフェンス除去用（```json ... ``` など）
	codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")
	// 混在テキストからのJSONオブジェクト抽出用
	jsonObjectRegex = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
)

// DecodeAnalysis はモデルの応答テキストをAnalysisResultに変換する。
// 境界で防御的に検証し、未知の形は受け付けない:
//  1. そのままJSONとしてパース
//  2. コードフェンスを剥がして再試行
//  3. 混在テキストからJSONオブジェクトを抽出して再試行
func DecodeAnalysis(text string) (*AnalysisResult, error) {
	candidates := []string{strings.TrimSpace(text)}

	if m := codeFenceRegex.FindStringSubmatch(text); len(m) > 1 {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if m := jsonObjectRegex.FindString(text); m != "" {
		candidates = append(candidates, m)
	}

	var lastErr error
	for _, candidate := range candidates {
		if candidate == "" || candidate[0] != '{' {
			continue
		}
		var raw rawAnalysis
		if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
			lastErr = err
			continue
		}
		return fromRaw(&raw)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no JSON object found in model response")
	}
	return nil, fmt.Errorf("failed to parse analysis response: %w", lastErr)
}

func fromRaw(raw *rawAnalysis) (*AnalysisResult, error) {
	result := &AnalysisResult{
		Summary:   strings.TrimSpace(raw.Summary),
		Reasoning: strings.TrimSpace(raw.Reasoning),
		Comment:   raw.Comment,
		NewTitle:  strings.TrimSpace(raw.NewTitle),
	}

	if raw.Labels != nil {
		result.HasLabels = true
		labels := make([]string, 0, len(*raw.Labels))
		for _, l := range *raw.Labels {
			l = strings.TrimSpace(l)
			if l != "" {
				labels = append(labels, l)
			}
		}
		result.Labels = labels
	}

	switch raw.State {
	case "", StateOpen, StateCompleted, StateNotPlanned:
		result.State = raw.State
	default:
		// 未知の状態値は無視する（statusフィールドの形が揺れることがある）
		result.State = ""
	}

	return result, nil
}

// ResponseSchema はモデルに提示するJSONスキーマの説明文
const ResponseSchema = `{
  "summary": "one-paragraph summary of the issue (required)",
  "reasoning": "why you chose these actions (required)",
  "labels": ["complete desired label set; omit the field to leave labels unchanged"],
  "comment": "markdown comment to post, or omit",
  "new_title": "replacement title, or omit",
  "state": "open | completed | not_planned, or omit"
}`
