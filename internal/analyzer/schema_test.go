package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		check   func(t *testing.T, result *AnalysisResult)
	}{
		{
			name: "正常系: 素のJSON",
			text: `{"summary": "dup of #10", "reasoning": "same stack trace", "labels": ["duplicate"], "state": "not_planned"}`,
			check: func(t *testing.T, result *AnalysisResult) {
				assert.Equal(t, "dup of #10", result.Summary)
				assert.Equal(t, "same stack trace", result.Reasoning)
				assert.True(t, result.HasLabels)
				assert.Equal(t, []string{"duplicate"}, result.Labels)
				assert.Equal(t, StateNotPlanned, result.State)
			},
		},
		{
			name: "正常系: コードフェンス付き",
			text: "```json\n{\"summary\": \"ok\"}\n```",
			check: func(t *testing.T, result *AnalysisResult) {
				assert.Equal(t, "ok", result.Summary)
			},
		},
		{
			name: "正常系: 前後に散文が混ざったJSON",
			text: "Here is my analysis:\n{\"summary\": \"ok\", \"comment\": \"please add logs\"}\nHope this helps!",
			check: func(t *testing.T, result *AnalysisResult) {
				assert.Equal(t, "ok", result.Summary)
				assert.Equal(t, "please add logs", result.Comment)
			},
		},
		{
			name: "正常系: labelsフィールド省略",
			text: `{"summary": "ok"}`,
			check: func(t *testing.T, result *AnalysisResult) {
				assert.False(t, result.HasLabels)
				assert.Nil(t, result.Labels)
			},
		},
		{
			name: "正常系: labelsが空配列なら提示ありの空集合",
			text: `{"summary": "ok", "labels": []}`,
			check: func(t *testing.T, result *AnalysisResult) {
				assert.True(t, result.HasLabels)
				assert.Empty(t, result.Labels)
			},
		},
		{
			name: "正常系: ラベル内の空白と空文字列を除去",
			text: `{"summary": "ok", "labels": [" bug ", "", "enhancement"]}`,
			check: func(t *testing.T, result *AnalysisResult) {
				assert.Equal(t, []string{"bug", "enhancement"}, result.Labels)
			},
		},
		{
			name: "正常系: 未知のstate値は無視",
			text: `{"summary": "ok", "state": "closed"}`,
			check: func(t *testing.T, result *AnalysisResult) {
				assert.Equal(t, "", result.State)
			},
		},
		{
			name: "正常系: タイトルはトリムされる",
			text: `{"summary": "ok", "new_title": "  Fix crash  "}`,
			check: func(t *testing.T, result *AnalysisResult) {
				assert.Equal(t, "Fix crash", result.NewTitle)
			},
		},
		{
			name:    "異常系: JSONが含まれない",
			text:    "I could not analyze this issue.",
			wantErr: true,
		},
		{
			name:    "異常系: 壊れたJSON",
			text:    `{"summary": "ok",`,
			wantErr: true,
		},
		{
			name:    "異常系: 空文字列",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeAnalysis(tt.text)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, result)
		})
	}
}
