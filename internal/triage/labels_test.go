package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffLabels(t *testing.T) {
	tests := []struct {
		name         string
		current      []string
		proposed     []string
		known        []string
		wantToAdd    []string
		wantToRemove []string
		wantMerged   []string
	}{
		{
			name:         "正常系: 追加と削除が混在",
			current:      []string{"bug", "stale"},
			proposed:     []string{"bug", "enhancement"},
			known:        []string{"bug", "enhancement", "stale"},
			wantToAdd:    []string{"enhancement"},
			wantToRemove: []string{"stale"},
			wantMerged:   []string{"bug", "enhancement"},
		},
		{
			name:         "正常系: 同一集合なら差分なし",
			current:      []string{"bug", "enhancement"},
			proposed:     []string{"bug", "enhancement"},
			known:        []string{"bug", "enhancement"},
			wantToAdd:    []string{},
			wantToRemove: []string{},
			wantMerged:   []string{"bug", "enhancement"},
		},
		{
			name:         "正常系: 未知のラベルは黙って落とす",
			current:      []string{"bug"},
			proposed:     []string{"bug", "nonexistent"},
			known:        []string{"bug", "enhancement"},
			wantToAdd:    []string{},
			wantToRemove: []string{},
			wantMerged:   []string{"bug"},
		},
		{
			name:         "正常系: 重複は初出順で排除",
			current:      []string{},
			proposed:     []string{"b", "a", "b", "a", "c"},
			known:        []string{"a", "b", "c"},
			wantToAdd:    []string{"b", "a", "c"},
			wantToRemove: []string{},
			wantMerged:   []string{"b", "a", "c"},
		},
		{
			name:         "正常系: 空の提案は全削除",
			current:      []string{"bug", "stale"},
			proposed:     []string{},
			known:        []string{"bug", "stale"},
			wantToAdd:    []string{},
			wantToRemove: []string{"bug", "stale"},
			wantMerged:   []string{},
		},
		{
			name:         "異常系: 既知ラベルが空なら提案は全て落ちる",
			current:      []string{"bug"},
			proposed:     []string{"bug", "enhancement"},
			known:        nil,
			wantToAdd:    []string{},
			wantToRemove: []string{"bug"},
			wantMerged:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := DiffLabels(tt.current, tt.proposed, tt.known)

			assert.Equal(t, tt.wantToAdd, diff.ToAdd)
			assert.Equal(t, tt.wantToRemove, diff.ToRemove)
			assert.Equal(t, tt.wantMerged, diff.Merged)
		})
	}
}

func TestDiffLabels_Properties(t *testing.T) {
	current := []string{"bug", "question", "stale"}
	proposed := []string{"enhancement", "bug", "enhancement", "docs"}
	known := []string{"bug", "question", "stale", "enhancement", "docs"}

	diff := DiffLabels(current, proposed, known)

	// toAdd ∩ current = ∅
	for _, l := range diff.ToAdd {
		assert.NotContains(t, current, l)
	}

	// toRemove ⊆ current
	for _, l := range diff.ToRemove {
		assert.Contains(t, current, l)
	}

	// merged は重複なし
	seen := map[string]int{}
	for _, l := range diff.Merged {
		seen[l]++
	}
	for l, n := range seen {
		assert.Equal(t, 1, n, "label %s duplicated in merged", l)
	}
}

func TestLabelDiff_IsEmpty(t *testing.T) {
	assert.True(t, LabelDiff{}.IsEmpty())
	assert.False(t, LabelDiff{ToAdd: []string{"bug"}}.IsEmpty())
	assert.False(t, LabelDiff{ToRemove: []string{"bug"}}.IsEmpty())
	// Mergedだけが非空でも差分なしとみなす
	assert.True(t, LabelDiff{Merged: []string{"bug"}}.IsEmpty())
}
