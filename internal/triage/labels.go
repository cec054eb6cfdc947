package triage

// LabelDiff はラベル集合の差分
type LabelDiff struct {
	// ToAdd は提案に含まれ現状に無いラベル
	ToAdd []string
	// ToRemove は現状に付いていて提案に無いラベル
	ToRemove []string
	// Merged は既知ラベルでフィルタ済みの提案集合（初出順・重複なし）
	Merged []string
}

// IsEmpty は追加も削除も無いかどうかを返す
func (d LabelDiff) IsEmpty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// DiffLabels は現在のラベル集合と提案されたラベル集合の差分を計算する。
// 提案のうちリポジトリに存在しないラベルは差分計算の前に黙って落とす
// （存在しないラベルの付与要求を作らないため）。
func DiffLabels(current, proposed, known []string) LabelDiff {
	knownSet := make(map[string]bool, len(known))
	for _, l := range known {
		knownSet[l] = true
	}

	// 既知ラベルでフィルタしつつ初出順で重複排除
	merged := make([]string, 0, len(proposed))
	mergedSet := make(map[string]bool, len(proposed))
	for _, l := range proposed {
		if !knownSet[l] || mergedSet[l] {
			continue
		}
		mergedSet[l] = true
		merged = append(merged, l)
	}

	currentSet := make(map[string]bool, len(current))
	for _, l := range current {
		currentSet[l] = true
	}

	toAdd := make([]string, 0)
	for _, l := range merged {
		if !currentSet[l] {
			toAdd = append(toAdd, l)
		}
	}

	toRemove := make([]string, 0)
	for _, l := range current {
		if !mergedSet[l] {
			toRemove = append(toRemove, l)
		}
	}

	return LabelDiff{
		ToAdd:    toAdd,
		ToRemove: toRemove,
		Merged:   merged,
	}
}
