package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/sabaki-dev/sabaki/internal/logger"
)

// TriageRecord はIssueごとの前回トリアージ結果のメモ。
// レコードが存在する ⟺ そのIssueは少なくとも一度トリアージ済み。
type TriageRecord struct {
	TriagedAt string `json:"triaged_at"`
	Summary   string `json:"summary,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
	Reactions int    `json:"reactions"`
}

// TriagedAtMs はトリアージ日時をエポックミリ秒で返す。
// パースできない場合はok=falseを返す。
func (r TriageRecord) TriagedAtMs() (int64, bool) {
	t, err := time.Parse(time.RFC3339, r.TriagedAt)
	if err != nil {
		return 0, false
	}
	return t.UnixMilli(), true
}

// Store はIssue番号をキーとするトリアージDB。
// プロセス内に単一のワーカーしかいない前提で、ロックは持たない。
type Store struct {
	path    string
	records map[string]TriageRecord
	logger  logger.Logger
}

// New は新しいStoreを作成する
func New(path string, log logger.Logger) *Store {
	return &Store{
		path:    path,
		records: make(map[string]TriageRecord),
		logger:  log,
	}
}

// Load はDBファイルを読み込む。ファイルが存在しない・壊れている場合は
// 空のDBとして続行し、エラーにはしない。
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read triage database, starting empty", "path", s.path, "error", err)
		}
		s.records = make(map[string]TriageRecord)
		return
	}

	records := make(map[string]TriageRecord)
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Failed to parse triage database, starting empty", "path", s.path, "error", err)
		s.records = make(map[string]TriageRecord)
		return
	}
	s.records = records
}

// Save はDBファイルを書き出す。一時ファイル経由で置き換える。
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode triage database: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write triage database: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace triage database: %w", err)
	}
	return nil
}

// Get はIssue番号に対応するレコードを返す
func (s *Store) Get(number int) (TriageRecord, bool) {
	rec, ok := s.records[strconv.Itoa(number)]
	return rec, ok
}

// Set はIssue番号に対応するレコードを設定する
func (s *Store) Set(number int, rec TriageRecord) {
	s.records[strconv.Itoa(number)] = rec
}

// Len は保存されているレコード数を返す
func (s *Store) Len() int {
	return len(s.records)
}

// Numbers は記録済みのIssue番号を昇順で返す
func (s *Store) Numbers() []int {
	numbers := make([]int, 0, len(s.records))
	for k := range s.records {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}
