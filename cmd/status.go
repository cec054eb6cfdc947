package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sabaki-dev/sabaki/internal/store"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "トリアージDBの状態を表示",
		Long:  `保存されているトリアージレコードの一覧と最終トリアージ日時を表示します。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db := store.New(appCfg.Triage.DatabasePath, appLog)
			db.Load()

			out := cmd.OutOrStdout()
			if db.Len() == 0 {
				fmt.Fprintln(out, "トリアージ済みのIssueはありません")
				return nil
			}

			fmt.Fprintf(out, "トリアージ済み: %d件\n", db.Len())
			for _, number := range db.Numbers() {
				rec, _ := db.Get(number)
				fmt.Fprintf(out, "  #%-5d %s  %s\n", number, rec.TriagedAt, truncateSummary(rec.Summary, 60))
			}
			return nil
		},
	}
	return cmd
}

// truncateSummary は要約をmax文字に切り詰める。
// 日本語の要約をバイト境界で切って文字化けさせないよう、ルーン単位で数える。
func truncateSummary(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
