package version

import "fmt"

// ldflagsで上書きされるビルド情報
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info はビルド時に埋め込まれた識別情報の組
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get は現在のビルド情報を返す
func Get() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	}
}

// String はバージョン表示用の1行文字列を返す
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}
