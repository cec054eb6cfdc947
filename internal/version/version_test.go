package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.Commit)
	assert.Equal(t, Date, info.Date)
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "1.2.3", Commit: "abc1234", Date: "2026-08-01"}

	assert.Equal(t, "1.2.3 (commit abc1234, built 2026-08-01)", info.String())
}
