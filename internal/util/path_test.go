package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/srv/stack/.env", ResolvePath("/srv/stack", ".env"))
	assert.Equal(t, "/etc/stack.json", ResolvePath("/srv/stack", "/etc/stack.json"))
	assert.Equal(t, "/srv/other", ResolvePath("/srv/stack", "../other"))
}

func TestIsWithin(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{"root itself", root, true},
		{"existing child", filepath.Join(root, "stackctl.json"), true},
		{"missing nested child", filepath.Join(root, "a", "b", "c.json"), true},
		{"parent", filepath.Dir(root), false},
		{"sibling with shared prefix", root + "-other/stackctl.json", false},
		{"dotdot escape", filepath.Join(root, "..", "stackctl.json"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithin(root, tt.target))
		})
	}
}

func TestIsWithinSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(outside, link))

	assert.False(t, IsWithin(root, filepath.Join(link, "stackctl.json")))
}
