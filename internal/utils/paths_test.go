package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		baseDir  string
		expected string
	}{
		{name: "empty path", path: "", baseDir: "/base", expected: ""},
		{name: "empty base", path: "rel", baseDir: "", expected: "rel"},
		{name: "absolute unchanged", path: "/abs/state", baseDir: "/base", expected: "/abs/state"},
		{name: "relative resolved", path: "state", baseDir: "/base", expected: "/base/state"},
		{name: "parent reference", path: "../reports", baseDir: "/base/sub", expected: "/base/reports"},
		{name: "dot", path: ".", baseDir: "/base", expected: "/base"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.expected), ResolvePath(tt.path, tt.baseDir))
		})
	}
}
