package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitToolRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ref         string
		wantTool    string
		wantVersion string
	}{
		{name: "explicit version", ref: "cargo:eza@1.2.3", wantTool: "cargo:eza", wantVersion: "1.2.3"},
		{name: "no version defaults to latest", ref: "cargo:eza", wantTool: "cargo:eza", wantVersion: "latest"},
		{name: "git tag specifier", ref: "cargo:eza-community/eza@tag:v0.18.0", wantTool: "cargo:eza-community/eza", wantVersion: "tag:v0.18.0"},
		{name: "HEAD version", ref: "cargo:eza-community/eza@HEAD", wantTool: "cargo:eza-community/eza", wantVersion: "HEAD"},
		{name: "last @ wins", ref: "cargo:weird@name@2.0.0", wantTool: "cargo:weird@name", wantVersion: "2.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tool, version := splitToolRef(tt.ref)

			assert.Equal(t, tt.wantTool, tool)
			assert.Equal(t, tt.wantVersion, version)
		})
	}
}
