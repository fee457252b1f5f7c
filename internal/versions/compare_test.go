package versions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNewerVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		newVersion string
		oldVersion string
		expected   bool
	}{
		// Valid semver comparisons
		{name: "newer major version", newVersion: "2.0.0", oldVersion: "1.0.0", expected: true},
		{name: "newer minor version", newVersion: "1.2.0", oldVersion: "1.1.0", expected: true},
		{name: "newer patch version", newVersion: "1.0.2", oldVersion: "1.0.1", expected: true},
		{name: "older major version", newVersion: "1.0.0", oldVersion: "2.0.0", expected: false},
		{name: "equal versions", newVersion: "1.0.0", oldVersion: "1.0.0", expected: false},
		{name: "prerelease vs release", newVersion: "1.0.0", oldVersion: "1.0.0-alpha", expected: true},
		{name: "release vs prerelease", newVersion: "1.0.0-alpha", oldVersion: "1.0.0", expected: false},
		{name: "newer prerelease", newVersion: "1.0.0-beta", oldVersion: "1.0.0-alpha", expected: true},
		// Fallback to string comparison for non-semver
		{name: "non-semver string comparison newer", newVersion: "version-b", oldVersion: "version-a", expected: true},
		{name: "non-semver string comparison older", newVersion: "version-a", oldVersion: "version-b", expected: false},
		{name: "empty new version", newVersion: "", oldVersion: "1.0.0", expected: false},
		{name: "both empty", newVersion: "", oldVersion: "", expected: false},
		// Edge cases with v prefix
		{name: "v prefix newer", newVersion: "v2.0.0", oldVersion: "v1.0.0", expected: true},
		{name: "v prefix older", newVersion: "v1.0.0", oldVersion: "v2.0.0", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := IsNewerVersion(tt.newVersion, tt.oldVersion)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		versions []string
		expected string
	}{
		{name: "empty list", versions: nil, expected: ""},
		{name: "single version", versions: []string{"1.0.0"}, expected: "1.0.0"},
		{name: "ordered list", versions: []string{"0.1.0", "0.2.0", "1.0.0"}, expected: "1.0.0"},
		{name: "unordered list", versions: []string{"1.2.0", "0.9.0", "1.0.0"}, expected: "1.2.0"},
		{name: "stable preferred over newer prerelease", versions: []string{"1.0.0", "1.1.0-rc.1"}, expected: "1.0.0"},
		{name: "only prereleases", versions: []string{"1.0.0-alpha", "1.0.0-beta"}, expected: "1.0.0-beta"},
		{name: "non-semver versions", versions: []string{"2021.1", "2022.3", "2022.1"}, expected: "2022.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Latest(tt.versions))
		})
	}
}
