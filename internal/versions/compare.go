package versions

import "github.com/Masterminds/semver/v3"

// IsNewerVersion reports whether newVersion is strictly greater than oldVersion.
// It uses semantic versioning for comparison when both strings are valid semver,
// and falls back to lexicographic string comparison otherwise.
func IsNewerVersion(newVersion, oldVersion string) bool {
	newSemver, errNew := semver.NewVersion(newVersion)
	oldSemver, errOld := semver.NewVersion(oldVersion)

	if errNew != nil || errOld != nil {
		// Fallback to string comparison if semver parsing fails
		return newVersion > oldVersion
	}

	return newSemver.GreaterThan(oldSemver)
}

// Latest returns the highest version in the list, preferring stable
// releases over prereleases. Returns empty string for an empty list.
func Latest(versions []string) string {
	var latest string
	var latestStable string

	for _, v := range versions {
		if latest == "" || IsNewerVersion(v, latest) {
			latest = v
		}
		if isStable(v) && (latestStable == "" || IsNewerVersion(v, latestStable)) {
			latestStable = v
		}
	}

	if latestStable != "" {
		return latestStable
	}
	return latest
}

// isStable reports whether v is a semver release without prerelease
// metadata. Non-semver strings are treated as stable.
func isStable(v string) bool {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return true
	}
	return sv.Prerelease() == ""
}
