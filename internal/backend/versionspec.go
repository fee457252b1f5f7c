package backend

import "strings"

// VersionSpecKind enumerates the recognized version specifier forms.
type VersionSpecKind int

const (
	// SpecRegistry is a plain registry version string
	SpecRegistry VersionSpecKind = iota
	// SpecHead targets the default branch head of a git source
	SpecHead
	// SpecRev targets a specific git revision
	SpecRev
	// SpecBranch targets a git branch
	SpecBranch
	// SpecTag targets a git tag
	SpecTag
)

// VersionSpec is the parsed form of a user-supplied version string.
type VersionSpec struct {
	Kind VersionSpecKind

	// Ref is the revision, branch, tag, or registry version; empty for
	// SpecHead
	Ref string
}

// ParseVersionSpec parses a version string into its specifier form.
// Prefixes are checked in a fixed order (rev, branch, tag) before the
// HEAD literal; anything else is a registry version. Parsing is total:
// every input maps to exactly one form.
func ParseVersionSpec(version string) VersionSpec {
	if ref, ok := strings.CutPrefix(version, "rev:"); ok {
		return VersionSpec{Kind: SpecRev, Ref: ref}
	}
	if ref, ok := strings.CutPrefix(version, "branch:"); ok {
		return VersionSpec{Kind: SpecBranch, Ref: ref}
	}
	if ref, ok := strings.CutPrefix(version, "tag:"); ok {
		return VersionSpec{Kind: SpecTag, Ref: ref}
	}
	if version == "HEAD" {
		return VersionSpec{Kind: SpecHead}
	}
	return VersionSpec{Kind: SpecRegistry, Ref: version}
}
