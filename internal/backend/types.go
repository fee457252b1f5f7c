// Package backend defines the tool backend abstraction and the adapters
// implementing it. A backend resolves the installable versions of a tool
// from its upstream source and plans the external package-manager
// invocation that performs the install.
package backend

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/stacklok/toolhive-tool-manager/internal/config"
)

// Type identifies a backend implementation
type Type string

const (
	// TypeCargo is the cargo (crates.io) backend
	TypeCargo Type = "cargo"
)

// Arg identifies the tool a backend instance operates on. Immutable
// after construction.
type Arg struct {
	// Name is the tool name: a registry package name, a full git URL,
	// or a user/repo GitHub shorthand
	Name string

	// BackendType is the backend this tool belongs to
	BackendType Type

	// CacheDir is the per-tool cache directory, derived from the name
	// so every adapter for the same tool shares cache storage
	CacheDir string
}

// NewArg creates a tool identifier with its cache directory derived
// deterministically under the XDG cache home.
func NewArg(backendType Type, name string) *Arg {
	return &Arg{
		Name:        name,
		BackendType: backendType,
		CacheDir: filepath.Join(
			xdg.CacheHome, config.AppName, "backends", string(backendType), sanitizePathComponent(name),
		),
	}
}

// InstallPath returns the install root for one version of this tool,
// derived under the XDG data home.
func (a *Arg) InstallPath(version string) string {
	return filepath.Join(
		xdg.DataHome, config.AppName, "installs",
		string(a.BackendType), sanitizePathComponent(a.Name), sanitizePathComponent(version),
	)
}

// sanitizePathComponent makes a tool name safe to use as a single
// directory name. URLs and user/repo shorthands contain separators.
func sanitizePathComponent(name string) string {
	return strings.NewReplacer("/", "-", ":", "-").Replace(name)
}

// InstallContext carries everything a backend needs to plan an install.
// Configuration reaches the backend as plain values so planning is a
// pure function of its inputs.
type InstallContext struct {
	// Version is the requested version string: a registry version, the
	// literal HEAD, or a rev:/branch:/tag: specifier
	Version string

	// InstallPath is the root directory the tool is installed under
	InstallPath string

	// Env is the environment overlay for the install process
	Env map[string]string

	// Paths are directories prepended to PATH so the invoked tool can
	// see already-installed prerequisite tools
	Paths []string

	// Experimental mirrors the experimental-features config flag
	Experimental bool

	// BinstallEnabled mirrors the cargo.binstall config flag
	BinstallEnabled bool

	// GitHubToken is the optional token forwarded to accelerated
	// installs; empty when unset
	GitHubToken string
}

// InstallPlan is the fully resolved external-process invocation.
// Building a plan never launches a process; the runner consumes it.
type InstallPlan struct {
	// Program is the executable name
	Program string

	// Args is the ordered argument list
	Args []string

	// Env is the environment overlay applied on top of the process
	// environment
	Env map[string]string

	// ExtraPaths are prepended to PATH for the invocation
	ExtraPaths []string

	// Root is the install root directory; also used as the working
	// directory when it exists
	Root string
}

// Backend is implemented by every tool backend adapter.
type Backend interface {
	// Type returns the backend type
	Type() Type

	// Arg returns the tool identifier this backend operates on
	Arg() *Arg

	// Dependencies returns the tools that must be present before this
	// backend can run
	Dependencies() []string

	// ListRemoteVersions returns the installable versions, oldest
	// first, as published by the upstream source
	ListRemoteVersions(ctx context.Context) ([]string, error)

	// PlanInstall builds the external package-manager invocation for
	// the requested version
	PlanInstall(ictx *InstallContext) (*InstallPlan, error)
}
