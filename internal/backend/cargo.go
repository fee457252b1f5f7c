package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/stacklok/toolhive-tool-manager/internal/cache"
	"github.com/stacklok/toolhive-tool-manager/internal/httpclient"
	"github.com/stacklok/toolhive-tool-manager/internal/logger"
)

const (
	// crateIndexBaseURL is the crates.io sparse index
	crateIndexBaseURL = "https://index.crates.io"

	// remoteVersionsCacheFile is the cache entry name under the
	// per-tool cache directory
	remoteVersionsCacheFile = "remote_versions.json"

	// binstallProgram is the accelerated installer probed on PATH
	binstallProgram = "cargo-binstall"
)

// cargoBackend installs tools published on crates.io, or from git
// repositories via cargo's --git install mode.
type cargoBackend struct {
	arg                *Arg
	http               httpclient.Client
	remoteVersionCache *cache.Manager[[]string]

	// lookPath is swapped in tests to control binstall availability
	lookPath func(file string) (string, error)
}

var _ Backend = (*cargoBackend)(nil)

// NewCargoBackend creates a cargo backend for the given tool name using
// the provided HTTP client for registry fetches.
func NewCargoBackend(name string, client httpclient.Client) Backend {
	arg := NewArg(TypeCargo, name)
	return &cargoBackend{
		arg:                arg,
		http:               client,
		remoteVersionCache: cache.NewManager[[]string](filepath.Join(arg.CacheDir, remoteVersionsCacheFile)),
		lookPath:           exec.LookPath,
	}
}

// Type returns the backend type
func (*cargoBackend) Type() Type {
	return TypeCargo
}

// Arg returns the tool identifier
func (b *cargoBackend) Arg() *Arg {
	return b.arg
}

// Dependencies returns the toolchain required before installs can run
func (*cargoBackend) Dependencies() []string {
	return []string{"cargo", "rust"}
}

// ListRemoteVersions returns the installable versions for the tool.
// Git-sourced tools report the single pseudo-version HEAD without any
// remote call; registry tools are resolved through the persisted cache
// so the sparse index is fetched at most once per tool.
func (b *cargoBackend) ListRemoteVersions(ctx context.Context) ([]string, error) {
	if b.gitURL() != "" {
		// TODO: fetch tags/branches from the git remote
		return []string{"HEAD"}, nil
	}
	return b.remoteVersionCache.GetOrTryInit(ctx, b.fetchRemoteVersions)
}

// crateVersion is one record of the sparse-index document
type crateVersion struct {
	Version string `json:"vers"`
	Yanked  bool   `json:"yanked"`
}

// fetchRemoteVersions downloads the sparse-index document and returns
// the non-yanked versions in published order. The document is a stream
// of JSON records separated by whitespace; one bad record fails the
// whole listing.
func (b *cargoBackend) fetchRemoteVersions(ctx context.Context) ([]string, error) {
	crateURL, err := getCrateURL(b.arg.Name)
	if err != nil {
		return nil, err
	}

	raw, err := b.http.Get(ctx, crateURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch crate index: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	versions := []string{}
	for {
		var entry crateVersion
		if err := dec.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &DecodeError{URL: crateURL, Err: err}
		}
		if !entry.Yanked {
			versions = append(versions, entry.Version)
		}
	}

	logger.Debugf("resolved %d versions for crate %s", len(versions), b.arg.Name)
	return versions, nil
}

// PlanInstall builds the cargo invocation for the requested version.
// Exactly one of three shapes is produced: a git install, an
// accelerated cargo-binstall install, or a plain registry install.
func (b *cargoBackend) PlanInstall(ictx *InstallContext) (*InstallPlan, error) {
	if !ictx.Experimental {
		return nil, &ExperimentalDisabledError{Feature: "cargo backend"}
	}

	installArg := fmt.Sprintf("%s@%s", b.arg.Name, ictx.Version)
	spec := ParseVersionSpec(ictx.Version)

	env := make(map[string]string, len(ictx.Env)+1)
	for k, v := range ictx.Env {
		env[k] = v
	}

	var program string
	var args []string
	switch {
	case b.gitURL() != "":
		program = "cargo"
		args = []string{"install", "--git=" + b.gitURL()}
		switch spec.Kind {
		case SpecRev:
			args = append(args, "--rev="+spec.Ref)
		case SpecBranch:
			args = append(args, "--branch="+spec.Ref)
		case SpecTag:
			args = append(args, "--tag="+spec.Ref)
		case SpecHead:
			// default branch head, no extra ref argument
		case SpecRegistry:
			return nil, &InvalidVersionSpecError{Version: ictx.Version}
		}
	case b.binstallAvailable(ictx):
		program = binstallProgram
		args = []string{"-y", installArg}
		if ictx.GitHubToken != "" {
			env["GITHUB_TOKEN"] = ictx.GitHubToken
		}
	default:
		program = "cargo"
		args = []string{"install", installArg}
	}

	args = append(args, "--locked", "--root", ictx.InstallPath)

	return &InstallPlan{
		Program:    program,
		Args:       args,
		Env:        env,
		ExtraPaths: ictx.Paths,
		Root:       ictx.InstallPath,
	}, nil
}

// binstallAvailable reports whether the accelerated install path is
// both enabled by configuration and present on PATH.
func (b *cargoBackend) binstallAvailable(ictx *InstallContext) bool {
	if !ictx.BinstallEnabled {
		return false
	}
	_, err := b.lookPath(binstallProgram)
	return err == nil
}

// gitURL returns the git remote URL when the tool name refers to a git
// repository, or empty for a registry package. An absolute URL is used
// verbatim; a name with exactly one slash is treated as a GitHub
// user/repo shorthand. The shorthand always targets github.com and the
// repository is not verified to exist.
func (b *cargoBackend) gitURL() string {
	name := b.arg.Name
	if u, err := url.Parse(name); err == nil && u.Scheme != "" && u.Host != "" {
		return name
	}
	user, repo, ok := strings.Cut(name, "/")
	if ok && user != "" && repo != "" && !strings.Contains(repo, "/") {
		return fmt.Sprintf("https://github.com/%s/%s.git", user, repo)
	}
	return ""
}

// getCrateURL maps a crate name onto the sparse-index document
// location. The index shards paths by name length to bound directory
// fan-out: 1- to 3-character names get dedicated tiers, longer names
// shard on their first four characters. Lookup is case-insensitive.
func getCrateURL(name string) (string, error) {
	n := strings.ToLower(name)

	var path string
	switch {
	case len(n) == 0:
		return "", &MalformedLocatorError{URL: crateIndexBaseURL, Err: fmt.Errorf("empty crate name")}
	case len(n) == 1:
		path = "1/" + n
	case len(n) == 2:
		path = "2/" + n
	case len(n) == 3:
		path = "3/" + n[:1] + "/" + n
	default:
		path = n[:2] + "/" + n[2:4] + "/" + n
	}

	crateURL := crateIndexBaseURL + "/" + path
	if _, err := url.ParseRequestURI(crateURL); err != nil {
		return "", &MalformedLocatorError{URL: crateURL, Err: err}
	}
	return crateURL, nil
}
