package backend

import (
	"fmt"
	"strings"

	"github.com/stacklok/toolhive-tool-manager/internal/httpclient"
)

// New creates the backend for a tool reference of the form
// <backend>:<name>, e.g. cargo:eza or cargo:eza-community/eza.
func New(toolRef string, client httpclient.Client) (Backend, error) {
	backendType, name, ok := strings.Cut(toolRef, ":")
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid tool reference %q: expected <backend>:<name>", toolRef)
	}

	switch Type(backendType) {
	case TypeCargo:
		return NewCargoBackend(name, client), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", backendType)
	}
}
