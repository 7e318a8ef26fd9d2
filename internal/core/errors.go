package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRouteTableMalformed = errors.New("malformed route table")
	ErrUnresolvedImport    = errors.New("unresolved import")
	ErrRouteNotFound       = errors.New("route not found")
	ErrReportMissing       = errors.New("report missing")
	ErrRenderFailed        = errors.New("render failed")
	ErrNoPagesGenerated    = errors.New("no pages generated")
)

// UnresolvedImportError is returned when a component's import specifier
// cannot be mapped to a file.
type UnresolvedImportError struct {
	Component  string
	Specifier  string
	Candidates []string
	Reason     string
}

func (e *UnresolvedImportError) Error() string {
	var sb strings.Builder
	if e.Specifier == "" {
		fmt.Fprintf(&sb, "no import found for component %s", e.Component)
	} else {
		fmt.Fprintf(&sb, "unable to resolve import %q for component %s", e.Specifier, e.Component)
	}
	if e.Reason != "" {
		fmt.Fprintf(&sb, ": %s", e.Reason)
	}
	if len(e.Candidates) > 0 {
		fmt.Fprintf(&sb, ". Tried: %s", strings.Join(e.Candidates, ", "))
	}
	return sb.String()
}

func (e *UnresolvedImportError) Is(target error) bool {
	return target == ErrUnresolvedImport
}

// RouteNotFoundError is returned when a concrete path matches no pattern.
type RouteNotFoundError struct {
	Path     string
	Patterns []string
}

func (e *RouteNotFoundError) Error() string {
	if len(e.Patterns) == 0 {
		return fmt.Sprintf("route not found: %s (route table is empty)", e.Path)
	}
	return fmt.Sprintf("route not found: %s (available: %s)", e.Path, strings.Join(e.Patterns, ", "))
}

func (e *RouteNotFoundError) Is(target error) bool {
	return target == ErrRouteNotFound
}
