package core

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const DynamicSlug = "/:slug"

func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// JoinRoutePath resolves a child route path against its parent. Absolute
// children are kept as they are.
func JoinRoutePath(parent, child string) string {
	if strings.HasPrefix(child, "/") {
		return NormalizePath(child)
	}
	parent = NormalizePath(parent)
	if parent == "/" {
		return NormalizePath(child)
	}
	return NormalizePath(parent + "/" + child)
}

func ValidateRoutePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must start with /")
	}

	if strings.Contains(path, "?") {
		return fmt.Errorf("path cannot contain query string")
	}

	if strings.Contains(path, "#") {
		return fmt.Errorf("path cannot contain fragment")
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("path cannot contain parent directory references")
	}

	if strings.Contains(path, "*") {
		return fmt.Errorf("path cannot contain wildcards")
	}

	return nil
}

var (
	gitBashPath = regexp.MustCompile(`^/[A-Za-z]:/`)
	windowsPath = regexp.MustCompile(`^[A-Za-z]:[\\/]`)
	pathSplit   = regexp.MustCompile(`[\\/]+`)
)

// SanitizeRouteArg undoes the path mangling Git Bash and cmd.exe apply to
// arguments that look like absolute paths ("/about" arrives as
// "/C:/Program Files/Git/about").
func SanitizeRouteArg(arg string) string {
	if arg == "" || arg == "/" || arg == `\` {
		return "/"
	}
	if !gitBashPath.MatchString(arg) && !windowsPath.MatchString(arg) {
		return arg
	}

	var parts []string
	for _, p := range pathSplit.Split(arg, -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for i, p := range parts {
		if strings.EqualFold(p, "git") {
			tail := parts[i+1:]
			if len(tail) == 0 {
				return "/"
			}
			return strings.Join(tail, "/")
		}
	}
	if len(parts) == 0 {
		return "/"
	}
	return parts[len(parts)-1]
}

// ReportFileBase names the per-route report: "/" becomes "index", "/a/b"
// becomes "a-b".
func ReportFileBase(route string) string {
	route = NormalizePath(route)
	if route == "/" {
		return "index"
	}
	return strings.ReplaceAll(strings.TrimPrefix(route, "/"), "/", "-")
}

// PageDir is the directory holding a route's index.html below outputDir.
func PageDir(outputDir, route string) string {
	route = NormalizePath(route)
	if route == "/" {
		return outputDir
	}
	return filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(route, "/")))
}

func PageHTMLPath(outputDir, route string) string {
	return filepath.Join(PageDir(outputDir, route), "index.html")
}

func HasDynamicSegment(pattern string) bool {
	return strings.Contains(pattern, "/:")
}

// ExpandPattern substitutes slug for the pattern's dynamic segment.
func ExpandPattern(pattern, slug string) string {
	return strings.Replace(pattern, DynamicSlug, "/"+slug, 1)
}

// SlugParam returns the value a concrete path supplies for the pattern's
// dynamic segment, or "" for static patterns and paths outside the pattern.
func SlugParam(pattern, concrete string) string {
	i := strings.Index(pattern, DynamicSlug)
	if i < 0 {
		return ""
	}
	static := pattern[:i+1]
	concrete = NormalizePath(concrete)
	if !strings.HasPrefix(concrete, static) {
		return ""
	}
	return strings.TrimPrefix(concrete, static)
}
