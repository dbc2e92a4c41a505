package namespace

import (
	"fmt"
	"strings"
)

// Clean normalizes a path so that it starts with "/" and has no trailing
// slash. The empty path is the root.
func Clean(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(path, "/")
}

// Split returns the segments of path after Clean.
//
// Examples:
//   - "/" -> []string{}
//   - "/restart" -> []string{"restart"}
//   - "restart/temperature/" -> []string{"restart", "temperature"}
//
// Empty, "." and ".." segments are rejected.
func Split(path string) ([]string, error) {
	path = Clean(path)
	if path == "/" {
		return []string{}, nil
	}
	segs := strings.Split(path[1:], "/")
	for _, s := range segs {
		if err := checkSegment(s); err != nil {
			return nil, fmt.Errorf("%w: %q", err, path)
		}
	}
	return segs, nil
}

// CheckName reports whether name can be a single path segment: it must
// be non-empty, contain no "/" and not be "." or "..".
func CheckName(name string) error {
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: name %q contains a separator", ErrInvalidPath, name)
	}
	return checkSegment(name)
}

func checkSegment(s string) error {
	switch s {
	case "":
		return fmt.Errorf("%w: empty segment", ErrInvalidPath)
	case ".", "..":
		return fmt.Errorf("%w: relative segment %q", ErrInvalidPath, s)
	}
	return nil
}

// Join appends name to the group path dir.
func Join(dir, name string) string {
	dir = Clean(dir)
	name = strings.Trim(name, "/")
	if name == "" {
		return dir
	}
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

// Dir returns the parent group path of path. Dir("/") is "/".
func Dir(path string) string {
	path = Clean(path)
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return "/"
	}
	return path[:i]
}

// Base returns the last segment of path, or "/" for the root.
func Base(path string) string {
	path = Clean(path)
	if path == "/" {
		return "/"
	}
	return path[strings.LastIndex(path, "/")+1:]
}
