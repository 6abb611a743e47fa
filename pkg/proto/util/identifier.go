package util

import "strings"

// ValidIdentifier reports whether s is a well-formed "namespace:path"
// identifier: lowercase alphanumerics plus "._-" in the namespace, and
// additionally "/" in the path. An identifier with no ":" is valid only
// if its implicit namespace ("minecraft") would make the whole string a
// valid path.
func ValidIdentifier(s string) bool {
	ns, path, ok := strings.Cut(s, ":")
	if !ok {
		ns, path = "minecraft", s
	}
	if ns == "" || path == "" {
		return false
	}
	for _, r := range ns {
		if !isNamespaceRune(r) {
			return false
		}
	}
	for _, r := range path {
		if !isPathRune(r) {
			return false
		}
	}
	return true
}

func isNamespaceRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}

func isPathRune(r rune) bool {
	return isNamespaceRune(r) || r == '/'
}
