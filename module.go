package erldoc

import "regexp"

var moduleNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateModuleName returns an error if name cannot be used both as a URL
// path segment and as a file name.
func ValidateModuleName(name string) error {
	if name == "" {
		return Errorf(EINVALID, "module name required")
	}
	if !moduleNameRe.MatchString(name) {
		return Errorf(EINVALID, "invalid module name %q", name)
	}
	return nil
}

// ValidateModuleNames validates every name and rejects duplicates.
func ValidateModuleNames(names []string) error {
	if len(names) == 0 {
		return Errorf(EINVALID, "at least one module required")
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if err := ValidateModuleName(name); err != nil {
			return err
		}
		if _, ok := seen[name]; ok {
			return Errorf(EINVALID, "duplicate module name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
