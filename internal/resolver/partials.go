package resolver

import "regexp"

// partialRefRe matches handlebars partial references like {{> header}} and
// {{>footer args}}. The engine has no hook for resolving partials lazily, so
// references are scanned out of the source and resolved ahead of compilation.
var partialRefRe = regexp.MustCompile(`\{\{>\s*([A-Za-z0-9_][A-Za-z0-9_.-]*)`)

// partialRefs returns the distinct partial names referenced by content, in
// order of first appearance.
func partialRefs(content string) []string {
	matches := partialRefRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}
