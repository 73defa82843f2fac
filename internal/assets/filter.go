package assets

import (
	"path/filepath"
	"regexp"
)

// Filter reports whether the file at rel (slash-separated, relative to the
// tree being copied) should be copied.
type Filter func(rel string) bool

// frameworkExclude drops the framework's demo pages, licences, readmes and
// package metadata.
var frameworkExclude = regexp.MustCompile(`\.html$|LICENSE$|README\.md$|\.json`)

// sourceExclude drops entry scripts and Markdown sources; both reach the
// output through the bundler and the content emitter instead. The Markdown
// match ignores case like content.IsMarkdown.
var sourceExclude = regexp.MustCompile(`(^|/)index\.js$|(?i:\.md)$`)

// FrameworkFilter selects the slide framework runtime files.
func FrameworkFilter() Filter {
	return Exclude(frameworkExclude)
}

// SourceFilter selects top-level source assets. Entry scripts given in
// entries (relative to srcDir) are excluded in addition to the defaults.
func SourceFilter(srcDir string, entries []string) Filter {
	skip := make(map[string]bool, len(entries))
	for _, entry := range entries {
		rel, err := filepath.Rel(srcDir, entry)
		if err != nil {
			continue
		}
		skip[filepath.ToSlash(rel)] = true
	}

	return All(Exclude(sourceExclude), func(rel string) bool {
		return !skip[rel]
	})
}

// Exclude returns a Filter rejecting every path matched by re.
func Exclude(re *regexp.Regexp) Filter {
	return func(rel string) bool {
		return !re.MatchString(rel)
	}
}

// All combines filters; a file is copied only if every filter accepts it.
func All(filters ...Filter) Filter {
	return func(rel string) bool {
		for _, f := range filters {
			if f != nil && !f(rel) {
				return false
			}
		}
		return true
	}
}
