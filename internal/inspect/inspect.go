// Package inspect checks that a built presentation references only files
// present in the build output.
package inspect

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IndexFile is the page the static server answers "/" with.
const IndexFile = "index.html"

// Reference is a local asset referenced from the index page.
type Reference struct {
	Selector string // element the reference came from, e.g. "script[src]"
	Target   string // path relative to the build root, slash-separated
}

// MissingAssetError lists references that do not resolve to a built file.
type MissingAssetError struct {
	Missing []Reference
}

func (e *MissingAssetError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d referenced asset(s) missing from build output:", len(e.Missing)))
	for _, ref := range e.Missing {
		sb.WriteString(fmt.Sprintf("\n  %s -> %s", ref.Selector, ref.Target))
	}
	return sb.String()
}

var referenceAttrs = []struct {
	selector string
	attr     string
}{
	{"script[src]", "src"},
	{"link[href]", "href"},
	{"img[src]", "src"},
	{"section[data-markdown]", "data-markdown"},
}

// References parses an HTML page and returns every local asset it refers to.
// Absolute URLs, protocol-relative URLs, data: URIs and fragments are ignored.
func References(html string) ([]Reference, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[Reference]bool)
	var refs []Reference
	for _, ra := range referenceAttrs {
		doc.Find(ra.selector).Each(func(_ int, s *goquery.Selection) {
			value, _ := s.Attr(ra.attr)
			target, ok := localTarget(value)
			if !ok {
				return
			}
			ref := Reference{Selector: ra.selector, Target: target}
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		})
	}
	return refs, nil
}

// CheckReferences verifies that every local reference in root/index.html
// exists under root. A build without an index page has nothing to check.
func CheckReferences(root string) ([]Reference, error) {
	data, err := os.ReadFile(filepath.Join(root, IndexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IndexFile, err)
	}

	refs, err := References(string(data))
	if err != nil {
		return nil, err
	}

	var missing []Reference
	for _, ref := range refs {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(ref.Target)))
		if err != nil || info.IsDir() {
			missing = append(missing, ref)
		}
	}

	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool {
			return missing[i].Target < missing[j].Target
		})
		return refs, &MissingAssetError{Missing: missing}
	}
	return refs, nil
}

// localTarget normalises an attribute value to a path inside the build root.
func localTarget(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "#") || strings.HasPrefix(value, "//") {
		return "", false
	}

	u, err := url.Parse(value)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}

	target, err := url.PathUnescape(u.Path)
	if err != nil {
		target = u.Path
	}
	target = strings.TrimPrefix(path.Clean("/"+target), "/")
	if target == "" {
		return "", false
	}
	return target, true
}
