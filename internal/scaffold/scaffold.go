package scaffold

import (
	"embed"
	"errors"
	"html"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates
var templateFiles embed.FS

const (
	templateRoot   = "templates"
	templateSuffix = ".tmpl"
)

// Data fills the starter templates.
type Data struct {
	Title string
	Port  int
}

// cache stores parsed templates to avoid repeated parsing
var (
	cache   = make(map[string]*template.Template)
	cacheMu sync.RWMutex
)

// Files returns the paths Init writes, relative to the deck directory.
func Files() ([]string, error) {
	var files []string
	err := fs.WalkDir(templateFiles, templateRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, templateSuffix) {
			return nil
		}
		rel := strings.TrimPrefix(p, templateRoot+"/")
		files = append(files, strings.TrimSuffix(rel, templateSuffix))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Render executes the starter template for the file at name (as returned by Files).
func Render(name string, data Data) (string, error) {
	tmpl, err := load(name)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", &TemplateError{Name: name, Message: "failed to execute template", Cause: err}
	}
	return sb.String(), nil
}

// Init writes the starter deck into dir and returns the files written.
// Existing files are left alone and reported as an ExistsError unless force is set;
// nothing is written when any target exists.
func Init(dir string, data Data, force bool) ([]string, error) {
	files, err := Files()
	if err != nil {
		return nil, err
	}

	if !force {
		for _, name := range files {
			target := filepath.Join(dir, filepath.FromSlash(name))
			if _, err := os.Stat(target); err == nil {
				return nil, &ExistsError{Path: target}
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	written := make([]string, 0, len(files))
	for _, name := range files {
		rendered, err := Render(name, data)
		if err != nil {
			return written, err
		}
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return written, err
		}
		if err := os.WriteFile(target, []byte(rendered), 0644); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

// clearCache empties the template cache.
func clearCache() {
	cacheMu.Lock()
	cache = make(map[string]*template.Template)
	cacheMu.Unlock()
}

// load parses and caches a starter template.
func load(name string) (*template.Template, error) {
	cacheMu.RLock()
	if tmpl, exists := cache[name]; exists {
		cacheMu.RUnlock()
		return tmpl, nil
	}
	cacheMu.RUnlock()

	content, err := templateFiles.ReadFile(path.Join(templateRoot, name+templateSuffix))
	if err != nil {
		return nil, &TemplateError{Name: name, Message: "template not found", Cause: err}
	}

	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"escape": html.EscapeString,
	}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Name: name, Message: "failed to parse template", Cause: err}
	}

	cacheMu.Lock()
	cache[name] = tmpl
	cacheMu.Unlock()

	return tmpl, nil
}
