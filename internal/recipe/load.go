package recipe

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// LoadSeed parses the bundled seed data.
func LoadSeed() (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i := range seed.Recipes {
		seed.Recipes[i].Source = "seed"
	}
	return &seed, nil
}

// LoadFile reads a single recipe document from disk.
func LoadFile(p string) (*Doc, error) {
	if strings.TrimSpace(p) == "" {
		return nil, fmt.Errorf("recipe path is required")
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read recipe %s: %w", p, err)
	}
	doc, err := parseDoc(data)
	if err != nil {
		return nil, fmt.Errorf("parse recipe %s: %w", p, err)
	}
	doc.Source = p
	return doc, nil
}

// LoadGlob reads every recipe matching a doublestar pattern such as
// "recipes/**/*.yaml".
func LoadGlob(pattern string) ([]*Doc, error) {
	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	docs, err := LoadFS(os.DirFS(base), rest)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		d.Source = filepath.Join(base, filepath.FromSlash(d.Source))
	}
	return docs, nil
}

// LoadFS reads every recipe in fsys matching pattern, sorted by path.
func LoadFS(fsys fs.FS, pattern string) ([]*Doc, error) {
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	slices.Sort(matches)

	docs := make([]*Doc, 0, len(matches))
	for _, m := range matches {
		ext := strings.ToLower(path.Ext(m))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("read recipe %s: %w", m, err)
		}
		doc, err := parseDoc(data)
		if err != nil {
			return nil, fmt.Errorf("parse recipe %s: %w", m, err)
		}
		doc.Source = m
		docs = append(docs, doc)
	}
	return docs, nil
}

func parseDoc(data []byte) (*Doc, error) {
	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc.Title = strings.TrimSpace(doc.Title)
	if doc.Title == "" {
		return nil, fmt.Errorf("recipe title is required")
	}
	return &doc, nil
}
