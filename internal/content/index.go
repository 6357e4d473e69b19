package content

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// summaryLength caps descriptions derived from the first paragraph.
const summaryLength = 160

// Doc is one Markdown document in the content directory.
type Doc struct {
	Slug         string
	Path         string // slash-separated, relative to the content root
	Title        string
	Description  string
	SidebarLabel string
	Order        *int
	Hidden       bool
	Draft        bool
	Fingerprint  string
	LastUpdated  time.Time
	Body         []byte
}

// Label is the text used for the document in generated navigation.
func (d *Doc) Label() string {
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	return d.Title
}

// Dir is the slug of the directory holding the document file.
func (d *Doc) Dir() string {
	dir := path.Dir(d.Path)
	if dir == "." {
		return ""
	}
	return slugify(dir)
}

type docFrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Draft       bool   `yaml:"draft"`
	Sidebar     struct {
		Label  string `yaml:"label"`
		Order  *int   `yaml:"order"`
		Hidden bool   `yaml:"hidden"`
	} `yaml:"sidebar"`
}

// Index holds the scanned documents keyed by slug.
type Index struct {
	docs   []*Doc
	bySlug map[string]*Doc
}

// NewIndex builds an index from already parsed documents. Slugs must be unique.
func NewIndex(docs ...*Doc) (*Index, error) {
	idx := &Index{bySlug: make(map[string]*Doc, len(docs))}
	for _, d := range docs {
		if prev, dup := idx.bySlug[d.Slug]; dup {
			return nil, fmt.Errorf("duplicate slug %q: %s and %s", d.Slug, prev.Path, d.Path)
		}
		idx.bySlug[d.Slug] = d
		idx.docs = append(idx.docs, d)
	}
	slices.SortFunc(idx.docs, func(a, b *Doc) int { return strings.Compare(a.Slug, b.Slug) })
	return idx, nil
}

// Scan walks fsys and parses every .md and .mdx file. Files and directories
// whose names start with a dot are ignored.
func Scan(ctx context.Context, fsys fs.FS) (*Index, error) {
	var docs []*Doc
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdown(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		doc, err := ParseDoc(p, data)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}
	return NewIndex(docs...)
}

// ParseDoc builds a Doc from a file's path (relative to the content root) and contents.
func ParseDoc(p string, data []byte) (*Doc, error) {
	fm, body, _, err := frontmatter.Split(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	var meta docFrontMatter
	if err := frontmatter.Decode(fm, &meta); err != nil {
		return nil, fmt.Errorf("%s: invalid frontmatter: %w", p, err)
	}
	fp, err := fingerprint(fm, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	doc := &Doc{
		Slug:         slugFor(p),
		Path:         p,
		Title:        strings.TrimSpace(meta.Title),
		Description:  strings.TrimSpace(meta.Description),
		SidebarLabel: strings.TrimSpace(meta.Sidebar.Label),
		Order:        meta.Sidebar.Order,
		Hidden:       meta.Sidebar.Hidden,
		Draft:        meta.Draft,
		Fingerprint:  fp,
		Body:         body,
	}
	if doc.Title == "" {
		if h, ok := markdown.FirstHeading(body); ok {
			doc.Title = h
		} else {
			doc.Title = labelFromName(titleSource(p))
		}
	}
	if doc.Description == "" {
		doc.Description = markdown.Summary(body, summaryLength)
	}
	return doc, nil
}

// fingerprint hashes the frontmatter fields (minus any stored fingerprint)
// together with the body.
func fingerprint(fm, body []byte) (string, error) {
	fields, err := frontmatter.ParseYAML(fm)
	if err != nil {
		return "", fmt.Errorf("invalid frontmatter: %w", err)
	}
	delete(fields, mdfp.FingerprintField)
	canonical := ""
	if len(fields) > 0 {
		out, err := yaml.Marshal(fields)
		if err != nil {
			return "", err
		}
		canonical = strings.TrimSuffix(string(out), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(canonical, string(body)), nil
}

// Lookup returns the document with the given slug.
func (idx *Index) Lookup(slug string) (*Doc, bool) {
	d, ok := idx.bySlug[slug]
	return d, ok
}

// Docs returns all documents ordered by slug.
func (idx *Index) Docs() []*Doc {
	return slices.Clone(idx.docs)
}

// Len is the number of indexed documents.
func (idx *Index) Len() int { return len(idx.docs) }

// Under returns the documents whose file lives in dir or below it, ordered by slug.
func (idx *Index) Under(dir string) []*Doc {
	var out []*Doc
	for _, d := range idx.docs {
		if within(d.Dir(), dir) {
			out = append(out, d)
		}
	}
	return out
}

func within(docDir, dir string) bool {
	if dir == "" {
		return true
	}
	return docDir == dir || strings.HasPrefix(docDir, dir+"/")
}

func isMarkdown(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

// slugFor maps a content path to its slug: extension dropped, lower-cased,
// spaces replaced by dashes. An index file takes its directory's slug.
func slugFor(p string) string {
	p = strings.TrimSuffix(p, path.Ext(p))
	if path.Base(p) == "index" {
		p = path.Dir(p)
		if p == "." {
			return ""
		}
	}
	return slugify(p)
}

func slugify(p string) string {
	return strings.ReplaceAll(strings.ToLower(p), " ", "-")
}

// titleSource is the name a title is derived from when the document has none:
// the file name, or the directory name for index files.
func titleSource(p string) string {
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if name == "index" {
		if dir := path.Dir(p); dir != "." {
			return path.Base(dir)
		}
	}
	return name
}
