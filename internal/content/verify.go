package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/site"
)

// ProblemKind classifies a build-time verification finding.
type ProblemKind string

const (
	KindUnresolvedSlug    ProblemKind = "UnresolvedSlug"
	KindMissingAsset      ProblemKind = "MissingAsset"
	KindEmptyAutogenerate ProblemKind = "EmptyAutogenerate"
)

// Problem is one finding. Warnings are reported but do not fail a build.
type Problem struct {
	Kind    ProblemKind
	Path    []string // sidebar label path, empty for assets
	Target  string   // the slug, directory or asset path concerned
	Detail  string
	Warning bool
}

func (p Problem) String() string {
	loc := p.Target
	if len(p.Path) > 0 {
		loc = site.FormatPath(p.Path) + " " + p.Target
	}
	return fmt.Sprintf("%s at %s: %s", p.Kind, loc, p.Detail)
}

// VerifyError carries every non-warning problem found by Verify.
type VerifyError struct {
	Problems []Problem
}

func (e *VerifyError) Error() string {
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.String()
	}
	return fmt.Sprintf("%d verification problem(s):\n  %s", len(e.Problems), strings.Join(lines, "\n  "))
}

// Verify checks the resolved configuration against the content index and the
// project root. Every sidebar leaf slug must name a published document,
// every logo and stylesheet must exist in root, and autogenerated directories
// should contain at least one document. All problems are returned.
func Verify(cfg *site.SiteConfig, idx *Index, root fs.FS) []Problem {
	var problems []Problem

	_ = cfg.Walk(func(p []string, n site.NavNode) error {
		switch {
		case n.IsLeaf() && n.Slug != "":
			d, ok := idx.Lookup(n.Slug)
			switch {
			case !ok:
				problems = append(problems, Problem{
					Kind: KindUnresolvedSlug, Path: p, Target: n.Slug,
					Detail: "no document with this slug",
				})
			case d.Draft:
				problems = append(problems, Problem{
					Kind: KindUnresolvedSlug, Path: p, Target: n.Slug,
					Detail: "document " + d.Path + " is a draft",
				})
			}
		case n.IsGroup() && n.Autogenerate != nil:
			if !hasPublished(idx.Under(n.Autogenerate.Directory)) {
				problems = append(problems, Problem{
					Kind: KindEmptyAutogenerate, Path: p, Target: n.Autogenerate.Directory,
					Detail: "directory has no published documents", Warning: true,
				})
			}
		}
		return nil
	})

	for _, mode := range site.LogoModes {
		if src, ok := cfg.Logo[mode]; ok {
			problems = append(problems, checkAsset(root, "logo."+string(mode), src)...)
		}
	}
	for i, css := range cfg.CustomCSS {
		problems = append(problems, checkAsset(root, fmt.Sprintf("customCss[%d]", i), css)...)
	}
	return problems
}

// Err returns a *VerifyError holding the non-warning problems, or nil.
func Err(problems []Problem) error {
	failed := slices.DeleteFunc(slices.Clone(problems), func(p Problem) bool { return p.Warning })
	if len(failed) == 0 {
		return nil
	}
	return &VerifyError{Problems: failed}
}

func hasPublished(docs []*Doc) bool {
	return slices.ContainsFunc(docs, func(d *Doc) bool { return !d.Draft && !d.Hidden })
}

// checkAsset reports src when it does not exist under root. Package
// specifiers (e.g. "@fontsource/inter") are resolved by the bundler and skipped.
func checkAsset(root fs.FS, field, src string) []Problem {
	if strings.HasPrefix(src, "@") {
		return nil
	}
	p := path.Clean(strings.TrimPrefix(strings.TrimPrefix(src, "./"), "/"))
	if !fs.ValidPath(p) {
		return []Problem{{Kind: KindMissingAsset, Target: src, Detail: field + " points outside the project root"}}
	}
	info, err := fs.Stat(root, p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return []Problem{{Kind: KindMissingAsset, Target: src, Detail: field + " file does not exist"}}
	case err != nil:
		return []Problem{{Kind: KindMissingAsset, Target: src, Detail: fmt.Sprintf("%s: %v", field, err)}}
	case info.IsDir():
		return []Problem{{Kind: KindMissingAsset, Target: src, Detail: field + " is a directory"}}
	}
	return nil
}
