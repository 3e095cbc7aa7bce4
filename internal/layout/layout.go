// Package layout resolves where a region's source tables and scripts live
// and where its documents are written.
//
// A layout is an HCL manifest. Every path is a string expression evaluated
// with these variables:
//
//	region     the region being parsed, e.g. "iTOS"
//	root       the directory holding the manifest
//	input_dir  the manifest's own input_dir, once evaluated
//
// and the lower and upper string functions. A built-in manifest is used when
// no path is given; its root is the working directory.
package layout

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/tosparser/internal/ctxlog"
	"github.com/specialistvlad/tosparser/internal/fsutil"
	"github.com/specialistvlad/tosparser/internal/parser"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

//go:embed default.hcl
var defaultManifest []byte

// DefaultName is the file name reported for the built-in manifest.
const DefaultName = "default.hcl"

// Layout is a fully resolved, absolute set of paths for one region.
type Layout struct {
	Region    string
	Manifest  string
	InputDir  string
	OutputDir string
	Paths     parser.Paths
}

// Entry is one named path of a layout.
type Entry struct {
	Name string
	Path string
}

// Entries lists every path of the layout in manifest order.
func (l *Layout) Entries() []Entry {
	return []Entry{
		{"input_dir", l.InputDir},
		{"output_dir", l.OutputDir},
		{"sources.jobs", l.Paths.Jobs},
		{"sources.job_stats", l.Paths.JobStats},
		{"sources.skill_tree", l.Paths.SkillTree},
		{"sources.skills", l.Paths.Skills},
		{"sources.attributes", l.Paths.Attributes},
		{"sources.job_attributes_dir", l.Paths.JobAttributesDir},
		{"scripts.ability_price", l.Paths.AttributePrices},
		{"scripts.ability_unlock", l.Paths.AttributeUnlocks},
	}
}

type manifest struct {
	InputDir  hcl.Expression `hcl:"input_dir"`
	OutputDir hcl.Expression `hcl:"output_dir"`
	Sources   sourcesBlock   `hcl:"sources,block"`
	Scripts   scriptsBlock   `hcl:"scripts,block"`
}

type sourcesBlock struct {
	Jobs             hcl.Expression `hcl:"jobs"`
	JobStats         hcl.Expression `hcl:"job_stats"`
	SkillTree        hcl.Expression `hcl:"skill_tree"`
	Skills           hcl.Expression `hcl:"skills"`
	Attributes       hcl.Expression `hcl:"attributes"`
	JobAttributesDir hcl.Expression `hcl:"job_attributes_dir"`
}

type scriptsBlock struct {
	AbilityPrice  hcl.Expression `hcl:"ability_price"`
	AbilityUnlock hcl.Expression `hcl:"ability_unlock"`
}

// Load resolves the layout of region. path is a manifest file, a directory
// whose .hcl files together form one manifest, or empty for the built-in one.
func Load(ctx context.Context, path, region string) (*Layout, error) {
	logger := ctxlog.FromContext(ctx)

	p := hclparse.NewParser()
	var files []*hcl.File
	var root, name string

	if path == "" {
		f, diags := p.ParseHCL(defaultManifest, DefaultName)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse built-in layout: %w", diags)
		}
		files = append(files, f)
		root, name = ".", DefaultName
	} else {
		paths, dir, err := manifestFiles(path)
		if err != nil {
			return nil, err
		}
		for _, file := range paths {
			f, diags := p.ParseHCLFile(file)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse layout file %s: %w", file, diags)
			}
			files = append(files, f)
		}
		root, name = dir, path
	}
	logger.Debug("Layout manifest parsed.", "manifest", name, "files", len(files))

	var m manifest
	if diags := gohcl.DecodeBody(hcl.MergeFiles(files), nil, &m); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode layout %s: %w", name, diags)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	e := &evaluator{ctx: newEvalContext(region, absRoot)}

	l := &Layout{Region: region, Manifest: name}
	l.InputDir = e.path(m.InputDir)
	e.ctx.Variables["input_dir"] = cty.StringVal(l.InputDir)

	l.OutputDir = e.path(m.OutputDir)
	l.Paths = parser.Paths{
		Jobs:             e.path(m.Sources.Jobs),
		JobStats:         e.path(m.Sources.JobStats),
		SkillTree:        e.path(m.Sources.SkillTree),
		Skills:           e.path(m.Sources.Skills),
		Attributes:       e.path(m.Sources.Attributes),
		JobAttributesDir: e.path(m.Sources.JobAttributesDir),
		AttributePrices:  e.path(m.Scripts.AbilityPrice),
		AttributeUnlocks: e.path(m.Scripts.AbilityUnlock),
	}
	if e.diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate layout %s: %w", name, e.diags)
	}

	logger.Debug("Layout resolved.", "region", region, "input_dir", l.InputDir, "output_dir", l.OutputDir)
	return l, nil
}

// manifestFiles returns the .hcl files making up the manifest at path and
// the directory relative paths inside it are resolved against.
func manifestFiles(path string) ([]string, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("error accessing layout %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, filepath.Dir(path), nil
	}

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, "", err
	}
	if len(files) == 0 {
		return nil, "", fmt.Errorf("no .hcl files found in layout directory %s", path)
	}
	return files, path, nil
}

func newEvalContext(region, root string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"region": cty.StringVal(region),
			"root":   cty.StringVal(root),
		},
		Functions: map[string]function.Function{
			"lower": stdlib.LowerFunc,
			"upper": stdlib.UpperFunc,
		},
	}
}

// evaluator collects diagnostics across all expressions so one run reports
// every broken path at once.
type evaluator struct {
	ctx   *hcl.EvalContext
	diags hcl.Diagnostics
}

func (e *evaluator) path(expr hcl.Expression) string {
	val, diags := expr.Value(e.ctx)
	if diags.HasErrors() {
		e.diags = append(e.diags, diags...)
		return ""
	}

	rng := expr.Range()
	if val.IsNull() || !val.IsKnown() {
		e.diags = append(e.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid path",
			Detail:   "A path must be a known, non-null string.",
			Subject:  &rng,
		})
		return ""
	}

	val, err := convert.Convert(val, cty.String)
	var s string
	if err == nil {
		err = gocty.FromCtyValue(val, &s)
	}
	if err != nil {
		e.diags = append(e.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid path",
			Detail:   fmt.Sprintf("A path must be a string: %v.", err),
			Subject:  &rng,
		})
		return ""
	}

	if !filepath.IsAbs(s) {
		s = filepath.Join(e.ctx.Variables["root"].AsString(), s)
	}
	return filepath.Clean(s)
}
