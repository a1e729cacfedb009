package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/equigrid/internal/config"
	"github.com/specialistvlad/equigrid/internal/ctxlog"
	"github.com/specialistvlad/equigrid/internal/fsutil"
)

// Extensions lists the file extensions the loader reads.
var Extensions = []string{".hcl", ".eq"}

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL workspace loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return append([]string{}, Extensions...)
}

// Load discovers every workspace file under paths and translates the systems
// they declare into the model. System names must be unique across files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered workspace files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range files {
		var systems []*config.System
		switch filepath.Ext(file) {
		case ".hcl":
			systems, err = l.loadHCLFile(parser, file)
		case ".eq":
			systems, err = l.loadEquationFile(file)
		}
		if err != nil {
			return nil, err
		}
		for _, s := range systems {
			if err := model.Add(s); err != nil {
				return nil, err
			}
			logger.Debug("Loaded system.", "system", s.Name, "file", file, "bindings", len(s.Bindings))
		}
	}

	logger.Debug("HCL loading complete.", "systems", len(model.Systems))
	return model, nil
}

func (l *Loader) loadHCLFile(parser *hclparse.Parser, file string) ([]*config.System, error) {
	hclFile, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	systems := make([]*config.System, 0, len(root.Systems))
	for _, block := range root.Systems {
		s, err := translateSystem(file, block)
		if err != nil {
			return nil, err
		}
		systems = append(systems, s)
	}
	return systems, nil
}

func (l *Loader) loadEquationFile(file string) ([]*config.System, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read equation file %s: %w", file, err)
	}
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return []*config.System{{
		Name:      name,
		Source:    file,
		Equations: string(data),
		Bindings:  map[string]*float64{},
	}}, nil
}
