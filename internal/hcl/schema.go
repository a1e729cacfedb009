package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of a workspace file. Unknown blocks
// are left in Remain and ignored.
type fileRoot struct {
	Systems []*systemBlock `hcl:"system,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// systemBlock is the HCL schema of a `system "name" { ... }` block.
type systemBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Equations   string         `hcl:"equations"`
	Bindings    hcl.Expression `hcl:"bindings,optional"`
}
