package hcl

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/equigrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Workspace(t *testing.T) {
	// --- Arrange ---
	ctx, logs := testutil.NewTestContext(t)
	root := testutil.WriteFiles(t, map[string]string{
		"orbit.hcl": `
system "orbit" {
  description = "reference system"
  equations = <<-EOT
    x = y * 2
    y = z + z - p / 5
    z = 12
  EOT
  bindings = {
    p = 10
    q = null
    r = "2.5"
  }
}

system "bare" {
  equations = "a = b"
}
`,
		"nested/simple.eq": "k = 1 + 2\n",
		"README.md":        "ignored",
	})

	// --- Act ---
	model, err := NewLoader().Load(ctx, root)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"simple", "orbit", "bare"}, model.Names())

	orbit, ok := model.Find("orbit")
	require.True(t, ok)
	assert.Equal(t, "reference system", orbit.Description)
	assert.Equal(t, "x = y * 2\ny = z + z - p / 5\nz = 12\n", orbit.Equations)
	assert.Equal(t, filepath.Join(root, "orbit.hcl"), orbit.Source)
	require.Len(t, orbit.Bindings, 3)
	assert.Equal(t, 10.0, *orbit.Bindings["p"])
	assert.Nil(t, orbit.Bindings["q"])
	assert.Equal(t, 2.5, *orbit.Bindings["r"])

	bare, ok := model.Find("bare")
	require.True(t, ok)
	assert.Empty(t, bare.Bindings)

	simple, ok := model.Find("simple")
	require.True(t, ok)
	assert.Equal(t, "k = 1 + 2\n", simple.Equations)

	assert.Contains(t, logs.String(), "HCL loading complete.")
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "syntax error",
			files:   map[string]string{"bad.hcl": `system "a" {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "missing equations",
			files:   map[string]string{"bad.hcl": `system "a" {}`},
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "non numeric binding",
			files:   map[string]string{"bad.hcl": `
system "a" {
  equations = "x = p"
  bindings  = { p = true }
}
`},
			wantErr: `binding "p": cannot convert bool to number`,
		},
		{
			name:    "bindings not an object",
			files:   map[string]string{"bad.hcl": `
system "a" {
  equations = "x = p"
  bindings  = 3
}
`},
			wantErr: "bindings must be an object",
		},
		{
			name:    "invalid binding name",
			files:   map[string]string{"bad.hcl": `
system "a" {
  equations = "x = p"
  bindings  = { "p1" = 3 }
}
`},
			wantErr: `binding "p1" is not a valid symbol name`,
		},
		{
			name: "duplicate system",
			files: map[string]string{
				"a.hcl":  `system "dup" { equations = "x = 1" }`,
				"b.eq":   "",
				"dup.eq": "y = 2",
			},
			wantErr: `system "dup" defined in`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.NewTestContext(t)
			root := testutil.WriteFiles(t, tc.files)

			_, err := NewLoader().Load(ctx, root)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MissingPathIsEmpty(t *testing.T) {
	ctx, _ := testutil.NewTestContext(t)

	model, err := NewLoader().Load(ctx, filepath.Join(t.TempDir(), "nope"))

	require.NoError(t, err)
	assert.Empty(t, model.Systems)
}
