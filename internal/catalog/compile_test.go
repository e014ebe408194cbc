package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelop/worldopt/internal/world"
)

func TestDefault_Compiles(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Wheels)
	assert.NotEmpty(t, c.Spheres)
	assert.NoError(t, c.Validate())
}

func TestDefault_ClassifiesKnownShapes(t *testing.T) {
	c := Default()

	tests := []struct {
		shapeID string
		want    world.BrickClass
	}{
		{"Entity_Wheel_Offroad", world.BrickClassWheel},
		{"B_Wheel_10x10", world.BrickClassWheel},
		{"B_Sphere_4x4", world.BrickClassSphere},
		{"B_Ball_Large", world.BrickClassSphere},
		{"B_2x2_Round", world.BrickClassOther},
		{"", world.BrickClassOther},
	}
	for _, tt := range tests {
		t.Run(tt.shapeID, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.shapeID))
		})
	}
}

func TestCompileCatalogBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		catalog: {
			wheels: ["W_"]
			spheres: ["S_"]
		}
	`)

	c, err := CompileCatalog(v.LookupPath(cue.ParsePath("catalog")))
	require.NoError(t, err)
	assert.Equal(t, []string{"W_"}, c.Wheels)
	assert.Equal(t, []string{"S_"}, c.Spheres)
}

func TestCompileCatalog_MissingStruct(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`other: {}`)

	_, err := CompileCatalog(v.LookupPath(cue.ParsePath("catalog")))
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "catalog", ce.Field)
}

func TestCompileCatalog_MissingField(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`catalog: { wheels: ["W_"] }`)

	_, err := CompileCatalog(v.LookupPath(cue.ParsePath("catalog")))
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "spheres", ce.Field)
}

func TestCompileCatalog_NonStringEntry(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`catalog: { wheels: [42], spheres: ["S_"] }`)

	_, err := CompileCatalog(v.LookupPath(cue.ParsePath("catalog")))
	assert.Error(t, err)
}

func TestCompileCatalog_OverlappingPrefix(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`catalog: { wheels: ["X_"], spheres: ["X_"] }`)

	_, err := CompileCatalog(v.LookupPath(cue.ParsePath("catalog")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both")
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
		catalog: {
			wheels: ["CustomWheel_"]
			spheres: ["CustomSphere_"]
		}
	`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, world.BrickClassWheel, c.Classify("CustomWheel_Big"))
	assert.Equal(t, world.BrickClassOther, c.Classify("B_Wheel_10x10"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cat     Catalog
		wantErr bool
	}{
		{"valid", Catalog{Wheels: []string{"W"}, Spheres: []string{"S"}}, false},
		{"no wheels", Catalog{Spheres: []string{"S"}}, true},
		{"no spheres", Catalog{Wheels: []string{"W"}}, true},
		{"empty wheel prefix", Catalog{Wheels: []string{""}, Spheres: []string{"S"}}, true},
		{"empty sphere prefix", Catalog{Wheels: []string{"W"}, Spheres: []string{""}}, true},
		{"overlap", Catalog{Wheels: []string{"X"}, Spheres: []string{"X"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cat.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
