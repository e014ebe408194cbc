package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed default.cue
var defaultCUE string

// Default compiles the embedded catalog. The embedded file is part of
// the build, so a failure here is a programming error; Default panics
// rather than making every caller thread an impossible error.
func Default() *Catalog {
	c, err := compile(defaultCUE, "default.cue")
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// Load reads and compiles a catalog from a CUE file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return compile(string(data), path)
}

func compile(src, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileCatalog(v.LookupPath(cue.ParsePath("catalog")))
}

// CompileCatalog parses a CUE value into a Catalog.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the catalog struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`catalog: { wheels: [...], spheres: [...] }`)
//	cat, err := CompileCatalog(v.LookupPath(cue.ParsePath("catalog")))
func CompileCatalog(v cue.Value) (*Catalog, error) {
	if !v.Exists() {
		return nil, &CompileError{
			Field:   "catalog",
			Message: "catalog struct is required",
		}
	}
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &Catalog{}
	var err error

	c.Wheels, err = parsePrefixList(v, "wheels")
	if err != nil {
		return nil, err
	}
	c.Spheres, err = parsePrefixList(v, "spheres")
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, &CompileError{
			Field:   "catalog",
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return c, nil
}

// parsePrefixList extracts a list of string prefixes from a field.
func parsePrefixList(v cue.Value, field string) ([]string, error) {
	listVal := v.LookupPath(cue.ParsePath(field))
	if !listVal.Exists() {
		return nil, &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var prefixes []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("entry must be a string: %v", err),
				Pos:     iter.Value().Pos(),
			}
		}
		prefixes = append(prefixes, s)
	}
	return prefixes, nil
}

// CompileError represents a catalog compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
