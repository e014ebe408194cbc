package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/voxelop/worldopt/internal/world"
)

// Decode reads the container back into a live world graph.
func (c *Container) Decode(ctx context.Context) (*world.World, error) {
	version, err := c.metaInt(ctx, "format_version")
	if err != nil {
		return nil, err
	}
	if version != currentFormatVersion {
		return nil, fmt.Errorf("unsupported container format version %d (want %d)", version, currentFormatVersion)
	}

	name, err := c.meta(ctx, "name")
	if err != nil {
		return nil, err
	}
	w := &world.World{Name: name}

	var grids []gridV1
	if err := c.readSection(ctx, sectionGrids, &grids); err != nil {
		return nil, err
	}
	for _, gv := range grids {
		w.Grids = append(w.Grids, gridFromV1(gv))
	}

	var joints []jointV1
	if err := c.readSection(ctx, sectionJoints, &joints); err != nil {
		return nil, err
	}
	for _, jv := range joints {
		w.Joints = append(w.Joints, jointFromV1(jv))
	}

	var revisions []revisionV1
	if err := c.readSection(ctx, sectionRevisions, &revisions); err != nil {
		return nil, err
	}
	for _, rv := range revisions {
		w.Revisions = append(w.Revisions, revisionFromV1(rv))
	}

	return w, nil
}

// SectionSizes reports per-section compressed and raw byte counts, for
// the inspect surface.
type SectionSize struct {
	Name       string `json:"name"`
	Compressed int64  `json:"compressed"`
	Raw        int64  `json:"raw"`
}

func (c *Container) SectionSizes(ctx context.Context) ([]SectionSize, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name, length(payload), raw_size FROM sections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	var out []SectionSize
	for rows.Next() {
		var s SectionSize
		if err := rows.Scan(&s.Name, &s.Compressed, &s.Raw); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}
	return out, nil
}

func (c *Container) meta(ctx context.Context, key string) (string, error) {
	var v string
	err := c.db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("malformed container: missing meta key %q", key)
	}
	if err != nil {
		return "", fmt.Errorf("read meta %s: %w", key, err)
	}
	return v, nil
}

func (c *Container) metaInt(ctx context.Context, key string) (int, error) {
	v, err := c.meta(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("malformed container: meta %s: %w", key, err)
	}
	return n, nil
}

func (c *Container) readSection(ctx context.Context, name string, v any) error {
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM sections WHERE name = ?`, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("malformed container: missing section %q", name)
	}
	if err != nil {
		return fmt.Errorf("read section %s: %w", name, err)
	}
	if err := unmarshalSection(blob, v); err != nil {
		return fmt.Errorf("section %s: %w", name, err)
	}
	return nil
}
