package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/voxelop/worldopt/internal/world"
)

// Encode writes the full world graph into the container. All sections
// and meta rows land in a single transaction so a failed encode never
// leaves a partially written container behind.
func (c *Container) Encode(ctx context.Context, w *world.World) error {
	grids := make([]gridV1, 0, len(w.Grids))
	for _, g := range w.Grids {
		grids = append(grids, gridToV1(g))
	}
	joints := make([]jointV1, 0, len(w.Joints))
	for _, j := range w.Joints {
		joints = append(joints, jointToV1(j))
	}
	revisions := make([]revisionV1, 0, len(w.Revisions))
	for _, r := range w.Revisions {
		revisions = append(revisions, revisionToV1(r))
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin encode: %w", err)
	}
	defer tx.Rollback()

	meta := map[string]string{
		"format_version": strconv.Itoa(currentFormatVersion),
		"name":           w.Name,
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meta (k, v) VALUES (?, ?)
			 ON CONFLICT(k) DO UPDATE SET v = excluded.v`, k, v); err != nil {
			return fmt.Errorf("write meta %s: %w", k, err)
		}
	}

	sections := []struct {
		name    string
		payload any
	}{
		{sectionGrids, grids},
		{sectionJoints, joints},
		{sectionRevisions, revisions},
	}
	for _, s := range sections {
		blob, rawSize, err := marshalSection(s.payload)
		if err != nil {
			return fmt.Errorf("encode section %s: %w", s.name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (name, payload, raw_size) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, raw_size = excluded.raw_size`,
			s.name, blob, rawSize); err != nil {
			return fmt.Errorf("write section %s: %w", s.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit encode: %w", err)
	}
	return nil
}
