package demo

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/rowmodel/pkg/gateway"
	"github.com/leapstack-labs/rowmodel/pkg/model"
	"github.com/leapstack-labs/rowmodel/pkg/query"
)

// Point is a strongly-typed value for coordinate bounds.
type Point struct {
	X int
	Y int
}

// Coordinates asks the engine to pick a random point inside a bounding box.
// No table is involved: the model exists to show that instances can be
// built from any query. The (x, y) pair is the primary key, so picking the
// same point twice resolves to one instance.
type Coordinates struct {
	gw    *gateway.Gateway
	cache *model.Cache
}

// NewCoordinates creates the repository.
func NewCoordinates(gw *gateway.Gateway) *Coordinates {
	return &Coordinates{
		gw:    gw,
		cache: model.NewCache("x", "y"),
	}
}

// Pick returns a random point inside the box spanned by p1 and p2,
// computed by the engine.
func (c *Coordinates) Pick(ctx context.Context, p1, p2 Point) (*model.Object, error) {
	minX, maxX := ordered(p1.X, p2.X)
	minY, maxY := ordered(p1.Y, p2.Y)

	q, err := query.New(
		randomPointTemplate(c.gw.DialectName()),
		query.Args{
			"width":  maxX - minX,
			"height": maxY - minY,
			"min_x":  minX,
			"min_y":  minY,
		})
	if err != nil {
		return nil, err
	}

	rec, err := c.gw.GetOne(ctx, q)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("coordinate query returned no row")
	}
	return c.cache.Construct(rec)
}

// randomPointTemplate returns the engine expression for a uniform random
// point inside the box. Postgres RANDOM() yields a float in [0, 1); sqlite's
// yields a full-range integer and has no :: cast syntax, so the two dialects
// need different normalizations.
func randomPointTemplate(dialect string) string {
	if dialect == gateway.TypeSQLite {
		return "SELECT" +
			" ABS(RANDOM()) % (@width + 1) + @min_x AS x," +
			" ABS(RANDOM()) % (@height + 1) + @min_y AS y"
	}
	return "SELECT" +
		" (RANDOM() * @width + @min_x)::int AS x," +
		" (RANDOM() * @height + @min_y)::int AS y"
}

func ordered(a, b int) (lo, hi int) {
	if a > b {
		return b, a
	}
	return a, b
}
