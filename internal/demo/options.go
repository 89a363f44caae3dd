// Package demo contains the example models built on the record layer: a
// key-value options table, a table-statistics snapshot, and an engine-computed
// coordinate picker. Each repository owns its identity cache and reaches the
// engine only through the gateway contract, so none of them depend on a
// fixed schema beyond the queries they write.
package demo

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/rowmodel/pkg/gateway"
	"github.com/leapstack-labs/rowmodel/pkg/model"
	"github.com/leapstack-labs/rowmodel/pkg/query"
)

// Options is a repository over a key-value options table. Its primary key
// is the option name: fetching the same name twice yields the same instance.
type Options struct {
	gw    *gateway.Gateway
	cache *model.Cache
}

// NewOptions creates the repository with its own identity cache.
func NewOptions(gw *gateway.Gateway) *Options {
	return &Options{
		gw:    gw,
		cache: model.NewCache("name"),
	}
}

// All returns every option ordered case-insensitively by name.
func (o *Options) All(ctx context.Context) ([]*model.Object, error) {
	records, err := o.gw.GetAll(ctx,
		query.MustNew("SELECT * FROM options ORDER BY LOWER(name)"))
	if err != nil {
		return nil, err
	}

	options := make([]*model.Object, 0, len(records))
	for _, rec := range records {
		opt, err := o.cache.Construct(rec)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, nil
}

// Get returns the option with the given name, or nil when it does not exist.
func (o *Options) Get(ctx context.Context, name string) (*model.Object, error) {
	q, err := query.New("SELECT * FROM options WHERE name = @name",
		query.Args{"name": name})
	if err != nil {
		return nil, err
	}

	rec, err := o.gw.GetOne(ctx, q)
	if err != nil || rec == nil {
		return nil, err
	}
	return o.cache.Construct(rec)
}

// Add inserts a new option and returns its instance, seeded from the row the
// engine reports back.
func (o *Options) Add(ctx context.Context, name, value string) (*model.Object, error) {
	q, err := query.New(
		"INSERT INTO options (name, value) VALUES (@name, @value) RETURNING *",
		query.Args{"name": name, "value": value})
	if err != nil {
		return nil, err
	}

	rec, err := o.gw.GetOne(ctx, q)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("insert of option %q returned no row", name)
	}
	return o.cache.Construct(rec)
}

// SetValue updates an option's value in the database and merges the returned
// row into the instance in place, so every holder observes the change.
func (o *Options) SetValue(ctx context.Context, opt *model.Object, value string) error {
	name := opt.GetString("name")

	q, err := query.New(
		"UPDATE options SET value = @value WHERE name = @name RETURNING *",
		query.Args{"name": name, "value": value})
	if err != nil {
		return err
	}

	rec, err := o.gw.GetOne(ctx, q)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("option %q no longer exists", name)
	}

	opt.Update(rec)
	return nil
}

// CreateTable creates and seeds the demo options table.
func (o *Options) CreateTable(ctx context.Context) error {
	queries := []*query.Query{
		query.MustNew("CREATE TABLE options (name TEXT NOT NULL PRIMARY KEY, value TEXT NOT NULL)"),
		seedOption("first", "one"),
		seedOption("second", "two"),
		seedOption("third", "three"),
		seedOption("forth", "four"),
	}

	for _, q := range queries {
		if _, err := o.gw.Execute(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// DropTable removes the demo options table.
func (o *Options) DropTable(ctx context.Context) error {
	_, err := o.gw.Execute(ctx, query.MustNew("DROP TABLE options"))
	return err
}

func seedOption(name, value string) *query.Query {
	return query.MustNew(
		"INSERT INTO options (name, value) VALUES (@name, @value)",
		query.Args{"name": name, "value": value})
}
