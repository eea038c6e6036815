// Package store provides typed record collections on top of GORM. A
// Collection is the only way services read and write journal records.
package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"idoljournal/internal/pagination"
)

// ErrNotFound is returned when no live record has the requested id.
var ErrNotFound = errors.New("store: record not found")

// Filter selects records whose columns equal the given values. A nil value
// matches NULL.
type Filter map[string]any

// Collection is a typed view over one table.
type Collection[T any] interface {
	Create(ctx context.Context, rec *T) error
	// CreateIfAbsent inserts rec unless a record with the same values in the
	// unique columns exists, reporting whether it was inserted.
	CreateIfAbsent(ctx context.Context, rec *T, columns ...string) (bool, error)
	Get(ctx context.Context, id string) (*T, error)
	// Update applies patch (column -> value) to the record with id.
	Update(ctx context.Context, id string, patch map[string]any) error
	Delete(ctx context.Context, id string) error
	QueryEq(ctx context.Context, field string, value any) ([]T, error)
	QueryEqAll(ctx context.Context, filter Filter) ([]T, error)
	QueryPage(ctx context.Context, filter Filter, page pagination.PageRequest) (*pagination.PageResponse[T], error)
}

type gormCollection[T any] struct {
	db    *gorm.DB
	order string
}

// NewCollection returns a Collection backed by db. order is the ORDER BY
// clause applied to every query, for example "created_at ASC".
func NewCollection[T any](db *gorm.DB, order string) Collection[T] {
	return &gormCollection[T]{db: db, order: order}
}

func (c *gormCollection[T]) Create(ctx context.Context, rec *T) error {
	return c.db.WithContext(ctx).Create(rec).Error
}

func (c *gormCollection[T]) CreateIfAbsent(ctx context.Context, rec *T, columns ...string) (bool, error) {
	cols := make([]clause.Column, 0, len(columns))
	for _, name := range columns {
		cols = append(cols, clause.Column{Name: name})
	}
	res := c.db.WithContext(ctx).Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (c *gormCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (c *gormCollection[T]) Update(ctx context.Context, id string, patch map[string]any) error {
	if len(patch) == 0 {
		_, err := c.Get(ctx, id)
		return err
	}
	values, err := encodePatch(patch)
	if err != nil {
		return err
	}
	res := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *gormCollection[T]) Delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *gormCollection[T]) QueryEq(ctx context.Context, field string, value any) ([]T, error) {
	return c.QueryEqAll(ctx, Filter{field: value})
}

func (c *gormCollection[T]) QueryEqAll(ctx context.Context, filter Filter) ([]T, error) {
	var out []T
	if err := c.query(ctx, filter).Order(c.order).Find(&out).Error; err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c *gormCollection[T]) QueryPage(ctx context.Context, filter Filter, page pagination.PageRequest) (*pagination.PageResponse[T], error) {
	page.Defaults()

	var total int64
	if err := c.query(ctx, filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var out []T
	if err := c.query(ctx, filter).Order(c.order).Scopes(pagination.Paginate(page)).Find(&out).Error; err != nil {
		return nil, err
	}

	resp := pagination.NewPageResponse(out, page.Page, page.PageSize, total)
	return &resp, nil
}

func (c *gormCollection[T]) query(ctx context.Context, filter Filter) *gorm.DB {
	q := c.db.WithContext(ctx).Model(new(T))
	if len(filter) == 0 {
		return q
	}
	fields := make([]string, 0, len(filter))
	for f := range filter {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	exprs := make([]clause.Expression, 0, len(fields))
	for _, f := range fields {
		exprs = append(exprs, clause.Eq{Column: clause.Column{Name: f}, Value: filter[f]})
	}
	return q.Clauses(clause.Where{Exprs: exprs})
}

var (
	valuerType = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	timeType   = reflect.TypeOf(time.Time{})
)

// encodePatch JSON-encodes composite values (slices, maps, structs) so they
// land in the serializer:json columns the same way a full save would.
// Scalars, times and driver.Valuer implementations pass through unchanged.
func encodePatch(patch map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(patch))
	for k, v := range patch {
		if v == nil {
			out[k] = nil
			continue
		}
		rv := reflect.ValueOf(v)
		t := rv.Type()
		if t.Implements(valuerType) {
			out[k] = v
			continue
		}
		if t.Kind() == reflect.Pointer {
			if rv.IsNil() {
				out[k] = nil
				continue
			}
			t = t.Elem()
		}
		switch {
		case t == timeType, t.Implements(valuerType), reflect.PointerTo(t).Implements(valuerType):
			out[k] = v
		case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
			out[k] = v
		case t.Kind() == reflect.Slice, t.Kind() == reflect.Map, t.Kind() == reflect.Struct, t.Kind() == reflect.Array:
			data, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", k, err)
			}
			out[k] = string(data)
		default:
			out[k] = v
		}
	}
	return out, nil
}
