package docstore

import (
	"context"
	"errors"
	"fmt"
	"recipe-ai-backend/entities"
	"recipe-ai-backend/internal/utils/logger"
	"reflect"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

// NewGormStore keeps every collection in the documents table, one jsonb body
// per (collection, id).
func NewGormStore(db *gorm.DB, log *logger.Logger) Store {
	return &gormStore{
		db:  db,
		log: log.With("service", "DocumentStore"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *gormStore) Create(ctx context.Context, collection, id string, data Document) error {
	if err := s.create(s.db.WithContext(ctx), collection, id, data); err != nil {
		return s.fail("create", collection, id, err)
	}
	return nil
}

func (s *gormStore) create(tx *gorm.DB, collection, id string, data Document) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if id == "" {
		return ErrEmptyID
	}

	now := s.now()
	body := make(Document, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body["created_at"] = now
	body["updated_at"] = now
	norm, err := normalize(body)
	if err != nil {
		return err
	}
	delete(norm, "id")

	doc := entities.Document{
		Collection: collection,
		ID:         id,
		Data:       datatypes.JSONMap(norm),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
}

func (s *gormStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var doc entities.Document
	if err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.fail("get", collection, id, err)
	}
	return withID(doc.Data, doc.ID), nil
}

func (s *gormStore) Update(ctx context.Context, collection, id string, data Document) error {
	if err := s.update(s.db.WithContext(ctx), collection, id, data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return s.fail("update", collection, id, err)
	}
	return nil
}

func (s *gormStore) update(tx *gorm.DB, collection, id string, data Document) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	now := s.now()
	body := make(Document, len(data)+1)
	for k, v := range data {
		body[k] = v
	}
	body["updated_at"] = now
	norm, err := normalize(body)
	if err != nil {
		return err
	}
	delete(norm, "id")
	patch, err := json.Marshal(norm)
	if err != nil {
		return err
	}

	res := tx.Model(&entities.Document{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]any{
			"data":       gorm.Expr("data || ?::jsonb", string(patch)),
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.delete(s.db.WithContext(ctx), collection, id); err != nil {
		return s.fail("delete", collection, id, err)
	}
	return nil
}

func (s *gormStore) delete(tx *gorm.DB, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	return tx.Where("collection = ? AND id = ?", collection, id).Delete(&entities.Document{}).Error
}

func (s *gormStore) Query(ctx context.Context, collection string, opts QueryOptions) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	tx, err := applyFilters(s.db.WithContext(ctx).Model(&entities.Document{}).Where("collection = ?", collection), opts.Filters)
	if err != nil {
		return nil, err
	}
	if opts.OrderBy != nil {
		order, err := orderSQL(*opts.OrderBy)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(order)
	}
	tx = tx.Order("created_at").Order("id")
	if opts.Limit > 0 {
		tx = tx.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		tx = tx.Offset(opts.Offset)
	}

	var rows []entities.Document
	if err := tx.Find(&rows).Error; err != nil {
		return nil, s.fail("query", collection, "", err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, withID(row.Data, row.ID))
	}
	return docs, nil
}

func (s *gormStore) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}

	tx, err := applyFilters(s.db.WithContext(ctx).Model(&entities.Document{}).Where("collection = ?", collection), filters)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, s.fail("count", collection, "", err)
	}
	return count, nil
}

func (s *gormStore) BatchWrite(ctx context.Context, ops []BatchOp) error {
	if len(ops) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, op := range ops {
			var err error
			switch op.Type {
			case BatchSet:
				err = s.create(tx, op.Collection, op.DocumentID, op.Data)
			case BatchUpdate:
				err = s.update(tx, op.Collection, op.DocumentID, op.Data)
			case BatchDelete:
				err = s.delete(tx, op.Collection, op.DocumentID)
			default:
				err = fmt.Errorf("unknown batch op %q", op.Type)
			}
			if err != nil {
				return fmt.Errorf("batch op %d (%s %s/%s): %w", i, op.Type, op.Collection, op.DocumentID, err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("batch write failed", "ops", len(ops), "error", err)
		return err
	}
	return nil
}

func (s *gormStore) fail(op, collection, id string, err error) error {
	s.log.Error("document store "+op+" failed", "collection", collection, "id", id, "error", err)
	if id == "" {
		return fmt.Errorf("%s %s: %w", op, collection, err)
	}
	return fmt.Errorf("%s %s/%s: %w", op, collection, id, err)
}

func applyFilters(tx *gorm.DB, filters []Filter) (*gorm.DB, error) {
	for _, f := range filters {
		expr, err := filterExpr(f)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(expr)
	}
	return tx, nil
}

// fieldSQL addresses a document field. Paths are checked against
// fieldPattern before they are spliced into SQL.
func fieldSQL(field string, asJSON bool) (string, error) {
	if field == "id" {
		if asJSON {
			return "", fmt.Errorf("%w: id is not a json field", ErrInvalidField)
		}
		return "id", nil
	}
	parts, err := splitField(field)
	if err != nil {
		return "", err
	}
	if len(parts) == 1 {
		if asJSON {
			return "data->'" + parts[0] + "'", nil
		}
		return "data->>'" + parts[0] + "'", nil
	}
	path := "'{" + strings.Join(parts, ",") + "}'"
	if asJSON {
		return "data#>" + path, nil
	}
	return "data#>>" + path, nil
}

func typedColumn(field string, value any) (string, any, error) {
	col, err := fieldSQL(field, false)
	if err != nil {
		return "", nil, err
	}
	switch v := value.(type) {
	case time.Time:
		return "(" + col + ")::timestamptz", v.UTC(), nil
	case bool:
		return "(" + col + ")::boolean", v, nil
	case string:
		return col, v, nil
	case fmt.Stringer:
		return col, v.String(), nil
	}
	if _, ok := toFloat(value); ok {
		return "(" + col + ")::numeric", value, nil
	}
	return "", nil, fmt.Errorf("%w: unsupported value type %T for %s", ErrInvalidFilter, value, field)
}

func filterExpr(f Filter) (clause.Expression, error) {
	switch f.Op {
	case OpArrayContains:
		col, err := fieldSQL(f.Field, true)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal([]any{normalizeValue(f.Value)})
		if err != nil {
			return nil, err
		}
		return clause.Expr{SQL: col + " @> ?::jsonb", Vars: []any{string(b)}}, nil

	case OpIn:
		values, ok := toSlice(f.Value)
		if !ok {
			return nil, fmt.Errorf("%w: in needs a slice for %s", ErrInvalidFilter, f.Field)
		}
		if len(values) == 0 {
			return clause.Expr{SQL: "1 = 0"}, nil
		}
		col, _, err := typedColumn(f.Field, values[0])
		if err != nil {
			return nil, err
		}
		vars := make([]any, 0, len(values))
		for _, v := range values {
			_, tv, err := typedColumn(f.Field, v)
			if err != nil {
				return nil, err
			}
			vars = append(vars, tv)
		}
		return clause.Expr{SQL: col + " IN ?", Vars: []any{vars}}, nil

	case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte:
		if f.Value == nil {
			col, err := fieldSQL(f.Field, false)
			if err != nil {
				return nil, err
			}
			switch f.Op {
			case OpEq:
				return clause.Expr{SQL: col + " IS NULL"}, nil
			case OpNeq:
				return clause.Expr{SQL: col + " IS NOT NULL"}, nil
			}
			return nil, fmt.Errorf("%w: %s against null", ErrInvalidFilter, f.Op)
		}
		col, v, err := typedColumn(f.Field, f.Value)
		if err != nil {
			return nil, err
		}
		return clause.Expr{SQL: col + " " + sqlOp(f.Op) + " ?", Vars: []any{v}}, nil
	}
	return nil, fmt.Errorf("%w: operator %q", ErrInvalidFilter, f.Op)
}

func sqlOp(op Op) string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	}
	return string(op)
}

func orderSQL(o OrderBy) (string, error) {
	var col string
	var err error
	switch o.As {
	case KindNumber:
		col, err = fieldSQL(o.Field, false)
		col = "(" + col + ")::numeric"
	case KindTime:
		col, err = fieldSQL(o.Field, false)
		col = "(" + col + ")::timestamptz"
	case KindText:
		col, err = fieldSQL(o.Field, false)
	default:
		if o.Field == "id" {
			col = "id"
		} else {
			col, err = fieldSQL(o.Field, true)
		}
	}
	if err != nil {
		return "", err
	}
	if o.Desc {
		return col + " DESC", nil
	}
	return col, nil
}

func toSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
