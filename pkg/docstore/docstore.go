package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	CollectionUsers                 = "users"
	CollectionRecipes               = "recipes"
	CollectionUserProfiles          = "user_profiles"
	CollectionUserBehavior          = "user_behavior"
	CollectionUserRecipeInteraction = "user_recipe_interactions"
	CollectionRecipeHistory         = "recipe_history"
	CollectionRecipeCollections     = "recipe_collections"
	CollectionRecipeShares          = "recipe_shares"
	CollectionShoppingLists         = "shopping_lists"
)

var collections = map[string]bool{
	CollectionUsers:                 true,
	CollectionRecipes:               true,
	CollectionUserProfiles:          true,
	CollectionUserBehavior:          true,
	CollectionUserRecipeInteraction: true,
	CollectionRecipeHistory:         true,
	CollectionRecipeCollections:     true,
	CollectionRecipeShares:          true,
	CollectionShoppingLists:         true,
}

var (
	ErrNotFound          = errors.New("document not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidField      = errors.New("invalid field path")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrEmptyID           = errors.New("document id is required")
)

// Document is a decoded JSON object. Values follow encoding/json types:
// float64 numbers, strings, bools, []any and map[string]any.
type Document map[string]any

type Op string

const (
	OpEq            Op = "=="
	OpNeq           Op = "!="
	OpLt            Op = "<"
	OpLte           Op = "<="
	OpGt            Op = ">"
	OpGte           Op = ">="
	OpIn            Op = "in"
	OpArrayContains Op = "array-contains"
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

func Where(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Kind tells the store how to compare a field when ordering.
type Kind int

const (
	KindAuto Kind = iota
	KindNumber
	KindTime
	KindText
)

type OrderBy struct {
	Field string
	Desc  bool
	As    Kind
}

type QueryOptions struct {
	Filters []Filter
	OrderBy *OrderBy
	Limit   int
	Offset  int
}

type BatchOpType string

const (
	BatchSet    BatchOpType = "set"
	BatchUpdate BatchOpType = "update"
	BatchDelete BatchOpType = "delete"
)

type BatchOp struct {
	Type       BatchOpType
	Collection string
	DocumentID string
	Data       Document
}

type Store interface {
	// Create writes the whole document, replacing any previous body.
	Create(ctx context.Context, collection, id string, data Document) error
	Get(ctx context.Context, collection, id string) (Document, error)
	// Update merges top-level fields into an existing document.
	Update(ctx context.Context, collection, id string, data Document) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, opts QueryOptions) ([]Document, error)
	Count(ctx context.Context, collection string, filters []Filter) (int64, error)
	BatchWrite(ctx context.Context, ops []BatchOp) error
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

func checkCollection(collection string) error {
	if !collections[collection] {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return nil
}

func splitField(field string) ([]string, error) {
	if !fieldPattern.MatchString(field) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return strings.Split(field, "."), nil
}

// Encode turns a tagged struct into a Document.
func Encode(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode fills out from a Document.
func Decode(doc Document, out any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// DecodeAll decodes every document, skipping ones that do not fit T.
func DecodeAll[T any](docs []Document) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := Decode(d, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// normalize rewrites the body into plain JSON values with times in RFC3339
// UTC so both backends compare them the same way.
func normalize(data Document) (Document, error) {
	b, err := json.Marshal(normalizeValue(data))
	if err != nil {
		return nil, err
	}
	out := Document{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return FormatTime(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return FormatTime(*t)
	case Document:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeValue(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	}
	return v
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func withID(data map[string]any, id string) Document {
	doc := make(Document, len(data)+1)
	for k, v := range data {
		doc[k] = v
	}
	doc["id"] = id
	return doc
}
