package recipe

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var ErrNoJSONObject = errors.New("reply contains no JSON object")

// LooseRecipe is whatever shape the model sent back. Nothing here is
// trusted until Normalize has run.
type LooseRecipe struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Cuisine       string              `json:"cuisine"`
	Difficulty    string              `json:"difficulty"`
	PrepTime      *FlexNumber         `json:"prep_time"`
	CookingTime   *FlexNumber         `json:"cooking_time"`
	TotalTime     *FlexNumber         `json:"total_time"`
	Servings      *FlexNumber         `json:"servings"`
	Ingredients   []LooseIngredient   `json:"ingredients"`
	Instructions  []LooseStep         `json:"instructions"`
	Nutrition     *LooseNutrition     `json:"nutrition"`
	Tags          []string            `json:"tags"`
	Tips          []string            `json:"tips"`
	Substitutions []LooseSubstitution `json:"substitutions"`
}

type LooseIngredient struct {
	Name   string
	Amount *string
	Unit   *string
	Notes  *string
}

type LooseStep struct {
	StepNumber  *FlexNumber
	Instruction string
	Duration    *FlexNumber
	Temperature json.RawMessage
}

type LooseSubstitution struct {
	Original     string   `json:"original"`
	Substitute   *string  `json:"substitute"`
	Alternatives []string `json:"alternatives"`
	Ratio        *string  `json:"ratio"`
	Notes        *string  `json:"notes"`
}

type LooseNutrition struct {
	Calories      *FlexNumber `json:"calories"`
	Protein       *FlexNumber `json:"protein"`
	Carbs         *FlexNumber `json:"carbs"`
	Carbohydrates *FlexNumber `json:"carbohydrates"`
	Fat           *FlexNumber `json:"fat"`
	Fiber         *FlexNumber `json:"fiber"`
	Sugar         *FlexNumber `json:"sugar"`
	Sodium        *FlexNumber `json:"sodium"`
}

// FlexNumber takes 15, 15.5, "15" or "15 minutes".
type FlexNumber struct {
	Value float64
}

var leadingNumber = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)`)

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		n.Value = f
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return fmt.Errorf("not a number: %q", s)
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return err
	}
	n.Value = f
	return nil
}

func (n *FlexNumber) Int() int {
	return int(n.Value)
}

func (i *LooseIngredient) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = LooseIngredient{Name: s}
		return nil
	}

	var obj struct {
		Name   string          `json:"name"`
		Amount json.RawMessage `json:"amount"`
		Unit   *string         `json:"unit"`
		Notes  *string         `json:"notes"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*i = LooseIngredient{Name: obj.Name, Unit: obj.Unit, Notes: obj.Notes}
	if amount, ok := rawScalar(obj.Amount); ok {
		i.Amount = &amount
	}
	return nil
}

func (st *LooseStep) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*st = LooseStep{Instruction: s}
		return nil
	}

	var obj struct {
		StepNumber  *FlexNumber     `json:"step_number"`
		Instruction string          `json:"instruction"`
		Duration    json.RawMessage `json:"duration"`
		Time        json.RawMessage `json:"time"`
		Temperature json.RawMessage `json:"temperature"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*st = LooseStep{
		StepNumber:  obj.StepNumber,
		Instruction: obj.Instruction,
		Temperature: obj.Temperature,
	}
	if d := flexFromRaw(obj.Duration); d != nil {
		st.Duration = d
	} else {
		st.Duration = flexFromRaw(obj.Time)
	}
	return nil
}

// flexFromRaw is lenient: unparseable durations are dropped rather than
// failing the whole recipe.
func flexFromRaw(raw json.RawMessage) *FlexNumber {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var n FlexNumber
	if err := n.UnmarshalJSON(raw); err != nil {
		return nil
	}
	return &n
}

func rawScalar(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return strings.TrimSpace(string(raw)), true
}

// ParseLoose pulls the outermost {...} out of a model reply and decodes it.
func ParseLoose(reply string) (LooseRecipe, error) {
	body, err := extractObject(reply)
	if err != nil {
		return LooseRecipe{}, err
	}
	var l LooseRecipe
	if err := json.Unmarshal([]byte(body), &l); err != nil {
		return LooseRecipe{}, fmt.Errorf("decode recipe reply: %w", err)
	}
	return l, nil
}

func extractObject(reply string) (string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end == -1 || start > end {
		return "", ErrNoJSONObject
	}
	return reply[start : end+1], nil
}
