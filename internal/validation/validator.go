// Package validation evaluates declarative per-field rule sets against request
// input. A rule set is data: each rule names a field, the type its raw value must
// convert to, a validator tag checked against the converted value and the
// message reported when any of that fails. Every field is checked; failures are
// collected and returned together.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"propertyapi/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

// Kind is the type a raw input value must convert to.
type Kind int

const (
	Int Kind = iota
	Float
	String
)

// Rule constrains a single input field.
type Rule struct {
	Field    string
	Kind     Kind
	Tag      string // go-playground/validator tag applied to the converted value
	Optional bool
	Message  string
}

// RuleSet is the ordered list of rules for one operation.
type RuleSet []Rule

// Optional returns a copy of the rule set where every field may be omitted.
func (rs RuleSet) Optional() RuleSet {
	out := make(RuleSet, len(rs))
	for i, rule := range rs {
		rule.Optional = true
		out[i] = rule
	}
	return out
}

// Source gives access to raw request input by field name.
type Source interface {
	Lookup(field string) (any, bool)
}

// Strings is a Source over query string or path parameters.
type Strings map[string]string

// Lookup implements Source.
func (s Strings) Lookup(field string) (any, bool) {
	v, ok := s[field]
	return v, ok
}

// Body is a Source over a decoded JSON object.
type Body map[string]any

// Lookup implements Source. A JSON null is reported as present.
func (b Body) Lookup(field string) (any, bool) {
	v, ok := b[field]
	return v, ok
}

var errNotJSONObject = errors.New("body is not a JSON object")

// DecodeBody decodes a request body into a Body, keeping numbers as json.Number.
// An empty body decodes to an empty Body.
func DecodeBody(raw []byte) (Body, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Body{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body Body
	err := dec.Decode(&body)
	if err == nil && body == nil {
		err = errNotJSONObject
	}
	if err == nil && dec.More() {
		err = errNotJSONObject
	}
	if err != nil {
		return nil, apperrors.NewDataInputValidationError([]apperrors.FieldError{
			{Path: "body", Message: "The request body must be a valid JSON object"},
		})
	}
	return body, nil
}

// Values holds converted values of the fields that passed validation.
type Values map[string]any

// Int returns the value of an Int field, or nil when it was not supplied.
func (v Values) Int(field string) *int {
	if x, ok := v[field].(int); ok {
		return &x
	}
	return nil
}

// Float returns the value of a Float field, or nil when it was not supplied.
func (v Values) Float(field string) *float64 {
	if x, ok := v[field].(float64); ok {
		return &x
	}
	return nil
}

// String returns the value of a String field, or nil when it was not supplied.
func (v Values) String(field string) *string {
	if x, ok := v[field].(string); ok {
		return &x
	}
	return nil
}

// Validator checks rule sets.
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Check evaluates every rule against src. It returns the converted values, or a
// *apperrors.DataInputValidationError listing one entry per failing field.
func (v *Validator) Check(rules RuleSet, src Source) (Values, error) {
	values := make(Values, len(rules))
	var fieldErrs []apperrors.FieldError

	for _, rule := range rules {
		raw, ok := src.Lookup(rule.Field)
		if !ok {
			if !rule.Optional {
				fieldErrs = append(fieldErrs, apperrors.FieldError{Path: rule.Field, Message: rule.Message})
			}
			continue
		}

		value, err := convert(rule.Kind, raw)
		if err == nil && rule.Tag != "" {
			err = v.validate.Var(value, rule.Tag)
		}
		if err != nil {
			fieldErrs = append(fieldErrs, apperrors.FieldError{Path: rule.Field, Message: rule.Message})
			continue
		}
		values[rule.Field] = value
	}

	if len(fieldErrs) > 0 {
		return nil, apperrors.NewDataInputValidationError(fieldErrs)
	}
	return values, nil
}

func convert(kind Kind, raw any) (any, error) {
	switch kind {
	case Int:
		switch r := raw.(type) {
		case string:
			n, err := strconv.ParseInt(r, 10, 32)
			if err != nil {
				return nil, err
			}
			return int(n), nil
		case json.Number:
			return jsonInt(r)
		}
	case Float:
		var f float64
		var err error
		switch r := raw.(type) {
		case string:
			f, err = strconv.ParseFloat(r, 64)
		case json.Number:
			f, err = r.Float64()
		default:
			return nil, fmt.Errorf("%v is not a number", raw)
		}
		if err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%v is not a finite number", raw)
		}
		return f, nil
	case String:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unexpected value %v", raw)
}

// jsonInt accepts integral JSON numbers in the int32 range, including ones
// written with a zero fraction or an exponent such as 2.0 or 1e2.
func jsonInt(r json.Number) (int, error) {
	if n, err := r.Int64(); err == nil {
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("%q is out of range", r)
		}
		return int(n), nil
	}

	f, err := r.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%q is not an integer", r)
	}
	return int(f), nil
}
