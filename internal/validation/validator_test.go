package validation_test

import (
	"testing"

	"propertyapi/internal/apperrors"
	"propertyapi/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paths returns the field paths reported by a validation error.
func paths(t *testing.T, err error) []string {
	t.Helper()
	var validationErr *apperrors.DataInputValidationError
	require.ErrorAs(t, err, &validationErr)

	out := make([]string, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		out = append(out, fe.Path)
	}
	return out
}

func mustDecode(t *testing.T, raw string) validation.Body {
	t.Helper()
	body, err := validation.DecodeBody([]byte(raw))
	require.NoError(t, err)
	return body
}

func TestCheck_ListPropertiesCollectsEveryFailure(t *testing.T) {
	v := validation.New()

	_, err := v.Check(validation.ListProperties, validation.Strings{
		"page":      "x",
		"pageSize":  "15",
		"type":      "1",
		"bedrooms":  "a",
		"bathrooms": "true",
	})

	assert.ElementsMatch(t, []string{"page", "type", "bedrooms", "bathrooms"}, paths(t, err))
}

func TestCheck_ListPropertiesConvertsValues(t *testing.T) {
	v := validation.New()

	values, err := v.Check(validation.ListProperties, validation.Strings{
		"page":     "2",
		"pageSize": "100",
		"bedrooms": "0",
		"type":     "SingleFamilyResidence",
		"minPrice": "1000.5",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, *values.Int("page"))
	assert.Equal(t, 100, *values.Int("pageSize"))
	assert.Equal(t, 0, *values.Int("bedrooms"))
	assert.Nil(t, values.Int("bathrooms"))
	assert.Equal(t, "SingleFamilyResidence", *values.String("type"))
	assert.Equal(t, 1000.5, *values.Float("minPrice"))
	assert.Nil(t, values.Float("maxPrice"))
}

func TestCheck_ListPropertiesRanges(t *testing.T) {
	v := validation.New()

	testCases := []struct {
		name    string
		query   validation.Strings
		invalid []string
	}{
		{name: "page zero", query: validation.Strings{"page": "0"}, invalid: []string{"page"}},
		{name: "pageSize over limit", query: validation.Strings{"pageSize": "101"}, invalid: []string{"pageSize"}},
		{name: "pageSize zero", query: validation.Strings{"pageSize": "0"}, invalid: []string{"pageSize"}},
		{name: "negative bedrooms", query: validation.Strings{"bedrooms": "-1"}, invalid: []string{"bedrooms"}},
		{name: "empty type", query: validation.Strings{"type": ""}, invalid: []string{"type"}},
		{name: "non finite price", query: validation.Strings{"minPrice": "NaN", "maxPrice": "Inf"}, invalid: []string{"minPrice", "maxPrice"}},
		{name: "negative price", query: validation.Strings{"maxPrice": "-5"}, invalid: []string{"maxPrice"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Check(validation.ListProperties, tc.query)
			assert.ElementsMatch(t, tc.invalid, paths(t, err))
		})
	}
}

func TestCheck_PropertyID(t *testing.T) {
	v := validation.New()

	values, err := v.Check(validation.PropertyID, validation.Strings{"id": "13"})
	require.NoError(t, err)
	assert.Equal(t, 13, *values.Int("id"))

	for _, id := range []string{"abc", "0", "-3", "1.5"} {
		_, err := v.Check(validation.PropertyID, validation.Strings{"id": id})
		assert.Equal(t, []string{"id"}, paths(t, err), "id %q", id)
	}

	_, err = v.Check(validation.PropertyID, validation.Strings{})
	assert.Equal(t, []string{"id"}, paths(t, err))
}

func TestCheck_CreateProperty(t *testing.T) {
	v := validation.New()

	values, err := v.Check(validation.CreateProperty, mustDecode(t,
		`{"address":"Amazing Street, 79","price":12345,"bedrooms":3,"bathrooms":2,"type":"House","ignored":true}`))
	require.NoError(t, err)
	assert.Equal(t, "Amazing Street, 79", *values.String("address"))
	assert.Equal(t, 12345.0, *values.Float("price"))
	assert.Equal(t, 3, *values.Int("bedrooms"))
	assert.Equal(t, 2, *values.Int("bathrooms"))
	assert.Equal(t, "House", *values.String("type"))
	_, ok := values["ignored"]
	assert.False(t, ok)

	_, err = v.Check(validation.CreateProperty, mustDecode(t,
		`{"address":false,"price":"abc","bedrooms":"x","bathrooms":2,"type":44}`))
	assert.ElementsMatch(t, []string{"address", "price", "bedrooms", "type"}, paths(t, err))

	_, err = v.Check(validation.CreateProperty, validation.Body{})
	assert.ElementsMatch(t, []string{"address", "price", "bedrooms", "bathrooms"}, paths(t, err))
}

func TestCheck_CreatePropertyAcceptsNumericStrings(t *testing.T) {
	v := validation.New()

	values, err := v.Check(validation.CreateProperty, mustDecode(t,
		`{"address":"X","price":"100","bedrooms":"2","bathrooms":"1"}`))

	require.NoError(t, err)
	assert.Equal(t, 100.0, *values.Float("price"))
	assert.Equal(t, 2, *values.Int("bedrooms"))
	assert.Nil(t, values.String("type"))

	values, err = v.Check(validation.CreateProperty, mustDecode(t,
		`{"address":"X","price":100,"bedrooms":2.0,"bathrooms":1e1}`))

	require.NoError(t, err)
	assert.Equal(t, 2, *values.Int("bedrooms"))
	assert.Equal(t, 10, *values.Int("bathrooms"))

	_, err = v.Check(validation.CreateProperty, mustDecode(t,
		`{"address":"X","price":100,"bedrooms":2.5,"bathrooms":1e12}`))
	assert.Equal(t, []string{"bedrooms", "bathrooms"}, paths(t, err))
}

func TestCheck_IntegersMustFitInt32(t *testing.T) {
	v := validation.New()

	values, err := v.Check(validation.ListProperties, validation.Strings{"page": "2147483647"})
	require.NoError(t, err)
	assert.Equal(t, 2147483647, *values.Int("page"))

	for _, page := range []string{"2147483648", "4611686018427387905", "99999999999999999999"} {
		_, err := v.Check(validation.ListProperties, validation.Strings{"page": page})
		assert.Equal(t, []string{"page"}, paths(t, err), "page %q", page)
	}

	_, err = v.Check(validation.PropertyID, validation.Strings{"id": "4294967297"})
	assert.Equal(t, []string{"id"}, paths(t, err))
}

func TestCheck_UpdatePropertyFieldsAreOptional(t *testing.T) {
	v := validation.New()

	values, err := v.Check(validation.UpdateProperty, validation.Body{})
	require.NoError(t, err)
	assert.Empty(t, values)

	values, err = v.Check(validation.UpdateProperty, mustDecode(t, `{"bedrooms":0}`))
	require.NoError(t, err)
	assert.Equal(t, 0, *values.Int("bedrooms"))

	_, err = v.Check(validation.UpdateProperty, mustDecode(t,
		`{"address":1657,"price":"abc","bedrooms":9,"bathrooms":true,"type":null}`))
	assert.ElementsMatch(t, []string{"address", "price", "bathrooms", "type"}, paths(t, err))
}

func TestRuleSet_OptionalDoesNotMutateSource(t *testing.T) {
	optional := validation.CreateProperty.Optional()

	for i := range optional {
		assert.True(t, optional[i].Optional)
	}
	assert.False(t, validation.CreateProperty[0].Optional)
}

func TestDecodeBody(t *testing.T) {
	body, err := validation.DecodeBody(nil)
	require.NoError(t, err)
	assert.Empty(t, body)

	body, err = validation.DecodeBody([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, body)

	for _, raw := range []string{`[1,2]`, `null`, `"text"`, `{"a":1} {"b":2}`, `{broken`} {
		_, err := validation.DecodeBody([]byte(raw))
		assert.Equal(t, []string{"body"}, paths(t, err), "body %s", raw)
	}
}
