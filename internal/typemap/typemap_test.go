package typemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mark3labs/reqsnip/internal/spec"
)

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		schema   *spec.Schema
		required bool
		want     string
	}{
		{"nil", nil, true, "()"},
		{"nil optional", nil, false, "()"},
		{"integer", spec.Primitive("integer", ""), true, "i64"},
		{"number", spec.Primitive("number", ""), true, "f64"},
		{"boolean optional", spec.Primitive("boolean", ""), false, "Option<bool>"},
		{"string", spec.Primitive("string", ""), true, "String"},
		{"int32", spec.Primitive("integer", "int32"), true, "i32"},
		{"int64 optional", spec.Primitive("integer", "int64"), false, "Option<i64>"},
		{"float", spec.Primitive("number", "float"), true, "f32"},
		{"double", spec.Primitive("number", "double"), true, "f64"},
		{"date", spec.Primitive("string", "date"), true, "chrono::naive::NaiveDate"},
		{"date-time optional", spec.Primitive("string", "date-time"), false, "Option<chrono::DateTime<chrono::Utc>>"},
		{"byte", spec.Primitive("string", "byte"), true, "String"},
		{"binary", spec.Primitive("string", "binary"), true, "String"},
		{"unknown format", spec.Primitive("string", "uuid"), true, "()"},
		{"unknown format optional", spec.Primitive("string", "uuid"), false, "Option<()>"},
		{"reference", spec.Ref("#/components/schemas/pet_store"), true, "PetStore"},
		{"reference optional", spec.Ref("Pet"), false, "Option<Pet>"},
		{"array", spec.ArrayOf(spec.Primitive("string", "")), true, "Vec<String>"},
		{"array optional", spec.ArrayOf(spec.Primitive("integer", "")), false, "Option<Vec<i64>>"},
		{"nested array optional", spec.ArrayOf(spec.ArrayOf(spec.Ref("Pet"))), false, "Option<Vec<Vec<Pet>>>"},
		{"map", spec.MapOf(spec.Primitive("integer", "int32")), true, "HashMap<String, i32>"},
		{"map optional", spec.MapOf(spec.Primitive("string", "")), false, "Option<HashMap<String, Option<String>>>"},
		{"opaque object", spec.ObjectOf(spec.Property{Name: "a", Schema: spec.Primitive("string", "")}), true, "Object"},
		{"opaque object optional", &spec.Schema{Type: "object"}, false, "Option<Object>"},
		{"untyped", &spec.Schema{}, true, "()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapType(tt.schema, tt.required))
		})
	}
}

func TestMapType_OptionalityOfPrimitives(t *testing.T) {
	t.Parallel()

	formats := map[string][]string{
		"integer": {"", "int32", "int64"},
		"number":  {"", "float", "double"},
		"string":  {"", "date", "date-time", "byte", "binary"},
		"boolean": {""},
	}
	for typ, fs := range formats {
		for _, f := range fs {
			s := spec.Primitive(typ, f)
			assert.False(t, IsOptional(MapType(s, true)), "%s/%s required", typ, f)
			assert.True(t, IsOptional(MapType(s, false)), "%s/%s optional", typ, f)
		}
	}
}

func TestMapType_ArrayElementsNeverOptional(t *testing.T) {
	t.Parallel()

	s := spec.ArrayOf(spec.MapOf(spec.ArrayOf(spec.Primitive("boolean", ""))))
	got := MapType(s, false)
	assert.Equal(t, "Option<Vec<HashMap<String, Vec<bool>>>>", got)
	assert.Equal(t, 1, strings.Count(got, "Option<"))
}

func TestMapTypeAs_ABIOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema *spec.Schema
		want   string
	}{
		{"string", spec.Primitive("string", ""), "ROption<String>"},
		{"array", spec.ArrayOf(spec.Primitive("string", "")), "ROption<Vec<String>>"},
		{"map", spec.MapOf(spec.Primitive("string", "")), "ROption<HashMap<String, ROption<String>>>"},
		{"reference", spec.Ref("Pet"), "ROption<Pet>"},
	}
	for _, tt := range tests {
		got := MapTypeAs(tt.schema, false, ABIOption)
		assert.Equal(t, tt.want, got, tt.name)
		assert.NotContains(t, strings.ReplaceAll(got, "ROption<", ""), "Option<", tt.name)
	}
	assert.Equal(t, "i64", MapTypeAs(spec.Primitive("integer", ""), true, ABIOption))
}

func TestIsOptional(t *testing.T) {
	t.Parallel()

	assert.True(t, IsOptional("Option<String>"))
	assert.True(t, IsOptional("ROption<Vec<i64>>"))
	assert.False(t, IsOptional("Option<>"))
	assert.False(t, IsOptional("ROption<>"))
	assert.False(t, IsOptional("Vec<Option<String>>"))
	assert.False(t, IsOptional("String"))
}

func TestSafe(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Fragment("Option<String>"), Safe(spec.Primitive("string", ""), false, StdOption))
	assert.Equal(t, Fragment("ROption<String>"), Safe(spec.Primitive("string", ""), false, ABIOption))
	assert.Equal(t, "()", Safe(nil, true, ABIOption).String())
}
