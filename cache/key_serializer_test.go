package cache

import (
	"strings"
	"testing"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeySerializer_BasicTypes(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name      string
		namespace string
		args      []any
		want      string
	}{
		{
			name:      "no args",
			namespace: "genre::list",
			args:      []any{},
			want:      "genre::list",
		},
		{
			name:      "single int",
			namespace: "film::list",
			args:      []any{42},
			want:      joinWithSeparator("film::list", "42"),
		},
		{
			name:      "multiple basic types",
			namespace: "film::search",
			args:      []any{1, "hello", true, 3.14},
			want:      joinWithSeparator("film::search", "1", `"hello"`, "true", "3.14"),
		},
		{
			name:      "string with separator",
			namespace: "film::search",
			args:      []any{"hello::world"},
			want:      joinWithSeparator("film::search", `"hello::world"`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.namespace, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_NilValues(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	var nilString *string
	var nilInt *int

	tests := []struct {
		name string
		args []any
		want string
	}{
		{"nil interface", []any{nil}, joinWithSeparator("ns", "nil")},
		{"nil string pointer", []any{nilString}, joinWithSeparator("ns", "nil")},
		{"nil int pointer", []any{nilInt}, joinWithSeparator("ns", "nil")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey("ns", tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_Pointers(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	sort := "-imdb_rating"
	got := serializer.SerializeKey("film::list", &sort)
	want := joinWithSeparator("film::list", `"-imdb_rating"`)
	if got != want {
		t.Errorf("SerializeKey() = %v, want %v", got, want)
	}

	// The literal string "nil" must not collide with an absent value.
	nilText := "nil"
	if serializer.SerializeKey("ns", &nilText) == serializer.SerializeKey("ns", nil) {
		t.Error("string \"nil\" collides with nil pointer")
	}
}

// The keys below are the ones the catalog services build.
func TestDefaultKeySerializer_ServiceKeys(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		namespace string
		args      []any
		want      string
	}{
		{"film::get_by_id", []any{"025c58cd"}, `film::get_by_id::"025c58cd"`},
		{"film::search", []any{"star wars", 1, 50}, `film::search::"star wars"::1::50`},
		{"film::list", []any{"-imdb_rating", "Drama", 2, 10}, `film::list::"-imdb_rating"::"Drama"::2::10`},
		{"film::list", []any{"", "", 1, 50}, `film::list::""::""::1::50`},
		{"film::similar", []any{"025c58cd", 1, 50}, `film::similar::"025c58cd"::1::50`},
		{"genre::list", []any{1, 10}, `genre::list::1::10`},
		{"person::films", []any{"26e83050"}, `person::films::"26e83050"`},
	}

	for _, tt := range tests {
		if got := serializer.SerializeKey(tt.namespace, tt.args...); got != tt.want {
			t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
		}
	}
}

func TestDefaultKeySerializer_CompositeFallsBackToJSON(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	var nilSlice []string
	tests := []struct {
		name string
		arg  any
		want string
	}{
		{"slice", []string{"a", "b"}, `json:["a","b"]`},
		{"nil slice", nilSlice, "json:null"},
		{"empty slice", []string{}, "json:[]"},
		{"map", map[string]int{"b": 2, "a": 1}, `json:{"a":1,"b":2}`},
		{"struct", struct{ Page, Size int }{1, 50}, `json:{"Page":1,"Size":50}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey("ns", tt.arg)
			if want := joinWithSeparator("ns", tt.want); got != want {
				t.Errorf("SerializeKey() = %v, want %v", got, want)
			}
		})
	}
}

// Distinct argument tuples must never produce the same key.
func TestDefaultKeySerializer_Injective(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tuples := []struct {
		namespace string
		args      []any
	}{
		{"film::search", []any{"star", 1, 50}},
		{"film::search", []any{"star", 2, 50}},
		{"film::search", []any{"star", 1, 10}},
		{"film::search", []any{"", 1, 50}},
		{"film::search", []any{"star::1", 50}},
		{"film::search", []any{`star"`, 1, 50}},
		{"genre::search", []any{"star", 1, 50}},
		{"film::list", []any{nil, nil, 1, 50}},
		{"film::list", []any{"", "", 1, 50}},
		{"film::list", []any{"-imdb_rating", nil, 1, 50}},
		{"film::list", []any{nil, "-imdb_rating", 1, 50}},
		{"film::similar", []any{"id-1", 1, 10}},
		{"film::similar", []any{"id-2", 1, 10}},
		{"film::similar", []any{"id-1", 2, 10}},
		{"film::similar", []any{"id-1", 1, 20}},
	}

	seen := make(map[string]int)
	for i, tuple := range tuples {
		key := serializer.SerializeKey(tuple.namespace, tuple.args...)
		if j, ok := seen[key]; ok {
			t.Errorf("tuples %d and %d collide on key %s", j, i, key)
		}
		seen[key] = i
	}
}

func TestDefaultKeySerializer_Stability(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	args := []any{"query", map[string]int{"b": 2, "a": 1}, []string{"x"}}
	first := serializer.SerializeKey("ns", args...)
	for i := 0; i < 100; i++ {
		if got := serializer.SerializeKey("ns", args...); got != first {
			t.Fatalf("iteration %d produced %s, want %s", i, got, first)
		}
	}
}

func TestDefaultKeySerializer_JSONFallback(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	got := serializer.SerializeKey("ns", complex(1, 2))
	if !strings.HasPrefix(got, joinWithSeparator("ns", "fallback:")) {
		t.Errorf("expected fallback serialization, got %s", got)
	}
}

func BenchmarkDefaultKeySerializer(b *testing.B) {
	serializer := NewDefaultKeySerializer()
	for i := 0; i < b.N; i++ {
		serializer.SerializeKey("film::list", "-imdb_rating", "Drama", 1, 50)
	}
}
