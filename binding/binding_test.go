package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"user": map[string]any{"name": "Ada", "age": float64(36)},
		"tags": []any{"a", map[string]any{"label": "b"}},
	}
	cases := []struct {
		in   string
		want string
	}{
		{"Hello ${user.name}", "Hello Ada"},
		{"${ user.age }y", "36y"},
		{"${tags[0]}/${tags[1].label}", "a/b"},
		{"${missing.path}", "${missing.path}"},
		{"${tags[9]}", "${tags[9]}"},
		{"${tags[x]}", "${tags[x]}"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data should keep placeholder, got %q", got)
	}
}

func TestList(t *testing.T) {
	data := map[string]any{"items": []any{"x", "y"}, "name": "n"}
	if got := List(data, "items"); len(got) != 2 {
		t.Fatalf("expected 2 items, got %v", got)
	}
	if got := List(data, "name"); got != nil {
		t.Fatalf("non-array path should return nil, got %v", got)
	}
	if got := List(data, "nope"); got != nil {
		t.Fatalf("missing path should return nil, got %v", got)
	}
}
