package escape

import (
	"testing"

	"perfdatad/internal/value"
)

func TestMetric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"SpacesAndDots", "a b.c", "a_b_c"},
		{"Backslash", `a\b`, "a_b"},
		{"Slash", "disk/root", "disk_root"},
		{"CleanPassthrough", "load1", "load1"},
		{"Idempotent", "a_b_c", "a_b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Metric(tt.input); got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMetricLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"KeepsDot", "used.percent", "used.percent"},
		{"NamespaceToDot", "a b::c", "a_b.c"},
		{"SlashesUnderscored", `a/b\c`, "a_b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MetricLabel(tt.input); got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTagAndTsdbMetric(t *testing.T) {
	if got := Tag(`db 01\x`); got != "db_01_x" {
		t.Fatalf("tag: got %q", got)
	}
	if got := Tag("db.01"); got != "db.01" {
		t.Fatalf("tag keeps dots: got %q", got)
	}
	if got := TsdbMetric("a:b"); got != "a_b" {
		t.Fatalf("tsdb metric: got %q", got)
	}
	if got := TsdbMetric("cpu load.avg"); got != "cpu_load_avg" {
		t.Fatalf("tsdb metric: got %q", got)
	}
}

func TestMacroMetric(t *testing.T) {
	t.Run("ScalarEscaped", func(t *testing.T) {
		got := MacroMetric(value.NewString("web 01.prod"))
		if got.AsString() != "web_01_prod" {
			t.Fatalf("got %q", got.AsString())
		}
	})

	t.Run("ArrayJoinedWithDots", func(t *testing.T) {
		input := value.NewObject(value.NewArray(
			value.NewString("east 1"),
			value.NewString("web.01"),
		))
		got := MacroMetric(input)
		if got.AsString() != "east_1.web_01" {
			t.Fatalf("got %q", got.AsString())
		}
	})
}
