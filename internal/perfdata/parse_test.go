package perfdata

import (
	"errors"
	"testing"

	dyn "perfdatad/internal/value"
)

func TestParse_NormalizesUnits(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		label    string
		val      float64
		unit     string
		counter  bool
		warn     dyn.Value
		crit     dyn.Value
		min      dyn.Value
		max      dyn.Value
	}{
		{
			name:  "MillisecondsToSeconds",
			raw:   "rta=0.5ms;10;20;0;100",
			label: "rta", val: 0.0005, unit: "s",
			warn: dyn.NewNumber(0.01), crit: dyn.NewNumber(0.02),
			min: dyn.NewNumber(0), max: dyn.NewNumber(0.1),
		},
		{
			name:  "KilobytesToBytes",
			raw:   "mem=2kb;;4096",
			label: "mem", val: 2048, unit: "b",
			crit: dyn.NewNumber(4096 * 1024),
		},
		{
			name:  "PercentPassesThrough",
			raw:   "used=75%;80;90",
			label: "used", val: 75, unit: "%",
			warn: dyn.NewNumber(80), crit: dyn.NewNumber(90),
		},
		{
			name:  "CounterUnit",
			raw:   "requests=42c",
			label: "requests", val: 42, counter: true,
		},
		{
			name:  "UnitlessWithSkippedThresholds",
			raw:   "load1=0.35;;;0",
			label: "load1", val: 0.35,
			min: dyn.NewNumber(0),
		},
		{
			name:  "QuotedLabelWithSpace",
			raw:   "'disk usage'=10mb",
			label: "disk usage", val: 10 * 1024 * 1024, unit: "b",
		},
		{
			name:  "NegativeValue",
			raw:   "offset=-0.002s",
			label: "offset", val: -0.002, unit: "s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdv, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pdv.Label != tt.label {
				t.Errorf("label: want %q, got %q", tt.label, pdv.Label)
			}
			if pdv.Val != tt.val {
				t.Errorf("value: want %v, got %v", tt.val, pdv.Val)
			}
			if pdv.Unit != tt.unit {
				t.Errorf("unit: want %q, got %q", tt.unit, pdv.Unit)
			}
			if pdv.Counter != tt.counter {
				t.Errorf("counter: want %v, got %v", tt.counter, pdv.Counter)
			}
			for _, check := range []struct {
				name string
				want dyn.Value
				got  dyn.Value
			}{
				{"warn", tt.warn, pdv.Warn},
				{"crit", tt.crit, pdv.Crit},
				{"min", tt.min, pdv.Min},
				{"max", tt.max, pdv.Max},
			} {
				if !check.got.Equal(check.want) {
					t.Errorf("%s: want %v, got %v", check.name, check.want, check.got)
				}
			}
		})
	}
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"MissingEquals", "no separator here"},
		{"EmptyLabel", "=5"},
		{"UnterminatedQuote", "'oops=5"},
		{"UnknownUnit", "speed=5parsecs"},
		{"BadThreshold", "rta=5;high"},
		{"EmptyValue", "rta="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdv, err := Parse(tt.raw)
			if err == nil {
				t.Fatalf("want error, got %+v", pdv)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("want *ParseError, got %T", err)
			}
		})
	}
}

func TestValue_StringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"FullThresholds", "rta=0.5ms;10;20;0;100", "rta=0.0005s;0.01;0.02;0;0.1"},
		{"TrailingEmptiesDropped", "load1=0.35;;;", "load1=0.35"},
		{"InnerEmptyKept", "mem=2kb;;4096", "mem=2048b;;4194304"},
		{"QuotedLabel", "'disk usage'=5", "'disk usage'=5"},
		{"Counter", "requests=42c", "requests=42c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdv, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := pdv.String(); got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFromValue(t *testing.T) {
	t.Run("TypedPassthrough", func(t *testing.T) {
		typed := &Value{Label: "rta", Val: 0.1, Unit: "s"}
		pdv, err := FromValue(dyn.NewObject(typed))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pdv != typed {
			t.Fatalf("typed value was not passed through")
		}
	})

	t.Run("StringParsed", func(t *testing.T) {
		pdv, err := FromValue(dyn.NewString("pl=5%;10;20"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pdv.Label != "pl" || pdv.Val != 5 || pdv.Unit != "%" {
			t.Fatalf("got %+v", pdv)
		}
	})

	t.Run("BadStringFails", func(t *testing.T) {
		if _, err := FromValue(dyn.NewString("garbage")); err == nil {
			t.Fatalf("want error for unparseable element")
		}
	})
}

func TestValue_FieldAccess(t *testing.T) {
	pdv := &Value{Label: "rta", Val: 0.25, Unit: "s", Warn: dyn.NewNumber(1)}

	got, err := pdv.GetFieldByName("value", false, dyn.DebugInfo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AsNumber() != 0.25 {
		t.Fatalf("value field: got %v", got)
	}

	if err := pdv.SetFieldByName("crit", dyn.NewNumber(2), dyn.DebugInfo{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pdv.Crit.Equal(dyn.NewNumber(2)) {
		t.Fatalf("crit not set: %v", pdv.Crit)
	}

	if err := pdv.SetFieldByName("bogus", dyn.Empty, dyn.DebugInfo{}); err == nil {
		t.Fatalf("want script error for unknown field")
	}

	clone := pdv.CloneObject().(*Value)
	clone.Val = 99
	if pdv.Val != 0.25 {
		t.Fatalf("clone mutation leaked into original")
	}
}
