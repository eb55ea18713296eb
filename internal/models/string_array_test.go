package models

import "testing"

func TestStringArrayScanTolerance(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want []string
	}{
		{"json array", `["a","b"]`, []string{"a", "b"}},
		{"json string", `"legacy.png"`, []string{"legacy.png"}},
		{"bare string", "not-json", []string{"not-json"}},
		{"empty", "", []string{}},
		{"null literal", "null", []string{}},
		{"nil value", nil, []string{}},
		{"bytes", []byte(`["x"]`), []string{"x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var a StringArray
			if err := a.Scan(tc.in); err != nil {
				t.Fatalf("scan: %v", err)
			}
			if len(a) != len(tc.want) {
				t.Fatalf("scan(%v) = %v, want %v", tc.in, a, tc.want)
			}
			for i := range a {
				if a[i] != tc.want[i] {
					t.Fatalf("scan(%v) = %v, want %v", tc.in, a, tc.want)
				}
			}
		})
	}
}

func TestStringArrayValue(t *testing.T) {
	var nilArr StringArray
	v, err := nilArr.Value()
	if err != nil || v != "[]" {
		t.Fatalf("nil value = %v, %v; want \"[]\"", v, err)
	}

	v, err = StringArray{"a"}.Value()
	if err != nil || v != `["a"]` {
		t.Fatalf("value = %v, %v", v, err)
	}
}
