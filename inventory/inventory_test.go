package inventory

import "testing"

func TestApplyStockOp(t *testing.T) {
	cases := []struct {
		name    string
		current int
		op      string
		qty     int
		want    int
		ok      bool
	}{
		{"set", 10, "set", 4, 4, true},
		{"add", 10, "add", 5, 15, true},
		{"subtract", 10, "subtract", 3, 7, true},
		{"subtract floors at zero", 2, "subtract", 8, 0, true},
		{"unknown op", 10, "times", 2, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ApplyStockOp(tc.current, tc.op, tc.qty)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestItemRequestValidate(t *testing.T) {
	valid := itemRequest{Name: "Flour", Category: "ingredients", CurrentStock: 20, MinStock: 5, Unit: "kg"}
	if msg := valid.validate(); msg != "" {
		t.Fatalf("expected valid, got %q", msg)
	}

	bad := valid
	bad.Category = "vehicles"
	if msg := bad.validate(); msg == "" {
		t.Fatal("expected category error")
	}

	bad = valid
	bad.CurrentStock = -1
	if msg := bad.validate(); msg == "" {
		t.Fatal("expected negative stock error")
	}
}
