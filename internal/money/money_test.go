package money

import "testing"

func TestParseAcceptsEightFractionalDigits(t *testing.T) {
	value, err := Parse("1000.00000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Format(value) != "1000.00000001" {
		t.Fatalf("unexpected value: %s", Format(value))
	}
}

func TestParseRejectsNineFractionalDigits(t *testing.T) {
	if _, err := Parse("1.000000001"); err != ErrTooManyDecimals {
		t.Fatalf("expected ErrTooManyDecimals, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "  ", "abc", "1.2.3"} {
		if _, err := Parse(input); err != ErrInvalidAmount {
			t.Fatalf("input %q: expected ErrInvalidAmount, got %v", input, err)
		}
	}
}

func TestParsePositive(t *testing.T) {
	if _, err := ParsePositive("0"); err != ErrNotPositive {
		t.Fatalf("expected ErrNotPositive for zero, got %v", err)
	}
	if _, err := ParsePositive("-5"); err != ErrNotPositive {
		t.Fatalf("expected ErrNotPositive for negative, got %v", err)
	}
	value, err := ParsePositive("300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Format(value) != "300.00000000" {
		t.Fatalf("unexpected value: %s", Format(value))
	}
}
