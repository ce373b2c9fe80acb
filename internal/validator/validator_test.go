package validator

import "testing"

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("user@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, email := range []string{"", "nope", "a@b", "two@@example.com", "sp ace@example.com"} {
		if err := ValidateEmail(email); err == nil {
			t.Fatalf("expected error for %q", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("longenough"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "USDT"} {
		if err := ValidateCurrency(code); err != nil {
			t.Fatalf("unexpected error for %q: %v", code, err)
		}
	}
	for _, code := range []string{"", "us", "usd", "US", "TOOLONGCODE1"} {
		if err := ValidateCurrency(code); err == nil {
			t.Fatalf("expected error for %q", code)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	if err := ValidateMonth("2024-02"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, month := range []string{"2024-13", "2024-0", "202402", "2024-2"} {
		if err := ValidateMonth(month); err == nil {
			t.Fatalf("expected error for %q", month)
		}
	}
}
