package common

import "testing"

func TestValidateEmailAddress(t *testing.T) {
	if err := ValidateEmailAddress("j@example.com"); err != nil {
		t.Errorf("valid address rejected: %s", err.Error())
	}
	if err := ValidateEmailAddress("not-an-address"); err == nil {
		t.Errorf("invalid address accepted")
	}
}
