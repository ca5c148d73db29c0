package accounts

import "testing"

// Synthetic passwords back Google-created accounts; they must pass the same
// policy as user-chosen ones or a later save would be rejected.
func TestSyntheticPasswordSatisfiesPolicy(t *testing.T) {
	for i := 0; i < 20; i++ {
		if pw := syntheticPassword(); !ValidPassword(pw) {
			t.Fatalf("syntheticPassword() = %q fails the password policy", pw)
		}
	}
}
