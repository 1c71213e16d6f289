package models

import (
	"testing"
)

// FuzzParseIdentifier checks that classification never panics and that a
// successful parse always yields exactly one kind with the input unchanged.
func FuzzParseIdentifier(f *testing.F) {
	f.Add("")
	f.Add("user@example.com")
	f.Add("+14155552671")
	f.Add("notquiteright@")
	f.Add("'; DROP TABLE profiles;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseIdentifier(input)
		if err != nil {
			return
		}
		if id.Value != input {
			t.Errorf("value changed: %q -> %q", input, id.Value)
		}
		if id.IsEmail() == id.IsPhone() {
			t.Errorf("identifier %q must be exactly one of email or phone", input)
		}
	})
}
