package password

import "testing"

func TestHashRoundTrip(t *testing.T) {
	encoded, err := Hash("S3cure!pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !Verify("S3cure!pass", encoded) {
		t.Fatal("verify rejected the originating password")
	}
	if Verify("S3cure!pasS", encoded) {
		t.Fatal("verify accepted a different password")
	}
	if encoded == "S3cure!pass" {
		t.Fatal("encoded hash equals the raw password")
	}
}

func TestHashSaltsDiffer(t *testing.T) {
	first, err := Hash("repeatable")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash("repeatable")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
	if !Verify("repeatable", first) || !Verify("repeatable", second) {
		t.Fatal("both encodings should verify")
	}
}

func TestVerifyMalformed(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"wrong length", "c2hvcnQ="},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if Verify("whatever", tt.encoded) {
				t.Fatalf("verify accepted malformed encoding %q", tt.encoded)
			}
		})
	}
}
