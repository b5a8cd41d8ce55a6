package util

import "testing"

func TestJoinThaiName(t *testing.T) {
	if got := JoinThaiName("ดร.", "พลวัต", "สมบูรณ์"); got != "ดร.พลวัต สมบูรณ์" {
		t.Fatalf("unexpected thai name: %q", got)
	}
	if got := JoinThaiName("", "สมชาย", ""); got != "สมชาย" {
		t.Fatalf("unexpected thai name without prename: %q", got)
	}
}

func TestJoinEnglishName(t *testing.T) {
	if got := JoinEnglishName("Dr.", "Polawat", "Somboon"); got != "Dr. Polawat Somboon" {
		t.Fatalf("unexpected english name: %q", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := []string{"authorized_signatures", "authorizedSignatures", "AUTHORIZED-SIGNATURES", " authorized signatures "}
	for _, c := range cases {
		if got := NormalizeKey(c); got != "authorizedsignatures" {
			t.Fatalf("NormalizeKey(%q) = %q", c, got)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename(`บริษัท ไทย/จำกัด (มหาชน)`); got != "บริษัท_ไทย_จำกัด_(มหาชน)" {
		t.Fatalf("unexpected sanitized name: %q", got)
	}
}
