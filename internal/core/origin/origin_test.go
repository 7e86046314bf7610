package origin

import "testing"

func TestAllowed(t *testing.T) {
	cases := []struct {
		name    string
		allow   []string
		origin  string
		referer string
		want    bool
	}{
		{"empty list accepts", nil, "", "", true},
		{"empty list accepts anything", []string{}, "https://evil.test", "", true},
		{"origin host match", []string{"https://example.com"}, "https://example.com", "", true},
		{"origin port ignored", []string{"https://example.com"}, "http://example.com:8080", "", true},
		{"referer host match", []string{"https://example.com"}, "", "https://example.com/contact?x=1", true},
		{"bare host entry", []string{"example.com"}, "https://example.com", "", true},
		{"subdomain differs", []string{"https://example.com"}, "https://app.example.com", "", false},
		{"case insensitive host", []string{"https://Example.COM"}, "https://example.com", "", true},
		{"second entry wins", []string{"https://a.test", "https://b.test"}, "https://b.test", "", true},
		{"no match", []string{"https://example.com"}, "https://evil.test", "https://evil.test/x", false},
		{"both headers absent", []string{"https://example.com"}, "", "", false},
		{"unparseable entry uses containment", []string{"%zz-bad"}, "https://host/%zz-bad", "", true},
		{"unparseable header uses containment", []string{"example.com"}, "::example.com%zz", "", true},
	}
	for _, tc := range cases {
		if got := Allowed(tc.allow, tc.origin, tc.referer); got != tc.want {
			t.Fatalf("%s: Allowed(%v, %q, %q) = %v, want %v", tc.name, tc.allow, tc.origin, tc.referer, got, tc.want)
		}
	}
}
