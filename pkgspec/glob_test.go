package pkgspec

import "testing"

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"*", "anything", true},
		{"*", "", true},
		{"foo", "foo", true},
		{"foo", "foobar", false},
		{"foo*", "foobar", true},
		{"*bar", "foobar", true},
		{"fo?", "foo", true},
		{"fo?", "fo", false},
		{"f*o*o", "fooooo", true},
		{"**", "anything", true},
		{"a*b*c", "aXbXXc", true},
		{"a*b*c", "aXbXXd", false},
	}
	for _, c := range cases {
		if got := matchGlob(c.pattern, c.s); got != c.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", c.pattern, c.s, got, c.want)
		}
	}
}
