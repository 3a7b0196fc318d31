package slug

import "testing"

func TestMake(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple name", "My Awesome Project", "my-awesome-project"},
		{"already a slug", "my-awesome-project", "my-awesome-project"},
		{"leading and trailing hyphens", "  -hello-  ", "hello"},
		{"underscores and runs of spaces", "foo  bar__baz", "foo-bar-baz"},
		{"hyphen between spaces", "a - b", "a---b"},
		{"mixed case", "NextHub", "nexthub"},
		{"special characters stripped", "C++ & Go!", "c-go"},
		{"numbers kept", "Release 2.0", "release-20"},
		{"tabs and newlines", "one\ttwo\nthree", "one-two-three"},
		{"empty", "", ""},
		{"only special characters", "!@#$%", ""},
		{"only whitespace", "   ", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Make(tc.input)
			if got != tc.want {
				t.Errorf("Make(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"My Awesome Project",
		"foo  bar__baz",
		"a - b",
		"Release 2.0",
	}

	for _, input := range inputs {
		once := Make(input)
		twice := Make(once)
		if once != twice {
			t.Errorf("Make not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
