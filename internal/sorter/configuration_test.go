package sorter

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		raw     string
		name    string
		rank    int
		variant string
		known   bool
	}{
		{"api", "api", 0, "", true},
		{"implementation", "implementation", 1, "", true},
		{"IMPLEMENTATION", "implementation", 1, "", true},
		{"compileOnlyApi", "compileOnlyApi", 2, "", true},
		{"kapt", "kapt", 6, "", true},
		{"androidTestImplementation", "androidTestImplementation", 12, "", true},
		{"debugApi", "api", 0, "debug", true},
		{"releaseImplementation", "implementation", 1, "release", true},
		{"implementationDebug", "implementation", 1, "Debug", true},
		{"kaptTest", "kapt", 6, "Test", true},
		{`"debugApi"`, "api", 0, "debug", true},
		{"customThing", "customThing", -1, "", false},
		{`"custom"`, `"custom"`, -1, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			b, known := Resolve(tt.raw)
			if known != tt.known {
				t.Errorf("known = %v, want %v", known, tt.known)
			}
			if b.Name != tt.name || b.Rank != tt.rank || b.Variant != tt.variant {
				t.Errorf("Resolve(%q) = %+v, want {%s %d %s}", tt.raw, b, tt.name, tt.rank, tt.variant)
			}
		})
	}
}

// Exact matches win over a suffix that is also in the table.
func TestResolve_ExactBeforeSuffix(t *testing.T) {
	for _, name := range []string{"compileOnlyApi", "testFixturesApi", "testImplementation"} {
		b, _ := Resolve(name)
		if b.HasVariant() || b.Name != name {
			t.Errorf("Resolve(%q) = %+v", name, b)
		}
	}
}

func TestCompareConfigurations(t *testing.T) {
	tests := []struct {
		a, b string
		want int // sign
	}{
		{"api", "implementation", -1},
		{"implementation", "kapt", -1},
		{"customThing", "api", 1},
		{"api", "customThing", -1},
		{"testImplementation", "androidTestImplementation", -1},
		{"api", "debugApi", -1},
		{"debugApi", "api", 1},
		{"releaseApi", "debugApi", -1},
		{"debugApi", "releaseApi", 1},
		{"alpha", "beta", -1},
		{`"beta"`, "alpha", 1},
		{`"alpha"`, "alpha", 0},
		{"implementation", "Implementation", 0},
	}
	for _, tt := range tests {
		got := sign(CompareConfigurations(tt.a, tt.b))
		if got != tt.want {
			t.Errorf("CompareConfigurations(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
