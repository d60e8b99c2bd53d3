package sorter

import (
	"strings"

	"github.com/tallhamn/sortdeps/internal/syntax"
)

// Bucket is the resolved identity of a configuration name. Rank is -1 for
// configurations that match no known name.
type Bucket struct {
	Name    string
	Rank    int
	Variant string
}

// Known reports whether b resolved to one of the known configurations.
func (b Bucket) Known() bool { return b.Rank >= 0 }

// HasVariant reports whether a build-variant qualifier was fused into the
// configuration name.
func (b Bucket) HasVariant() bool { return b.Variant != "" }

// knownConfigurations is in rank order.
var knownConfigurations = []string{
	"api",
	"implementation",
	"compileOnlyApi",
	"compileOnly",
	"runtimeOnly",
	"annotationProcessor",
	"kapt",
	"testFixturesApi",
	"testFixturesImplementation",
	"testImplementation",
	"testCompileOnly",
	"testRuntimeOnly",
	"androidTestImplementation",
}

// Resolve maps a configuration name to its bucket. Matching is
// case-insensitive and tries an exact match, then a variant prefix
// ("debugApi"), then a variant suffix ("apiRelease"). The first strategy that
// matches wins; within a strategy the table order decides. Quoted names
// ("debugApi" in the Kotlin DSL) resolve by their bare text.
func Resolve(raw string) (Bucket, bool) {
	name := syntax.Unquote(raw)
	for rank, base := range knownConfigurations {
		if strings.EqualFold(name, base) {
			return Bucket{Name: base, Rank: rank}, true
		}
	}
	for rank, base := range knownConfigurations {
		if len(name) > len(base) && strings.EqualFold(name[len(name)-len(base):], base) {
			return Bucket{Name: base, Rank: rank, Variant: name[:len(name)-len(base)]}, true
		}
	}
	for rank, base := range knownConfigurations {
		if len(name) > len(base) && strings.EqualFold(name[:len(base)], base) {
			return Bucket{Name: base, Rank: rank, Variant: name[len(base):]}, true
		}
	}
	return Bucket{Name: raw, Rank: -1}, false
}

// CompareBuckets orders two resolved buckets. Known buckets sort by rank
// and before unknown ones; unknown buckets sort by their bare name. At equal
// rank a bucket without a variant comes first, and two variants compare in
// descending order.
func CompareBuckets(a, b Bucket) int {
	switch {
	case !a.Known() && !b.Known():
		return strings.Compare(syntax.Unquote(a.Name), syntax.Unquote(b.Name))
	case !a.Known():
		return 1
	case !b.Known():
		return -1
	}

	if a.Rank != b.Rank {
		return a.Rank - b.Rank
	}

	switch {
	case a.HasVariant() && b.HasVariant():
		return strings.Compare(b.Variant, a.Variant)
	case a.HasVariant():
		return 1
	case b.HasVariant():
		return -1
	}
	return 0
}

// CompareConfigurations resolves and compares two raw configuration names.
func CompareConfigurations(a, b string) int {
	ba, _ := Resolve(a)
	bb, _ := Resolve(b)
	return CompareBuckets(ba, bb)
}
