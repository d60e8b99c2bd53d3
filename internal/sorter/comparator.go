package sorter

import "strings"

// CompareDeclarations orders two declarations of the same configuration:
// platform wrappers first, then test fixtures, then plain declarations.
// Within a kind, project dependencies precede file dependencies, which
// precede external ones. Ties fall through to the identifier text and
// finally to quoting, quoted first.
func CompareDeclarations(a, b Declaration) int {
	if c := kindPriority(a.Kind) - kindPriority(b.Kind); c != 0 {
		return c
	}
	if c := dependencyPriority(a.Dependency) - dependencyPriority(b.Dependency); c != 0 {
		return c
	}
	if c := strings.Compare(comparisonText(a.Identifier), comparisonText(b.Identifier)); c != 0 {
		return c
	}
	switch {
	case a.Quoted && !b.Quoted:
		return -1
	case !a.Quoted && b.Quoted:
		return 1
	}
	return 0
}

func kindPriority(k DeclarationKind) int {
	switch k {
	case Platform, EnforcedPlatform:
		return 0
	case TestFixtures:
		return 1
	default:
		return 2
	}
}

func dependencyPriority(k DependencyKind) int {
	switch k {
	case Project:
		return 0
	case File:
		return 1
	default:
		return 2
	}
}

// Colons must sort before hyphens: ',' (44) sits below '-' (45) where ':'
// (58) does not. Quote styles are not significant.
var comparisonReplacer = strings.NewReplacer(":", ",", "'", `"`)

func comparisonText(identifier string) string {
	return comparisonReplacer.Replace(identifier)
}
