package groovy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tallhamn/sortdeps/internal/sorter"
	"github.com/tallhamn/sortdeps/internal/syntax"
)

var defaultConfig = sorter.DefaultConfig()

// sortText returns the script after sorting, or the script itself when it
// is already ordered.
func sortText(t *testing.T, src string, cfg sorter.Config) string {
	t.Helper()
	res := OfSource(src, cfg).Result()
	if res.Outcome == sorter.ParseFailed {
		t.Fatalf("parse failed: %v", res.Err)
	}
	return res.Text
}

// assertOrder checks that each substring appears in text after the previous one.
func assertOrder(t *testing.T, text string, substrs ...string) {
	t.Helper()
	pos := -1
	for _, s := range substrs {
		i := strings.Index(text, s)
		if i < 0 {
			t.Fatalf("%q not found in:\n%s", s, text)
		}
		if i <= pos {
			t.Fatalf("%q out of order in:\n%s", s, text)
		}
		pos = i
	}
}

// ============================================================
// Golden-file tests
// ============================================================

func TestGolden(t *testing.T) {
	inputs, err := filepath.Glob("testdata/*_input.gradle")
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) == 0 {
		t.Fatal("no golden-file test pairs found in testdata/")
	}

	for _, inputPath := range inputs {
		expectedPath := strings.Replace(inputPath, "_input.gradle", "_expected.gradle", 1)
		name := strings.TrimSuffix(filepath.Base(inputPath), "_input.gradle")

		t.Run(name, func(t *testing.T) {
			input, err := os.ReadFile(inputPath)
			if err != nil {
				t.Fatalf("reading input: %v", err)
			}
			expected, err := os.ReadFile(expectedPath)
			if err != nil {
				t.Fatalf("reading expected %s: %v", expectedPath, err)
			}

			if got := sortText(t, string(input), defaultConfig); got != string(expected) {
				t.Errorf("output mismatch.\ngot:\n%s\nwant:\n%s", got, expected)
			}
		})
	}
}

// ============================================================
// Idempotency: sorting a sorted script changes nothing
// ============================================================

func TestIdempotency_AllFixtures(t *testing.T) {
	inputs, err := filepath.Glob("testdata/*_input.gradle")
	if err != nil {
		t.Fatal(err)
	}
	for _, inputPath := range inputs {
		name := strings.TrimSuffix(filepath.Base(inputPath), "_input.gradle")

		t.Run(name, func(t *testing.T) {
			input, err := os.ReadFile(inputPath)
			if err != nil {
				t.Fatal(err)
			}
			first := sortText(t, string(input), defaultConfig)

			e := OfSource(first, defaultConfig)
			if !e.IsSorted() {
				t.Fatalf("sorted output is not sorted:\n%s", first)
			}
			if _, err := e.Rewritten(); !errors.Is(err, sorter.ErrAlreadyOrdered) {
				t.Errorf("Rewritten on sorted output: want ErrAlreadyOrdered, got %v", err)
			}
			if res := e.Result(); res.Outcome != sorter.AlreadyOrdered || res.Text != first {
				t.Errorf("Result = %v", res.Outcome)
			}
		})
	}
}

// ============================================================
// Engine contract
// ============================================================

func TestEndToEndExample(t *testing.T) {
	input := "dependencies {\n  implementation 'com.foo:bar:1.0'\n  api project(':core')\n}\n"
	want := "dependencies {\n  api project(':core')\n\n  implementation 'com.foo:bar:1.0'\n}\n"

	e := OfSource(input, defaultConfig)
	if e.IsSorted() {
		t.Fatal("IsSorted = true for a mis-ordered block")
	}
	if e.HasParseErrors() || e.ParseError() != nil {
		t.Fatal("unexpected parse error")
	}
	got, err := e.Rewritten()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if e.Result().Outcome != sorter.Rewritten {
		t.Errorf("Outcome = %v", e.Result().Outcome)
	}
}

func TestNoBlankLines(t *testing.T) {
	input := "dependencies {\n  implementation 'com.foo:bar:1.0'\n  api project(':core')\n}\n"
	want := "dependencies {\n  api project(':core')\n  implementation 'com.foo:bar:1.0'\n}\n"

	if got := sortText(t, input, sorter.Config{InsertBlankLines: false}); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestNoDependencies(t *testing.T) {
	for _, src := range []string{"", "apply plugin: 'java'\n", "dependencies {\n}\n"} {
		e := OfSource(src, defaultConfig)
		if !e.IsSorted() {
			t.Errorf("%q: IsSorted = false", src)
		}
		if _, err := e.Rewritten(); !errors.Is(err, sorter.ErrAlreadyOrdered) {
			t.Errorf("%q: want ErrAlreadyOrdered, got %v", src, err)
		}
	}
}

func TestOnlyUnorderedBlocksChange(t *testing.T) {
	input := "project(':a') {\n" +
		"    dependencies {\n" +
		"        api   'a:a:1'\n" +
		"        implementation 'b:b:1'\n" +
		"    }\n" +
		"}\n" +
		"dependencies {\n" +
		"    implementation 'd:d:1'\n" +
		"    api 'c:c:1'\n" +
		"}\n"

	got := sortText(t, input, defaultConfig)
	if !strings.HasPrefix(got, "project(':a') {\n    dependencies {\n        api   'a:a:1'\n        implementation 'b:b:1'\n    }\n}\n") {
		t.Errorf("ordered block was rewritten:\n%s", got)
	}
	assertOrder(t, got, "api 'c:c:1'", "implementation 'd:d:1'")
}

func TestBuildscriptIsLeftAlone(t *testing.T) {
	input := "buildscript {\n  dependencies {\n    classpath 'z:z:1'\n    classpath 'a:a:1'\n  }\n}\n"
	e := OfSource(input, defaultConfig)
	if !e.IsSorted() {
		t.Error("buildscript dependencies should not be checked")
	}
	if len(e.Blocks()) != 0 {
		t.Errorf("collected %d blocks inside buildscript", len(e.Blocks()))
	}
}

func TestDeduplication(t *testing.T) {
	input := "dependencies {\n" +
		"  api 'a:b:1'\n" +
		"  api 'a:b:1'\n" +
		"  api  'a:b:1'\n" +
		"  // c\n" +
		"  api 'a:b:1'\n" +
		"}\n"
	want := "dependencies {\n" +
		"  api 'a:b:1'\n" +
		"  api  'a:b:1'\n" +
		"  // c\n" +
		"  api 'a:b:1'\n" +
		"}\n"

	if got := sortText(t, input, defaultConfig); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCRLFPreserved(t *testing.T) {
	input := "dependencies {\r\n  implementation 'b:b:1'\r\n  api 'a:a:1'\r\n}\r\n"
	want := "dependencies {\r\n  api 'a:a:1'\r\n\r\n  implementation 'b:b:1'\r\n}\r\n"

	if got := sortText(t, input, defaultConfig); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTabIndentation(t *testing.T) {
	input := "dependencies {\n\timplementation 'b:b:1'\n\tapi 'a:a:1'\n}\n"
	want := "dependencies {\n\tapi 'a:a:1'\n\n\timplementation 'b:b:1'\n}\n"

	if got := sortText(t, input, defaultConfig); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVerbatimDeclarationText(t *testing.T) {
	input := "dependencies {\n" +
		"  implementation( 'b:b:1' )\n" +
		"  api('a:a:1') { transitive = false }\n" +
		"}\n"

	got := sortText(t, input, defaultConfig)
	assertOrder(t, got, "api('a:a:1') { transitive = false }", "implementation( 'b:b:1' )")
}

// ============================================================
// Classification
// ============================================================

func TestDeclarations(t *testing.T) {
	input := "dependencies {\n" +
		"  implementation 'g:a:1'\n" +
		"  implementation('g:b:1')\n" +
		"  implementation group: 'g', name: 'c', version: '1'\n" +
		"  implementation project(':p')\n" +
		"  implementation project(path: ':q', configuration: 'default')\n" +
		"  implementation files('a.jar')\n" +
		"  implementation fileTree(dir: 'libs', include: ['*.jar'])\n" +
		"  implementation platform('g:bom:1')\n" +
		"  implementation enforcedPlatform('g:bom:2')\n" +
		"  testImplementation testFixtures(project(':p'))\n" +
		"  implementation libs.guava\n" +
		"}\n"

	blocks := OfSource(input, defaultConfig).Blocks()
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks", len(blocks))
	}

	type want struct {
		kind       sorter.DeclarationKind
		dep        sorter.DependencyKind
		identifier string
		quoted     bool
	}
	wants := []want{
		{sorter.Normal, sorter.External, "g:a:1", true},
		{sorter.Normal, sorter.External, "g:b:1", true},
		{sorter.Normal, sorter.External, "group: 'g', name: 'c', version: '1'", false},
		{sorter.Normal, sorter.Project, ":p", true},
		{sorter.Normal, sorter.Project, ":q", true},
		{sorter.Normal, sorter.File, "a.jar", true},
		{sorter.Normal, sorter.File, "libs", true},
		{sorter.Platform, sorter.External, "g:bom:1", true},
		{sorter.EnforcedPlatform, sorter.External, "g:bom:2", true},
		{sorter.TestFixtures, sorter.Project, ":p", true},
		{sorter.Normal, sorter.External, "libs.guava", false},
	}

	decls := blocks[0]
	if len(decls) != len(wants) {
		t.Fatalf("got %d declarations, want %d", len(decls), len(wants))
	}
	for i, w := range wants {
		d := decls[i]
		if d.Kind != w.kind || d.Dependency != w.dep || d.Identifier != w.identifier || d.Quoted != w.quoted {
			t.Errorf("%d: %s: got {%v %v %q %v}, want %+v", i, d.Text, d.Kind, d.Dependency, d.Identifier, d.Quoted, w)
		}
	}
}

func TestStatementsKeptAhead(t *testing.T) {
	input := "dependencies {\n" +
		"  implementation 'b:b:1'\n" +
		"  if (useFoo) {\n" +
		"    implementation 'foo:foo:1'\n" +
		"  }\n" +
		"  api 'a:a:1'\n" +
		"  add('custom', 'c:c:1')\n" +
		"}\n"
	want := "dependencies {\n" +
		"  if (useFoo) {\n" +
		"    implementation 'foo:foo:1'\n" +
		"  }\n" +
		"  add('custom', 'c:c:1')\n" +
		"\n" +
		"  api 'a:a:1'\n" +
		"\n" +
		"  implementation 'b:b:1'\n" +
		"}\n"

	if got := sortText(t, input, defaultConfig); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// ============================================================
// Errors
// ============================================================

func TestParseErrors(t *testing.T) {
	input := "dependencies {\n  implementation('a:b:1'\n  api 'x\n"
	e := OfSource(input, defaultConfig)

	if !e.HasParseErrors() {
		t.Fatal("HasParseErrors = false")
	}
	if !e.IsSorted() {
		t.Error("a script that does not parse is not reported as unsorted")
	}
	want := []string{
		"line 3:6 unterminated string literal",
		"line 4:0 missing ')' at '<EOF>'",
		"line 4:0 missing '}' at '<EOF>'",
	}
	perr := e.ParseError()
	if perr == nil || strings.Join(perr.Messages, "|") != strings.Join(want, "|") {
		t.Fatalf("messages = %v, want %v", perr, want)
	}

	_, err := e.Rewritten()
	var got *sorter.ParseError
	if !errors.As(err, &got) {
		t.Fatalf("Rewritten: want *ParseError, got %v", err)
	}
	if res := e.Result(); res.Outcome != sorter.ParseFailed || res.Err == nil {
		t.Errorf("Result = %+v", res)
	}
}

func TestClassificationError(t *testing.T) {
	e := OfSource("dependencies {\n  implementation()\n}\n", defaultConfig)
	if !e.HasParseErrors() {
		t.Fatal("an empty declaration should fail")
	}
	var ce *sorter.ClassificationError
	if !errors.As(e.Result().Err, &ce) {
		t.Fatalf("want ClassificationError, got %v", e.Result().Err)
	}
	if ce.Line != 2 {
		t.Errorf("Line = %d, want 2", ce.Line)
	}
}

func TestUnknownEmptyCallIsStatement(t *testing.T) {
	e := OfSource("dependencies {\n  foo()\n  api 'a:a:1'\n}\n", defaultConfig)
	if e.HasParseErrors() {
		t.Fatalf("unexpected error: %v", e.ParseError())
	}
}

func TestParseShapes(t *testing.T) {
	root, _, errs := Parse("dependencies {\n  api 'a:a:1'\n  println 'x'\n}\n")
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	deps := root.Child(syntax.ShapeDependencies)
	if deps == nil || len(deps.Children) != 2 {
		t.Fatalf("dependencies node = %+v", deps)
	}
	if deps.Children[0].Shape != syntax.ShapeNormalDeclaration {
		t.Errorf("first child = %v", deps.Children[0].Shape)
	}
	if deps.Children[1].Shape != syntax.ShapeStatement {
		t.Errorf("second child = %v", deps.Children[1].Shape)
	}
}

func TestOf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.gradle")
	if err := os.WriteFile(path, []byte("dependencies {\n  api 'a:a:1'\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	e, err := Of(path, defaultConfig)
	if err != nil {
		t.Fatal(err)
	}
	if e.Path() != path || !e.IsSorted() {
		t.Errorf("Of: path %q sorted %v", e.Path(), e.IsSorted())
	}

	if _, err := Of(filepath.Join(t.TempDir(), "missing.gradle"), defaultConfig); err == nil {
		t.Error("Of on a missing file should fail")
	}
}
