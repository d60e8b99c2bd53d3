package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tallhamn/sortdeps/internal/groovy"
	"github.com/tallhamn/sortdeps/internal/kotlin"
	"github.com/tallhamn/sortdeps/internal/sorter"
)

func TestLanguageOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Language
		wantErr bool
	}{
		{"build.gradle", Groovy, false},
		{"app/settings.gradle", Groovy, false},
		{"build.gradle.kts", Kotlin, false},
		{"deps.kts", Kotlin, false},
		{"pom.xml", 0, true},
		{"build.gradle.bak", 0, true},
	}
	for _, tt := range tests {
		got, err := LanguageOf(tt.path)
		if tt.wantErr {
			var ue *UnsupportedExtensionError
			if !errors.As(err, &ue) || ue.Path != tt.path {
				t.Errorf("LanguageOf(%q): want UnsupportedExtensionError, got %v", tt.path, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("LanguageOf(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
		}
	}
}

func TestOfSource_PicksDialect(t *testing.T) {
	groovySrc := "dependencies {\n  implementation 'b:b:1'\n  api 'a:a:1'\n}\n"
	kotlinSrc := "dependencies {\n  implementation(\"b:b:1\")\n  api(\"a:a:1\")\n}\n"

	e, err := OfSource("build.gradle", groovySrc, sorter.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if e.HasParseErrors() || e.IsSorted() {
		t.Errorf("groovy engine: parse errors %v, sorted %v", e.HasParseErrors(), e.IsSorted())
	}

	e, err = OfSource("build.gradle.kts", kotlinSrc, sorter.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if e.HasParseErrors() || e.IsSorted() {
		t.Errorf("kotlin engine: parse errors %v, sorted %v", e.HasParseErrors(), e.IsSorted())
	}

	// Groovy's bare command syntax is not a Kotlin declaration.
	e, err = OfSource("build.gradle.kts", groovySrc, sorter.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !e.IsSorted() {
		t.Error("kotlin engine recognised groovy declarations")
	}
}

func TestOf(t *testing.T) {
	dir := t.TempDir()
	groovySrc := "dependencies {\n  api 'a:a:1'\n}\n"
	kotlinSrc := "dependencies {\n  testImplementation(\"b:b:1\")\n  api(\"a:a:1\")\n}\n"
	groovyPath := filepath.Join(dir, "build.gradle")
	kotlinPath := filepath.Join(dir, "build.gradle.kts")
	if err := os.WriteFile(groovyPath, []byte(groovySrc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(kotlinPath, []byte(kotlinSrc), 0644); err != nil {
		t.Fatal(err)
	}

	e, err := Of(groovyPath, sorter.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	ge, ok := e.(*groovy.Engine)
	if !ok || ge.Path() != groovyPath {
		t.Fatalf("Of(%q) = %T, want *groovy.Engine for the path", groovyPath, e)
	}
	if res := e.Result(); res.Outcome != sorter.AlreadyOrdered {
		t.Errorf("Outcome = %v", res.Outcome)
	}
	if e.Source() != groovySrc {
		t.Errorf("Source = %q", e.Source())
	}

	e, err = Of(kotlinPath, sorter.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	ke, ok := e.(*kotlin.Engine)
	if !ok || ke.Path() != kotlinPath {
		t.Fatalf("Of(%q) = %T, want *kotlin.Engine for the path", kotlinPath, e)
	}
	if res := e.Result(); res.Outcome != sorter.Rewritten {
		t.Errorf("Outcome = %v", res.Outcome)
	}
	if e.Source() != kotlinSrc {
		t.Errorf("Source = %q", e.Source())
	}

	if _, err := Of(filepath.Join(dir, "pom.xml"), sorter.DefaultConfig()); err == nil {
		t.Error("Of accepted an unsupported extension")
	}
	e, err = Of(filepath.Join(dir, "missing.gradle"), sorter.DefaultConfig())
	if err == nil {
		t.Error("Of accepted a missing file")
	}
	if e != nil {
		t.Errorf("Of returned a non-nil engine with an error: %#v", e)
	}
}

func TestDeclarations(t *testing.T) {
	blocks, err := Declarations(Kotlin, "dependencies {\n  api(\"a:a:1\")\n}\ndependencies {\n}\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 || len(blocks[0]) != 1 || len(blocks[1]) != 0 {
		t.Fatalf("blocks = %v", blocks)
	}
	if blocks[0][0].Text != `api("a:a:1")` {
		t.Errorf("Text = %q", blocks[0][0].Text)
	}

	if _, err := Declarations(Groovy, "dependencies {\n"); err == nil {
		t.Error("want a parse error")
	}
}
