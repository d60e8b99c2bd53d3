//go:build cgo

package verify

import (
	"context"
	"testing"

	"github.com/tallhamn/sortdeps/internal/engine"
)

func TestSyntax(t *testing.T) {
	if !IsAvailable() {
		t.Fatal("IsAvailable = false with cgo")
	}

	clean := "dependencies {\n    implementation(\"a:b:1\")\n}\n"
	broken := "dependencies {\n    implementation(\"a:b:1\"\n}\n"

	ctx := context.Background()
	if err := Syntax(ctx, engine.Kotlin, clean, clean); err != nil {
		t.Errorf("clean script: %v", err)
	}
	if err := Syntax(ctx, engine.Kotlin, clean, broken); err == nil {
		t.Error("broken output passed")
	}
	// Errors already in the original are not blamed on the sort.
	if err := Syntax(ctx, engine.Kotlin, broken, broken); err != nil {
		t.Errorf("pre-existing errors: %v", err)
	}
}
