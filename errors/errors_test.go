package errors

import (
	"fmt"
	"testing"
)

func TestHotloadError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeAssetNotFound, "asset not found")
	if err.Code != ErrCodeAssetNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeAssetNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeTextureCompile, "compile failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeTextureCompile) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeAssetNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("path", "/ws.pack/a.idr").WithDetail("attempt", 2)
	if detailed.Details["path"] != "/ws.pack/a.idr" {
		t.Error("WithDetail should add details")
	}
}

func TestIsFollowsNestedCauses(t *testing.T) {
	inner := UnsupportedFormat("/a/b.fbx")
	outer := SceneCompileFailed("/a/b.fbx", inner)
	wrapped := fmt.Errorf("load: %w", outer)

	if !Is(wrapped, ErrCodeSceneCompile) {
		t.Error("Is should see through fmt wrapping")
	}
	if !Is(wrapped, ErrCodeUnsupportedFormat) {
		t.Error("Is should match the nested cause code")
	}
	if GetCode(wrapped) != ErrCodeSceneCompile {
		t.Errorf("expected outermost code, got %s", GetCode(wrapped))
	}
}

func TestErrorConstructors(t *testing.T) {
	err := DuplicateTexture("wall", "/t.itd/wall.png", "/t.itd/WALL.jpg")
	if err.Code != ErrCodeDuplicateTexture {
		t.Errorf("expected code %s, got %s", ErrCodeDuplicateTexture, err.Code)
	}
	if err.Details["existing"] != "/t.itd/wall.png" {
		t.Error("DuplicateTexture should include existing detail")
	}

	err = EmbedNameInvalid("/a.idr/tex.itd", "textures.itd")
	if err.Code != ErrCodeEmbedNameInvalid {
		t.Errorf("expected code %s, got %s", ErrCodeEmbedNameInvalid, err.Code)
	}
	if err.Details["expected"] != "textures.itd" {
		t.Error("EmbedNameInvalid should include expected detail")
	}

	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}
