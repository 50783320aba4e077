package service

import (
	"errors"
	"testing"
)

func TestCommentAddAndList(t *testing.T) {
	svc := NewCommentService()

	if got := svc.List("img-1"); len(got) != 0 {
		t.Errorf("expected no comments initially, got %d", len(got))
	}

	first, err := svc.Add("img-1", "好图")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	second, err := svc.Add("img-1", "second")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got := svc.List("img-1")
	if len(got) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(got))
	}
	// Newest first
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Error("expected newest comment first")
	}
	if got[0].Content != "second" {
		t.Errorf("unexpected content %q", got[0].Content)
	}
	if got[0].User.Name == "" {
		t.Error("expected a user stub on the comment")
	}

	// Comments are per image
	if len(svc.List("img-2")) != 0 {
		t.Error("expected no comments for a different image")
	}
}

func TestCommentAddRejectsEmpty(t *testing.T) {
	svc := NewCommentService()

	for _, content := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Add("img-1", content); !errors.Is(err, ErrEmptyComment) {
			t.Errorf("expected ErrEmptyComment for %q, got %v", content, err)
		}
	}
	if len(svc.List("img-1")) != 0 {
		t.Error("rejected comments must not be stored")
	}
}
