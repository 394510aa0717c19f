package prompt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
)

func TestPositionValidator(t *testing.T) {
	validate := Position(3)
	for _, ok := range []string{"0", " 2 "} {
		if err := validate(ok); err != nil {
			t.Fatalf("Position(3)(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"3", "-1", "x"} {
		if err := validate(bad); err == nil {
			t.Fatalf("Position(3)(%q) should fail", bad)
		}
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	if err := translateSurveyErr(fmt.Errorf("wrapped: %w", terminal.InterruptErr)); !errors.Is(err, ErrAborted) {
		t.Fatalf("interrupt should map to ErrAborted, got %v", err)
	}
	other := errors.New("eof")
	if err := translateSurveyErr(other); err != other {
		t.Fatalf("other errors pass through, got %v", err)
	}
}

func TestIndexOf(t *testing.T) {
	options := []string{"add", "remove"}
	if indexOf(options, "remove") != 1 || indexOf(options, "quit") != -1 {
		t.Fatalf("indexOf mismatch")
	}
}
