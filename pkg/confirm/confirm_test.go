package confirm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrows/pkg/dom/htmltree"
)

func TestStaticAndFunc(t *testing.T) {
	ctx := context.Background()
	if ok, err := Static(true).Confirm(ctx, "x"); err != nil || !ok {
		t.Fatalf("Static(true) = %v, %v", ok, err)
	}

	var seen string
	fn := Func(func(_ context.Context, message string) (bool, error) {
		seen = message
		return false, nil
	})
	if ok, _ := fn.Confirm(ctx, "remove?"); ok {
		t.Fatalf("expected Func to decline")
	}
	if seen != "remove?" {
		t.Fatalf("message not forwarded, got %q", seen)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := Static(true).Confirm(cancelled, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestDeferredResolvesInOrder(t *testing.T) {
	var d Deferred
	var got []string
	d.RequestConfirmation(context.Background(), "first", func(ok bool) {
		got = append(got, "first:"+boolString(ok))
	})
	d.RequestConfirmation(context.Background(), "second", func(ok bool) {
		got = append(got, "second:"+boolString(ok))
	})

	if diff := cmp.Diff([]string{"first", "second"}, d.Pending()); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}
	d.Resolve(false)
	d.Resolve(true)
	if d.Resolve(true) {
		t.Fatalf("expected no pending requests")
	}

	if diff := cmp.Diff([]string{"first:false", "second:true"}, got); diff != "" {
		t.Fatalf("decisions mismatch (-want +got):\n%s", diff)
	}
}

func TestSurveyConfirm(t *testing.T) {
	var prompted *survey.Confirm
	s := NewSurvey(WithDefaultAnswer(true), withAsk(func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		prompted = p.(*survey.Confirm)
		*(response.(*bool)) = true
		return nil
	}))

	ok, err := s.Confirm(context.Background(), "")
	if err != nil || !ok {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}
	if prompted.Message != DefaultMessage || !prompted.Default {
		t.Fatalf("unexpected prompt %+v", prompted)
	}
}

func TestSurveyConfirmInterrupt(t *testing.T) {
	s := NewSurvey(withAsk(func(survey.Prompt, interface{}, ...survey.AskOpt) error {
		return terminal.InterruptErr
	}))
	if _, err := s.Confirm(context.Background(), "remove?"); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestModalAcceptAndCancel(t *testing.T) {
	doc, err := htmltree.ParseString(`<html><body><div id="dialogs"></div></body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree := htmltree.New()
	host := htmltree.ElementByID(doc, "dialogs")
	modal := NewModal(tree, host, WithTitle("Remove row"))

	var decisions []bool
	modal.RequestConfirmation(context.Background(), "Remove <b>line</b><script>alert(1)</script>", func(ok bool) {
		decisions = append(decisions, ok)
	})
	modal.RequestConfirmation(context.Background(), "", func(ok bool) {
		decisions = append(decisions, ok)
	})

	if len(modal.Open()) != 2 {
		t.Fatalf("expected two open dialogs, got %d", len(modal.Open()))
	}
	markup, _ := htmltree.RenderString(host)
	if strings.Contains(markup, "<script>") {
		t.Fatalf("message was not sanitized: %s", markup)
	}
	if !strings.Contains(markup, "<b>line</b>") || !strings.Contains(markup, "Remove row") {
		t.Fatalf("dialog markup missing content: %s", markup)
	}

	if !modal.Accept(context.Background()) {
		t.Fatalf("expected accept click to be delivered")
	}
	if !modal.Cancel(context.Background()) {
		t.Fatalf("expected cancel click to be delivered")
	}
	if modal.Accept(context.Background()) {
		t.Fatalf("expected no dialog left")
	}

	if diff := cmp.Diff([]bool{true, false}, decisions); diff != "" {
		t.Fatalf("decisions mismatch (-want +got):\n%s", diff)
	}
	if host.FirstChild != nil {
		t.Fatalf("dialogs should be removed after a decision")
	}
	if tree.Listeners() != 0 {
		t.Fatalf("expected listeners to be released, got %d", tree.Listeners())
	}
}

func TestModalWithoutHostDeclines(t *testing.T) {
	modal := NewModal(nil, nil)
	var got *bool
	modal.RequestConfirmation(context.Background(), "x", func(ok bool) { got = &ok })
	if got == nil || *got {
		t.Fatalf("expected immediate decline")
	}
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
