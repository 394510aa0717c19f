package confirm

import (
	"context"
	"errors"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

type askFunc func(prompt survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// Survey asks for confirmation on the terminal.
type Survey struct {
	defaultAnswer bool
	help          string
	askOpts       []survey.AskOpt
	ask           askFunc
}

// SurveyOption configures a Survey confirmer.
type SurveyOption func(*Survey)

// WithDefaultAnswer sets the answer preselected in the prompt.
func WithDefaultAnswer(answer bool) SurveyOption {
	return func(s *Survey) {
		s.defaultAnswer = answer
	}
}

// WithHelp sets the help text shown on '?'.
func WithHelp(help string) SurveyOption {
	return func(s *Survey) {
		s.help = help
	}
}

// WithStdio routes the prompt through the provided streams.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) SurveyOption {
	return func(s *Survey) {
		s.askOpts = append(s.askOpts, survey.WithStdio(in, out, errOut))
	}
}

func withAsk(fn askFunc) SurveyOption {
	return func(s *Survey) {
		if fn != nil {
			s.ask = fn
		}
	}
}

// NewSurvey constructs a terminal confirmer.
func NewSurvey(options ...SurveyOption) *Survey {
	s := &Survey{ask: survey.AskOne}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Confirm implements Confirmer.
func (s *Survey) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if message == "" {
		message = DefaultMessage
	}
	var out bool
	prompt := &survey.Confirm{
		Message: message,
		Help:    s.help,
		Default: s.defaultAnswer,
	}
	if err := s.ask(prompt, &out, s.askOpts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
