package card

import (
	"errors"
	"fmt"
)

// Stage is a step of a single render.
type Stage int

const (
	StageIdle Stage = iota
	StageLoadingFont
	StageLoadingImage
	StageCompositing
	StageEncoding
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageLoadingFont:
		return "loading_font"
	case StageLoadingImage:
		return "loading_image"
	case StageCompositing:
		return "compositing"
	case StageEncoding:
		return "encoding"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Kind classifies a render failure.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindFontLoad     Kind = "font_load"
	KindImageLoad    Kind = "image_load"
	KindComposition  Kind = "composition"
)

// Message is the human-readable summary shown for a failure kind.
func (k Kind) Message() string {
	switch k {
	case KindInvalidInput:
		return "The name could not be used for a greeting."
	case KindFontLoad:
		return "The greeting font could not be loaded. Please try again."
	case KindImageLoad:
		return "The greeting background could not be loaded. Please try again."
	default:
		return "The greeting image could not be created. Please try again."
	}
}

// RenderError is the failure of one render.
type RenderError struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func (e *RenderError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// KindOf returns the failure kind carried by err, or "" if there is none.
func KindOf(err error) Kind {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// Status is what a caller shows for a render.
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
)

// Result is the outcome of a render: a PNG payload on success or a
// *RenderError on failure.
type Result struct {
	Status Status
	Name   string

	PNG      []byte
	DataURI  string
	FileName string

	Err *RenderError
}

// Message is the user-facing error text, empty on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Kind.Message()
}

func failure(name string, kind Kind, stage Stage, err error) Result {
	return Result{
		Status: StatusError,
		Name:   name,
		Err:    &RenderError{Kind: kind, Stage: stage, Err: err},
	}
}
