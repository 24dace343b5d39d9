package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// DefaultStackDepth is how many stack levels the text handler shows.
const DefaultStackDepth = 4

// TextHandler implements terminal I/O: a "> " prompt, messages, then the stack.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	Prompt    string
	Precision int
	Depth     int

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the message renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrecision sets the significant digits used to display values.
func WithPrecision(precision int) TextHandlerOption {
	return func(h *TextHandler) {
		h.Precision = precision
	}
}

// WithStackDepth sets how many levels are shown. Zero shows the whole stack.
func WithStackDepth(depth int) TextHandlerOption {
	return func(h *TextHandler) {
		h.Depth = depth
	}
}

// WithPrompt replaces the prompt. An empty prompt suits piped input.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:    bufio.NewReader(r),
		Writer:    w,
		Prompt:    "> ",
		Precision: DefaultPrecision,
		Depth:     DefaultStackDepth,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// pump reads lines in the background so Input can honour context cancellation.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})

	for {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		fmt.Fprint(h.Writer, h.Prompt)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, res Result) error {
	for _, msg := range res.Messages {
		out := msg
		if h.Renderer != nil {
			if rendered, err := h.Renderer(msg); err == nil {
				out = rendered
			}
		}
		if _, err := fmt.Fprintln(h.Writer, strings.TrimRight(out, "\n")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(h.Writer, FormatStack(res.Stack, h.Precision, h.Depth))
	return err
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}
