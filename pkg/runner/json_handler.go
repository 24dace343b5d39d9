package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// JSONHandler implements newline-delimited JSON I/O.
//
// Each input line is either a JSON string ("3"), an object ({"line": "3"}) or raw text.
// Each output line is a Result object.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

type jsonInput struct {
	Line string `json:"line"`
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := h.Reader.ReadString('\n')
		text = strings.TrimSpace(text)
		if text == "" {
			if err != nil {
				return "", err
			}
			continue
		}

		line := decodeLine(text)
		clean, serr := SanitizeInput(line)
		if serr != nil {
			if encErr := h.Encoder.Encode(map[string]string{"error": serr.Error()}); encErr != nil {
				return "", encErr
			}
			continue
		}
		return clean, nil
	}
}

func decodeLine(text string) string {
	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return s
	}
	var obj jsonInput
	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal([]byte(text), &obj); err == nil {
			return obj.Line
		}
	}
	return text
}

func (h *JSONHandler) Output(ctx context.Context, res Result) error {
	if res.Messages == nil {
		res.Messages = []string{}
	}
	if res.Stack == nil {
		res.Stack = []float64{}
	}
	return h.Encoder.Encode(res)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"system": msg})
}
