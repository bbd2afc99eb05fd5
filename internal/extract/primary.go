package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

var errNoStrategy = errors.New("no extraction strategy configured")

// PlainText reads the document with ledongthuc/pdf. An empty text layer is a
// success; only parser errors count as failure.
func PlainText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("plain text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// safeCall runs fn and converts a parser panic into an error.
func safeCall(ctx context.Context, fn TextFunc, data []byte) (text string, err error) {
	if fn == nil {
		return "", errNoStrategy
	}
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("parser panic: %v", rec)
		}
	}()
	return fn(ctx, data)
}
