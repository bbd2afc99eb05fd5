package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ContentStreamText loads the document with pdfcpu and reads the string
// operands of the text-showing operators on every page. Runs are joined by a
// space and pages by a newline.
func ContentStreamText(ctx context.Context, data []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	pages := make([]string, 0, pdfCtx.PageCount)
	for page := 1; page <= pdfCtx.PageCount; page++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r, err := pdfcpu.ExtractPageContent(pdfCtx, page)
		if err != nil {
			return "", fmt.Errorf("page %d content: %w", page, err)
		}
		var runs []string
		if r != nil {
			content, err := io.ReadAll(r)
			if err != nil {
				return "", fmt.Errorf("page %d read: %w", page, err)
			}
			for _, run := range TextRuns(content) {
				runs = append(runs, decodeRun(run))
			}
		}
		pages = append(pages, strings.Join(runs, " "))
	}
	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}
