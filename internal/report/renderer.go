package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

var ErrExportFailed = errors.New("export failed")

// Renderer turns a print document into PDF bytes. Implementations return
// either the whole document or an error, never partial output.
type Renderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// ChromeRenderer prints documents with a headless Chrome.
type ChromeRenderer struct {
	ChromeBin string
	Timeout   time.Duration
	Log       *logrus.Logger
}

func NewChromeRenderer(chromeBin string, timeout time.Duration, log *logrus.Logger) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &ChromeRenderer{ChromeBin: chromeBin, Timeout: timeout, Log: log}
}

func (r *ChromeRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if r.ChromeBin != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromeBin))
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if r.Log != nil {
			r.Log.WithError(err).Error("chrome pdf render failed")
		}
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	if len(pdf) == 0 {
		return nil, ErrExportFailed
	}
	return pdf, nil
}
