// Package pdf turns rendered résumé HTML into a PDF file.
package pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DeviceScale is the pixel ratio used for raster capture.
const DeviceScale = 2

const (
	viewportWidth  = 794
	viewportHeight = 1123
)

// Capturer renders HTML in headless Chromium.
type Capturer struct {
	// ReadySelector is awaited before capture; empty skips the wait.
	ReadySelector string
	Timeout       time.Duration
	Logger        *slog.Logger
}

// NewCapturer returns a Capturer that waits for readySelector.
func NewCapturer(readySelector string, timeout time.Duration, logger *slog.Logger) *Capturer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Capturer{ReadySelector: readySelector, Timeout: timeout, Logger: logger}
}

// Screenshot returns a full-page PNG of htmlContent at DeviceScale.
func (c *Capturer) Screenshot(ctx context.Context, htmlContent string) ([]byte, error) {
	var data []byte
	err := c.withPage(ctx, htmlContent, func(page *rod.Page) error {
		req := &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}
		shot, err := page.Screenshot(true, req)
		if err != nil {
			return fmt.Errorf("page screenshot: %w", err)
		}
		data = shot
		return nil
	})
	return data, err
}

// PrintPDF uses the browser's own print pipeline instead of raster capture.
func (c *Capturer) PrintPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	var data []byte
	err := c.withPage(ctx, htmlContent, func(page *rod.Page) error {
		if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
			return fmt.Errorf("set emulated media to print: %w", err)
		}
		reader, err := page.PDF(&proto.PagePrintToPDF{
			PrintBackground:   true,
			PaperWidth:        float64Ptr(8.27),
			PaperHeight:       float64Ptr(11.69),
			MarginTop:         float64Ptr(0),
			MarginBottom:      float64Ptr(0),
			MarginLeft:        float64Ptr(0),
			MarginRight:       float64Ptr(0),
			PreferCSSPageSize: true,
		})
		if err != nil {
			return fmt.Errorf("export pdf: %w", err)
		}
		defer func() {
			_ = reader.Close()
		}()

		data, err = io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("read pdf bytes: %w", err)
		}
		return nil
	})
	return data, err
}

func (c *Capturer) withPage(ctx context.Context, htmlContent string, fn func(*rod.Page) error) error {
	launch := launcher.New().
		Headless(true).
		NoSandbox(true)

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return fmt.Errorf("launch chromium: %w", err)
	}
	defer launch.Cleanup()

	browser := rod.New().ControlURL(browserURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	page, err := browser.Timeout(c.Timeout).Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	page = page.Timeout(c.Timeout)
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: DeviceScale,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetDocumentContent(htmlContent); err != nil {
		return fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}

	if c.ReadySelector != "" {
		if _, err := page.Element(c.ReadySelector); err != nil {
			return fmt.Errorf("wait for %s: %w", c.ReadySelector, err)
		}
	}

	if _, err := page.Eval(`() => {
	  if (document && document.fonts && document.fonts.ready) {
	    return Promise.race([
	      document.fonts.ready.then(() => true),
	      new Promise((resolve) => setTimeout(() => resolve(true), 3000))
	    ]);
	  }
	  return true;
	}`); err != nil {
		c.Logger.Warn("document.fonts.ready wait failed, continue", slog.Any("error", err))
	}

	return fn(page)
}

func float64Ptr(value float64) *float64 {
	return &value
}
