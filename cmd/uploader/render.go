package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"golang.org/x/term"
)

const progressWidth = 20

// renderer prints queue changes. On a terminal the line of the current
// upload is redrawn in place, otherwise only final states are printed.
type renderer struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	width       int
	drawing     bool
}

func newRenderer(out *os.File) *renderer {
	r := &renderer{out: out, width: 80}
	fd := int(out.Fd())
	if term.IsTerminal(fd) {
		r.interactive = true
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			r.width = width
		}
	}
	return r
}

func (r *renderer) render(item domain.UploadItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch item.Status {
	case domain.UploadStatusPending:
		return
	case domain.UploadStatusUploading:
		if !r.interactive {
			return
		}
		bar := strings.Repeat("#", item.Progress*progressWidth/100)
		line := fmt.Sprintf("\r%-*s %3d%% %s", progressWidth, bar, item.Progress, item.File.Name())
		fmt.Fprint(r.out, r.fit(line)+"\033[K")
		r.drawing = true
		return
	}

	if r.drawing {
		fmt.Fprint(r.out, "\r\033[K")
		r.drawing = false
	}
	fmt.Fprintln(r.out, r.fit(describe(item)))
}

func (r *renderer) summary(summary domain.UploadSummary, items []domain.UploadItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.drawing {
		fmt.Fprintln(r.out)
		r.drawing = false
	}
	fmt.Fprintf(r.out, "\n%d files: %d uploaded, %d failed, %d invalid, %d not processed\n",
		summary.Total, summary.Success, summary.Error, summary.Invalid, summary.Pending+summary.Uploading)
	for _, item := range items {
		if item.Status == domain.UploadStatusError || item.Status == domain.UploadStatusInvalid {
			fmt.Fprintf(r.out, "  %s: %s\n", item.File.Name(), item.Error)
		}
	}
}

func (r *renderer) fit(line string) string {
	if !r.interactive || len(line) <= r.width {
		return line
	}
	return line[:r.width-1]
}

func describe(item domain.UploadItem) string {
	switch item.Status {
	case domain.UploadStatusSuccess:
		return fmt.Sprintf("ok      %s -> %s", item.File.Name(), item.Result.Path)
	case domain.UploadStatusError:
		return fmt.Sprintf("failed  %s: %s", item.File.Name(), item.Error)
	case domain.UploadStatusInvalid:
		return fmt.Sprintf("skipped %s: %s", item.File.Name(), item.Error)
	default:
		return fmt.Sprintf("%-7s %s", item.Status, item.File.Name())
	}
}
