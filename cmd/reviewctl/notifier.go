package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

// consoleNotifier prints notices the way the web client shows alerts.
type consoleNotifier struct {
	out     io.Writer
	errOut  io.Writer
	errText *color.Color
}

func newConsoleNotifier(out, errOut io.Writer) *consoleNotifier {
	return &consoleNotifier{
		out:     out,
		errOut:  errOut,
		errText: color.New(color.FgRed),
	}
}

func (n *consoleNotifier) Notify(_ context.Context, notice domain.Notice) {
	if notice.Level == domain.NoticeError {
		n.errText.Fprintln(n.errOut, notice.Text)
		return
	}
	fmt.Fprintln(n.out, notice.Text)
}
