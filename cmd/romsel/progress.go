package main

import (
	"fmt"
	"io"
	"strconv"

	"romsel/internal/logging"
	"romsel/internal/selection"
)

const progressBucketPercent = 10

// progressPrinter renders synchronizer progress. Terminals get every item in
// color; pipes and files get one line per progressBucketPercent plus the last item.
type progressPrinter struct {
	w        io.Writer
	colorize bool
	sampler  *logging.ProgressSampler
	count    int
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	p := &progressPrinter{w: w, colorize: shouldColorize(w)}
	if !p.colorize {
		p.sampler = logging.NewProgressSampler(progressBucketPercent)
	}
	return p
}

func (p *progressPrinter) handle(ev selection.Progress) {
	p.count++
	if p.sampler != nil && !p.sampler.ShouldLogItem(ev.Index, ev.Total, ev.Operation) {
		return
	}
	fmt.Fprintln(p.w, formatProgressLine(ev, p.colorize))
}

func formatProgressLine(ev selection.Progress, colorize bool) string {
	width := len(strconv.Itoa(ev.Total))
	counter := fmt.Sprintf("[%*d/%d]", width, ev.Index, ev.Total)
	op := fmt.Sprintf("%-6s", ev.Operation)
	if colorize {
		op = operationColor(ev.Operation) + op + ansiReset
	}
	return fmt.Sprintf("%s %s %s", counter, op, ev.Name)
}

func operationColor(operation string) string {
	switch operation {
	case selection.OpAdd:
		return ansiGreen
	case selection.OpRemove, selection.OpKeep:
		return ansiYellow
	default:
		return ansiBlue
	}
}
