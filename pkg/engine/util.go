package engine

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/peterh/liner"
	"github.com/seekerror/logw"
)

// ReadStdinLines reads stdin lines into a chan. Async.
func ReadStdinLines(ctx context.Context) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			logw.Debugf(ctx, "<< %v", scanner.Text())
			ret <- scanner.Text()
		}
	}()
	return ret
}

// ReadLinerLines reads lines from an interactive terminal into a chan, using peterh/liner
// for history and basic line editing. Intended for the console protocol only: UCI input is
// machine-generated and never benefits from editing, so it always uses ReadStdinLines.
func ReadLinerLines(ctx context.Context) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)

		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)

		for {
			text, err := line.Prompt("viridithas> ")
			if err != nil {
				return
			}

			logw.Debugf(ctx, "<< %v", text)
			line.AppendHistory(text)
			ret <- text
		}
	}()
	return ret
}

// WriteStdoutLines writes lines from the given chan to stdout.
func WriteStdoutLines(ctx context.Context, out <-chan string) {
	for line := range out {
		logw.Debugf(ctx, ">> %v", line)
		_, _ = fmt.Fprintln(os.Stdout, line)
	}
}
