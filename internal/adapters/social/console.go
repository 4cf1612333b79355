package social

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// Console is the dry-run platform: posts go to stdout, mentions never
// arrive. Always ready.
type Console struct {
	out  io.Writer
	next int
}

// NewConsole creates a console sink writing to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a console sink for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Ready() bool { return true }

func (c *Console) Post(_ context.Context, content string) (string, error) {
	c.next++
	fmt.Fprintf(c.out, "[%s] POST #%d\n%s\n\n", time.Now().Format("15:04:05"), c.next, content)
	return strconv.Itoa(c.next), nil
}

func (c *Console) FetchMentions(_ context.Context) ([]domain.InboundMention, error) {
	return nil, nil
}

func (c *Console) Reply(_ context.Context, targetID, text string) (string, error) {
	c.next++
	fmt.Fprintf(c.out, "[%s] REPLY to %s #%d\n%s\n\n", time.Now().Format("15:04:05"), targetID, c.next, text)
	return strconv.Itoa(c.next), nil
}
