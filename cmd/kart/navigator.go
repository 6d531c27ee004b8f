package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/mattn/go-isatty"
	"github.com/skratchdot/open-golang/open"

	"github.com/tsksoundkits/storefront/internal/domain/checkout"
)

func openBrowser(url string) error {
	return open.Run(url)
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// browserNavigator opens checkout pages in the default browser.
type browserNavigator struct {
	open func(url string) error
}

func (n browserNavigator) Open(_ context.Context, url string) error {
	if err := n.open(url); err != nil {
		return errors.Wrap(err, "open browser")
	}
	return nil
}

// printNavigator writes checkout URLs instead of opening them.
type printNavigator struct {
	w io.Writer
}

func (n printNavigator) Open(_ context.Context, url string) error {
	_, err := fmt.Fprintln(n.w, url)
	return err
}

// terminalConfirmer shows the multi-item prompt and reads the answer from
// in. Without a terminal it declines unless assumeYes is set.
type terminalConfirmer struct {
	in        io.Reader
	out       io.Writer
	isTTY     func() bool
	assumeYes bool
}

func (c terminalConfirmer) Confirm(_ context.Context, p checkout.Prompt) bool {
	fmt.Fprintln(c.out, p.String())
	fmt.Fprintln(c.out)
	if c.assumeYes {
		return true
	}
	if !c.isTTY() {
		fmt.Fprintln(c.out, "Not a terminal: rerun with --yes to open every checkout page.")
		return false
	}

	fmt.Fprintf(c.out, "Open %d checkout pages? [y/N] ", len(p.Titles))
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
