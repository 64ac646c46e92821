package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"subprobe/internal/enum"
	"subprobe/internal/wildcard"
)

const banner = `
   _____       __                     __
  / ___/__  __/ /_  ____  _________  / /_  ___
  \__ \/ / / / __ \/ __ \/ ___/ __ \/ __ \/ _ \
 ___/ / /_/ / /_/ / /_/ / /  / /_/ / /_/ /  __/
/____/\__,_/_.___/ .___/_/   \____/_.___/\___/  v%s
                /_/
`

// Console prints live discoveries and the final summary. In silent mode only
// the bare discovered names are written.
type Console struct {
	out    io.Writer
	errOut io.Writer
	silent bool

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func NewConsole(out, errOut io.Writer, silent bool) *Console {
	return &Console{
		out:    out,
		errOut: errOut,
		silent: silent,
	}
}

func (c *Console) Banner(version string) {
	if c.silent {
		return
	}
	color.New(color.FgBlue, color.Bold).Fprintf(c.out, banner, version)
}

func (c *Console) Header(domain string, threads int, wordlist string) {
	if c.silent {
		return
	}
	fmt.Fprintf(c.out, "[*] Target: %s\n[*] Threads: %s\n[*] Wordlist: %s\n",
		color.CyanString("%s", domain), color.YellowString("%d", threads), wordlist)
}

func (c *Console) Infof(format string, args ...interface{}) {
	if c.silent {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[*] "+format+"\n", args...)
}

func (c *Console) Wildcard(sig *wildcard.Signature) {
	if c.silent || sig == nil {
		return
	}
	fmt.Fprintf(c.out, "%s Wildcard detected! Filtering results pointing to: %s\n",
		color.YellowString("[!]"), color.RedString("%s", sig.String()))
}

// Found prints a newly discovered subdomain. Safe for concurrent use.
func (c *Console) Found(res enum.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar != nil {
		c.bar.Clear()
	}

	if c.silent {
		fmt.Fprintln(c.out, res.Subdomain)
		return
	}

	line := fmt.Sprintf("%s %s  => %s", color.GreenString("[+]"),
		color.New(color.Bold).Sprint(res.Subdomain),
		color.New(color.Faint).Sprint(strings.Join(res.AddressStrings(), ", ")))
	if res.Wildcard {
		line += " " + color.YellowString("(wildcard)")
	}
	fmt.Fprintln(c.out, line)
}

// StartProgress draws a progress bar on the error stream. Ignored in silent
// mode.
func (c *Console) StartProgress(total int) {
	if c.silent {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.errOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetDescription("Resolving..."),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// Tick advances the progress bar, if any. Safe for concurrent use.
func (c *Console) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *Console) FinishProgress() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
}

// Report prints the scan summary.
func (c *Console) Report(_ context.Context, scan Scan) error {
	if c.silent {
		return nil
	}

	fmt.Fprintln(c.out, "\n--- Scan Summary ---")
	fmt.Fprintf(c.out, "Target domain: %s\n", scan.Domain)
	fmt.Fprintf(c.out, "Candidates probed: %d\n", scan.Stats.Total)
	fmt.Fprintf(c.out, "Subdomains found: %s\n", color.GreenString("%d", len(scan.Results)))
	if scan.Wildcard != nil {
		fmt.Fprintf(c.out, "Wildcard answers filtered: %d\n", scan.Stats.WildcardFiltered)
	}
	fmt.Fprintf(c.out, "Unresolved: %d\n", scan.Stats.Failed)
	if scan.Stats.Duplicates > 0 {
		fmt.Fprintf(c.out, "Duplicate candidates: %d\n", scan.Stats.Duplicates)
	}
	fmt.Fprintf(c.out, "Scan duration: %.2f seconds (%.2f lookups/second)\n",
		scan.Stats.DurationSeconds, scan.Stats.DomainsPerSecond)
	fmt.Fprintf(c.out, "Scan completed at: %s\n", time.Now().Format(time.RFC1123))

	return nil
}

func (c *Console) Saved(n int, path string) {
	if c.silent {
		return
	}
	fmt.Fprintf(c.out, "\n%s Saved %d results to %s\n", color.GreenString("[✓]"), n, path)
}

// Fatalf reports an error that aborts the run. Printed even in silent mode.
func (c *Console) Fatalf(format string, args ...interface{}) {
	fmt.Fprintf(c.errOut, "%s %s\n", color.RedString("[-]"), fmt.Sprintf(format, args...))
}
