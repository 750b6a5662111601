package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// TabSpacing is the number of spaces between tabwriter columns.
const TabSpacing = 2

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(rep Report, writer io.Writer) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs the report as an aligned table.
func PrintTable(rep Report, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "%s\n\n", rep.Path); err != nil {
		return err
	}

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "NAME\tKIND\tSIZE\tFILES\tFOLDERS\t%")
	for _, r := range rep.Entries {
		name := r.Name
		if r.Kind == "folder" {
			name += "/"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f%%\n",
			name, r.Kind, humanize.IBytes(r.Size), humanize.Comma(int64(r.Files)),
			humanize.Comma(int64(r.Folders)), r.Percent)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if rep.Shown < rep.Total {
		fmt.Fprintf(writer, "(%d of %d entries shown)\n", rep.Shown, rep.Total)
	}

	w = tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)
	fmt.Fprintln(w, "\nTotals:\t")
	fmt.Fprintf(w, "Size:\t%s (%d bytes)\n", humanize.IBytes(rep.TotalSize), rep.TotalSize)
	fmt.Fprintf(w, "Files:\t%s\n", humanize.Comma(int64(rep.TotalFiles)))
	fmt.Fprintf(w, "Folders:\t%s\n", humanize.Comma(int64(rep.TotalFolders)))
	if rep.FromCache {
		fmt.Fprintf(w, "Cached:\t%s\n", humanize.Time(rep.ComputedAt))
	} else if rep.Elapsed != "" {
		fmt.Fprintf(w, "Elapsed:\t%s\n", rep.Elapsed)
	}

	return w.Flush()
}

// progressLine redraws a single status line in place.
type progressLine struct {
	w       io.Writer
	enabled bool
	active  bool
}

func (p *progressLine) update(text string) {
	if !p.enabled {
		return
	}
	if !p.active {
		fmt.Fprint(p.w, "\033[?25l")
		p.active = true
	}
	fmt.Fprintf(p.w, "\r\033[2K%s\r", text)
}

func (p *progressLine) clear() {
	if !p.active {
		return
	}
	fmt.Fprint(p.w, "\r\033[2K\033[?25h")
	p.active = false
}
