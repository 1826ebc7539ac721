package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lemmego/patterns/observer"
	"github.com/lemmego/patterns/scenario"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func renderSwitch(w io.Writer, sw *observer.Switch) {
	title := cases.Title(language.English)
	fmt.Fprintf(w, "%s: %s\n", title.String("switch"), onOff(sw.IsOn()))
	fmt.Fprintf(w, "%s: %d\n", title.String("notify count"), sw.NotifyCount())
	fmt.Fprintf(w, "%s: %d\n", title.String("observers"), sw.ObserversSize())
}

// renderReport prints one row per step. Bulb cells read "on/2*": state,
// update count and a star while attached. Steps whose delivery failed have
// their op marked with a "!".
func renderReport(w io.Writer, r *scenario.Report) {
	title := cases.Title(language.English)
	fmt.Fprintf(w, "%s %s\n", title.String("scenario"), r.Name)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	header := []string{"step", "op", "observer", "switch", "notified", "size"}
	if len(r.Steps) > 0 {
		for _, b := range r.Steps[0].Bulbs {
			header = append(header, b.Name)
		}
	}
	for i, h := range header {
		if i < 6 {
			header[i] = title.String(h)
		}
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, s := range r.Steps {
		op := s.Op
		if s.Failed {
			op += "!"
		}
		row := []string{
			fmt.Sprint(s.Step),
			op,
			dash(s.Observer),
			onOff(s.IsOn),
			fmt.Sprint(s.NotifyCount),
			fmt.Sprint(s.Size),
		}
		for _, b := range s.Bulbs {
			cell := fmt.Sprintf("%s/%d", onOff(b.IsOn), b.Updates)
			if b.Attached {
				cell += "*"
			}
			row = append(row, cell)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
