// Package report renders plans, sessions and exercise statistics as console
// tables.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/stats"
)

// Printer writes tables to w. Colors and box drawing are used only when w is
// a terminal.
type Printer struct {
	w     io.Writer
	color bool
	width int
}

// NewPrinter creates a printer for w, detecting whether it is a terminal.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{w: w}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.color = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			p.width = width
		}
	}
	return p
}

func (p *Printer) table(title string, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.w)
	if p.color {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	if p.width > 0 {
		tw.SetAllowedRowLength(p.width)
	}
	if title != "" {
		tw.SetTitle(title)
	}
	if len(header) > 0 {
		tw.AppendHeader(header)
	}
	return tw
}

func (p *Printer) paint(s string, c text.Color) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

// Plans lists plans with their exercise counts.
func (p *Printer) Plans(plans []models.Plan) {
	tw := p.table("Plans", table.Row{"#", "ID", "Name", "Exercises"})
	for i, pl := range plans {
		tw.AppendRow(table.Row{i + 1, pl.ID, pl.Name, len(pl.Exercises)})
	}
	tw.Render()
}

// Plan lists the exercises of one plan.
func (p *Printer) Plan(plan models.Plan) {
	tw := p.table(plan.Name, table.Row{"#", "ID", "Exercise", "Primary", "Secondary", "Rest", "PB volume"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	for i, ex := range plan.Exercises {
		pb := ""
		if ex.PBTotalVolume > 0 {
			pb = FormatNumber(ex.PBTotalVolume)
		}
		tw.AppendRow(table.Row{i + 1, ex.ID, ex.Name, ex.PrimaryMuscle, ex.SecondaryMuscle, fmt.Sprintf("%ds", ex.RestTime), pb})
	}
	tw.Render()
}

// Sessions lists sessions newest first. planNames maps plan ids to names;
// sessions of deleted plans show their id.
func (p *Printer) Sessions(sessions []models.WorkoutSession, planNames map[string]string) {
	tw := p.table("Sessions", table.Row{"Date", "Plan", "Exercises", "Sets", "Volume"})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 5, Align: text.AlignRight}})
	var total float64
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		name, ok := planNames[s.PlanID]
		if !ok {
			name = p.paint(s.PlanID, text.FgHiBlack)
		}
		names := make([]string, 0, len(s.Exercises))
		sets := 0
		for _, l := range s.Exercises {
			names = append(names, l.Name)
			sets += len(l.Sets)
		}
		vol := s.TotalVolume()
		total += vol
		tw.AppendRow(table.Row{s.Date.String(), name, strings.Join(names, ", "), sets, FormatNumber(vol)})
	}
	tw.AppendFooter(table.Row{"", "", "", len(sessions), FormatNumber(total)})
	tw.Render()
}

// History lists per-session volumes of one exercise, marking the best.
func (p *Printer) History(name string, points []stats.Point) {
	var best float64
	for _, pt := range points {
		if pt.Volume > best {
			best = pt.Volume
		}
	}
	tw := p.table(name, table.Row{"Date", "Volume", ""})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	for _, pt := range points {
		mark := ""
		if best > 0 && pt.Volume == best {
			mark = p.paint("PB", text.FgGreen)
		}
		tw.AppendRow(table.Row{pt.Date.String(), FormatNumber(pt.Volume), mark})
	}
	tw.Render()
}

// Series prints the recent window of an exercise and the next target.
func (p *Printer) Series(name string, s stats.Series, last models.Sets) {
	tw := p.table(name, table.Row{"Date", "Avg weight", "Avg reps", "Volume"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for i := range s.Volumes {
		tw.AppendRow(table.Row{s.Dates[i].String(), FormatNumber(s.Weights[i]), FormatNumber(s.Reps[i]), FormatNumber(s.Volumes[i])})
	}
	tw.AppendFooter(table.Row{"Target", "", "", FormatNumber(s.Target())})
	tw.Render()

	if len(last) == 0 {
		return
	}
	sets := make([]string, len(last))
	for i, set := range last {
		sets[i] = FormatNumber(set.Weight) + "x" + strconv.Itoa(set.Reps)
	}
	fmt.Fprintf(p.w, "Last sets: %s\n", strings.Join(sets, "  "))
}

// KeyValues prints a two-column table.
func (p *Printer) KeyValues(title string, rows [][2]string) {
	tw := p.table(title, nil)
	for _, r := range rows {
		tw.AppendRow(table.Row{r[0], r[1]})
	}
	tw.Render()
}

// FormatNumber prints whole numbers without decimals and others with at most
// one.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
