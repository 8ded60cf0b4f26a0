package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wolapp/wolctl/internal/discovery"
	"github.com/wolapp/wolctl/internal/wolapi"
)

// Format selects how a Printer writes results.
type Format string

const (
	FormatDetailed Format = "detailed"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatDetailed, "":
		return FormatDetailed, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (use detailed or json)", s)
	}
}

// Detail is one key/value line of a result box. A slice keeps the order stable.
type Detail struct {
	Key   string
	Value string
}

// Printer writes command results to a writer, as styled text or JSON.
type Printer struct {
	out    io.Writer
	width  int
	format Format
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer, format Format) *Printer {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = FormatDetailed
	}
	return &Printer{
		out:    w,
		width:  GetTerminalWidth(),
		format: format,
	}
}

// JSON reports whether the printer emits JSON.
func (p *Printer) JSON() bool {
	return p.format == FormatJSON
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintJSON writes v as indented JSON.
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintSuccess prints a success box, or a {"ok":true,...} object in JSON mode.
func (p *Printer) PrintSuccess(title string, details ...Detail) error {
	if p.JSON() {
		obj := map[string]any{"ok": true, "message": title}
		for _, d := range details {
			obj[strings.ToLower(d.Key)] = d.Value
		}
		return p.PrintJSON(obj)
	}
	p.Println(RenderSuccessBox(title, details, p.width))
	return nil
}

// PrintError prints an error box with the troubleshooting hint for err.
func (p *Printer) PrintError(title string, err error) {
	if p.JSON() {
		_ = p.PrintJSON(map[string]any{"ok": false, "message": title, "error": err.Error()})
		return
	}
	p.Println(RenderErrorBox(title, err, wolapi.Hint(err), p.width))
}

// PrintMachines prints registered machines.
func (p *Printer) PrintMachines(machines []wolapi.Machine) error {
	if p.JSON() {
		return p.PrintJSON(machines)
	}
	if len(machines) == 0 {
		p.Println(HintStyle.Render("no machines yet. add one with: wolctl add NAME MAC"))
		return nil
	}
	rows := make([][]string, 0, len(machines))
	for _, m := range machines {
		rows = append(rows, []string{m.ID, m.MAC})
	}
	p.Println(RenderTable([]string{"NAME", "MAC"}, rows))
	p.Println(HintStyle.Render(fmt.Sprintf("%d machine%s", len(machines), plural(len(machines)))))
	return nil
}

// PrintArp prints ARP rows in the order given.
func (p *Printer) PrintArp(rows []wolapi.ArpRow) error {
	if p.JSON() {
		return p.PrintJSON(rows)
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{r.IP, r.MAC})
	}
	p.Println(RenderTable([]string{"IP", "MAC"}, cells))
	return nil
}

// PrintSelf prints the caller's own ARP entry.
func (p *Printer) PrintSelf(info *wolapi.SelfArpInfo) error {
	if p.JSON() {
		return p.PrintJSON(info)
	}
	if len(info.MACs) == 0 {
		p.Println(HintStyle.Render(fmt.Sprintf("the server has no hardware address for %s", info.IP)))
		return nil
	}
	rows := make([][]string, 0, len(info.MACs))
	for _, mac := range info.MACs {
		rows = append(rows, []string{info.IP, mac})
	}
	p.Println(RenderTable([]string{"IP", "MAC"}, rows))
	return nil
}

// PrintServers prints servers found by discovery, numbered from 1.
func (p *Printer) PrintServers(servers []*discovery.Server) error {
	if p.JSON() {
		type jsonServer struct {
			Instance string `json:"instance"`
			URL      string `json:"url"`
		}
		out := make([]jsonServer, 0, len(servers))
		for _, s := range servers {
			out = append(out, jsonServer{Instance: s.Instance, URL: s.BaseURL()})
		}
		return p.PrintJSON(out)
	}
	rows := make([][]string, 0, len(servers))
	for i, s := range servers {
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Instance, s.BaseURL()})
	}
	p.Println(RenderTable([]string{"#", "INSTANCE", "URL"}, rows))
	return nil
}

// RenderTable renders rows under headers with a rounded border.
func RenderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
	return t.Render()
}

// RenderSuccessBox renders a success result box
func RenderSuccessBox(title string, details []Detail, width int) string {
	lines := []string{SuccessTitleStyle.Render(SuccessMarker + "  " + title)}
	for _, d := range details {
		lines = append(lines, ResultKeyStyle.Render(d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box with a troubleshooting hint
func RenderErrorBox(title string, err error, hint string, width int) string {
	lines := []string{ErrorTitleStyle.Render(FailureMarker + "  " + title)}
	if err != nil {
		lines = append(lines, "", ErrorMessageStyle.Render(wolapi.ShortMessage(err)))
	}
	if hint != "" {
		lines = append(lines, "", HintStyle.Render(hint))
	}
	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
