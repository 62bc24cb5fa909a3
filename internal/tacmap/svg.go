package tacmap

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/shenikar/fire_command_center/internal/geo"
)

const (
	gridColor = "#1e293b"
	ringColor = "#334155"
	gridStep  = 10
)

var radarRings = []float64{10, 25, 40}

// WriteSVG рисует сцену как SVG-документ в координатах 0..100
func (s Scene) WriteSVG(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" preserveAspectRatio="xMidYMid slice">`, geo.PlotSize, geo.PlotSize)
	b.WriteString("\n")

	b.WriteString(`<g class="grid">`)
	for i := 0; i <= int(geo.PlotSize); i += gridStep {
		fmt.Fprintf(&b, `<line x1="%d" y1="0" x2="%d" y2="%g" stroke="%s" stroke-width="0.5"/>`, i, i, geo.PlotSize, gridColor)
		fmt.Fprintf(&b, `<line x1="0" y1="%d" x2="%g" y2="%d" stroke="%s" stroke-width="0.5"/>`, i, geo.PlotSize, i, gridColor)
	}
	b.WriteString("</g>\n")

	center := geo.PlotSize / 2
	for _, r := range radarRings {
		fmt.Fprintf(&b, `<circle class="ring" cx="%g" cy="%g" r="%g" stroke="%s" stroke-width="0.2" fill="none"/>`, center, center, r, ringColor)
	}
	b.WriteString("\n")

	for _, sym := range s.Symbols {
		switch sym.Kind {
		case KindVehicle:
			writeVehicle(&b, sym)
		case KindIncident:
			writeIncident(&b, sym, sym.ID == s.SelectedID)
		}
	}

	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeVehicle(b *strings.Builder, sym Symbol) {
	x, y := sym.Position.X, sym.Position.Y
	title := sym.ID
	if sym.Vehicle != nil {
		title = fmt.Sprintf("%s · %s (%s)", sym.Vehicle.ID, sym.Vehicle.Type, sym.Vehicle.Status)
	}
	fmt.Fprintf(b, `<g class="vehicle" data-id="%s">`, attr(sym.ID))
	fmt.Fprintf(b, `<title>%s</title>`, html.EscapeString(title))
	fmt.Fprintf(b, `<circle cx="%.3f" cy="%.3f" r="1.5" fill="%s" fill-opacity="0.2"/>`, x, y, sym.Color)
	fmt.Fprintf(b, `<circle cx="%.3f" cy="%.3f" r="0.8" fill="%s" stroke="#0f172a" stroke-width="0.2"/>`, x, y, sym.Color)
	b.WriteString("</g>\n")
}

func writeIncident(b *strings.Builder, sym Symbol, selected bool) {
	x, y := sym.Position.X, sym.Position.Y
	title := sym.ID
	if sym.Incident != nil {
		title = fmt.Sprintf("%s · %s (%s)", sym.Incident.ID, sym.Incident.Type, sym.Incident.Priority)
	}
	fmt.Fprintf(b, `<g class="incident" data-id="%s">`, attr(sym.ID))
	fmt.Fprintf(b, `<title>%s</title>`, html.EscapeString(title))

	fmt.Fprintf(b, `<circle cx="%.3f" cy="%.3f" r="3" fill="%s" fill-opacity="0.2">`, x, y, sym.Color)
	if sym.Pulse {
		b.WriteString(`<animate attributeName="r" from="1" to="4" dur="2s" repeatCount="indefinite"/>`)
		b.WriteString(`<animate attributeName="opacity" from="0.6" to="0" dur="2s" repeatCount="indefinite"/>`)
	}
	b.WriteString(`</circle>`)

	if selected {
		fmt.Fprintf(b, `<circle class="selected" cx="%.3f" cy="%.3f" r="2.5" stroke="#f8fafc" stroke-width="0.3" fill="none"/>`, x, y)
	}

	fmt.Fprintf(b, `<polygon points="%.3f,%.3f %.3f,%.3f %.3f,%.3f" fill="%s" stroke="#7f1d1d" stroke-width="0.2"/>`,
		x, y-1.5, x+1.2, y+0.8, x-1.2, y+0.8, sym.Color)
	fmt.Fprintf(b, `<text x="%.3f" y="%.3f" font-size="1.5" fill="#fca5a5" text-anchor="middle">%s</text>`,
		x, y+2.5, html.EscapeString(sym.Label))
	b.WriteString("</g>\n")
}

func attr(s string) string {
	return html.EscapeString(s)
}
