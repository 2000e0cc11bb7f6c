package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
)

// RenderHTML writes the report as a standalone HTML page: the kiteable
// view first, the all-conditions view after it, each grouped by day, with
// the daily summary and model-run footer at the end.
func RenderHTML(w io.Writer, doc *Document) error {
	data := page{
		Doc:      doc,
		Kiteable: groupByDay(doc.Views.KiteableHours),
		All:      groupByDay(doc.Views.AllHours),
	}
	return pageTemplate.Execute(w, data)
}

type page struct {
	Doc      *Document
	Kiteable []dayHours
	All      []dayHours
}

// dayHours groups one day's hour keys for a view table.
type dayHours struct {
	Date  string
	Hours []string
}

// groupByDay splits sorted hour keys on their date prefix. Hour keys are
// RFC3339, so the first ten bytes are the date.
func groupByDay(hours []string) []dayHours {
	var days []dayHours
	for _, h := range hours {
		date := h
		if len(h) >= 10 {
			date = h[:10]
		}
		if n := len(days); n == 0 || days[n-1].Date != date {
			days = append(days, dayHours{Date: date})
		}
		days[len(days)-1].Hours = append(days[len(days)-1].Hours, h)
	}
	return days
}

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"stars":     starGlyphs,
	"bandClass": bandClass,
	"hourLabel": hourLabel,
	"fmtKn":     func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"fmtWave": func(v *float64) string {
		if v == nil {
			return "–"
		}
		return fmt.Sprintf("%.1f m", *v)
	},
}).Parse(pageHTML))

// starGlyphs renders n filled stars padded to five outlines; six-star
// ratings get a sixth filled glyph.
func starGlyphs(n int) string {
	if n <= 0 {
		return ""
	}
	width := 5
	if n > width {
		width = n
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", width-n)
}

// bandClass turns a band label into a CSS class name.
func bandClass(band string) string {
	return "band-" + strings.ReplaceAll(band, " ", "-")
}

// hourLabel shortens an RFC3339 hour key to its wall-clock hour.
func hourLabel(hour string) string {
	t, err := time.Parse(time.RFC3339, hour)
	if err != nil {
		return hour
	}
	return t.Format("15:04")
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Kitesurf Forecast</title>
<style>
body { font-family: system-ui, sans-serif; margin: 1.5rem; color: #222; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
h3 { font-size: 0.95rem; color: #555; }
table { border-collapse: collapse; margin: 0.5rem 0 1.5rem; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: center; font-size: 0.85rem; }
th { background: #f2f2f2; }
td.empty { background: #fafafa; color: #bbb; }
.kiteable { background: #e4f7e4; }
.stars { color: #d99a00; white-space: nowrap; }
.band-insane, .band-hardcore { color: #b00; font-weight: bold; }
.band-below { color: #999; }
.dir { color: #555; }
.none { color: #777; font-style: italic; margin: 1rem 0; }
footer { margin-top: 2.5rem; font-size: 0.8rem; color: #777; }
</style>
</head>
<body>
<h1>Kitesurf Forecast</h1>
<p>Generated {{.Doc.GeneratedAt}}</p>

<h2>Kiteable conditions</h2>
{{if not .Kiteable}}
<p class="none">No kiteable conditions found.</p>
{{else}}
{{range $day := .Kiteable}}
<h3>{{$day.Date}}</h3>
<table>
<tr><th>Hour</th>{{range $.Doc.Views.KiteableSpots}}<th>{{.}}</th>{{end}}</tr>
{{range $hour := $day.Hours}}
<tr>
<th>{{hourLabel $hour}}</th>
{{range $spot := $.Doc.Views.KiteableSpots}}
{{with $.Doc.Cell $spot $hour}}
{{if .Best.Kiteable}}
<td class="kiteable {{bandClass .Best.Band}}">
{{fmtKn .Best.WindKn}} kn <span class="dir">{{.Best.Dir}}</span><br>
<span class="stars">{{stars .Best.Stars}}</span><br>
{{.Best.Band}} · {{fmtWave .Best.WaveM}}
</td>
{{else}}
<td class="empty">–</td>
{{end}}
{{else}}
<td class="empty"></td>
{{end}}
{{end}}
</tr>
{{end}}
</table>
{{end}}
{{end}}

{{if .Doc.Days}}
<h2>Daily summary</h2>
<table>
<tr><th>Date</th><th>Spot</th><th>Hours</th><th>Window</th><th>Avg wind</th><th>Avg gust</th><th>Avg wave</th><th>Best</th></tr>
{{range $day := .Doc.Days}}
{{range $s := $day.Spots}}
<tr>
<td>{{$day.Date}}</td>
<td>{{$s.Spot}}</td>
<td>{{$s.KiteableHours}}</td>
<td>{{$s.FirstHour}}–{{$s.LastHour}}</td>
<td>{{fmtKn $s.AvgWindKn}} kn</td>
<td>{{fmtKn $s.AvgGustKn}} kn</td>
<td>{{fmtWave $s.AvgWaveM}}</td>
<td class="stars">{{stars $s.BestStars}}</td>
</tr>
{{end}}
{{end}}
</table>
{{end}}

<h2>All conditions</h2>
{{range $day := .All}}
<h3>{{$day.Date}}</h3>
<table>
<tr><th>Hour</th>{{range $.Doc.Views.AllSpots}}<th>{{.}}</th>{{end}}</tr>
{{range $hour := $day.Hours}}
<tr>
<th>{{hourLabel $hour}}</th>
{{range $spot := $.Doc.Views.AllSpots}}
{{with $.Doc.Cell $spot $hour}}
<td class="{{if .Best.Kiteable}}kiteable {{end}}{{bandClass .Best.Band}}">
{{fmtKn .Best.WindKn}} kn <span class="dir">{{.Best.Dir}}</span><br>
{{.Best.Band}}
</td>
{{else}}
<td class="empty"></td>
{{end}}
{{end}}
</tr>
{{end}}
</table>
{{end}}

<footer>
{{range .Doc.Models}}
<div>{{.Title}}{{if .Run}} — run {{.Run}}, published {{.LastModified}}{{else}} — run unavailable{{if .Err}} ({{.Err}}){{end}}{{end}}</div>
{{end}}
</footer>
</body>
</html>
`
