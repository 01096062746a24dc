package publish

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"dealscout/internal/deal"
)

// renderCSV produces the tabular artifact consumed by spreadsheet imports
func renderCSV(deals []deal.Deal) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"title", "discount_percent", "amount_off", "current_price", "original_price", "affiliate_url"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, d := range deals {
		row := []string{
			d.Title,
			strconv.Itoa(d.DiscountPercent),
			fmt.Sprintf("%.2f", d.AmountOff),
			fmt.Sprintf("%.2f", d.CurrentPrice),
			fmt.Sprintf("%.2f", d.OriginalPrice),
			d.AffiliateURL,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// snapshotDoc is the machine-readable structured artifact
type snapshotDoc struct {
	GeneratedAt string      `json:"generated_at"`
	Outcome     string      `json:"outcome"`
	Count       int         `json:"count"`
	Deals       []deal.Deal `json:"deals"`
}

// renderJSON produces the structured snapshot artifact
func renderJSON(snap Snapshot) ([]byte, error) {
	doc := snapshotDoc{
		GeneratedAt: snap.GeneratedAt.UTC().Format(time.RFC3339),
		Outcome:     snap.Outcome,
		Count:       len(snap.Deals),
		Deals:       snap.Deals,
	}
	if doc.Deals == nil {
		doc.Deals = []deal.Deal{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="3600">
<title>Current Deals</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f4f4f4; }
.new { color: #c60; font-weight: bold; }
</style>
</head>
<body>
<h1>Current Deals</h1>
<p>Updated {{.Updated}} &middot; {{.Count}} deals</p>
<p>Spreadsheet import: <code>=IMPORTDATA("deals.csv")</code> against this page's base URL.</p>
<table>
<tr><th>Title</th><th>Discount</th><th>Off</th><th>Now</th><th>Was</th><th></th></tr>
{{range .Deals}}<tr>
<td><a href="{{.AffiliateURL}}">{{.Title}}</a>{{if .New}} <span class="new">NEW</span>{{end}}</td>
<td>{{.DiscountPercent}}%</td>
<td>${{printf "%.2f" .AmountOff}}</td>
<td>${{printf "%.2f" .CurrentPrice}}</td>
<td>${{printf "%.2f" .OriginalPrice}}</td>
<td><a href="{{.AffiliateURL}}">view</a></td>
</tr>
{{end}}</table>
</body>
</html>
`))

// renderHTML produces the human-viewable listing artifact
func renderHTML(snap Snapshot) ([]byte, error) {
	data := struct {
		Updated string
		Count   int
		Deals   []deal.Deal
	}{
		Updated: snap.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"),
		Count:   len(snap.Deals),
		Deals:   snap.Deals,
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
