package report

import (
	"html/template"
	"io"
	"strings"
	"time"
)

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>subprobe report for {{.Domain}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        h1 {
            color: #2c3e50;
            border-bottom: 2px solid #3498db;
            padding-bottom: 10px;
        }
        .summary {
            background-color: #f8f9fa;
            padding: 15px;
            border-radius: 5px;
            margin-bottom: 20px;
        }
        .wildcard { color: #f57c00; font-weight: bold; }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 20px;
        }
        th, td {
            padding: 12px 15px;
            text-align: left;
            border-bottom: 1px solid #ddd;
        }
        th {
            background-color: #f2f2f2;
        }
    </style>
</head>
<body>
    <h1>Subdomains of {{.Domain}}</h1>

    <div class="summary">
        <h2>Summary</h2>
        <p>Scan completed at: {{.Timestamp}}</p>
        <p>Candidates probed: <span id="total">{{.Stats.Total}}</span></p>
        <p>Subdomains found: <span id="found">{{len .Results}}</span></p>
        {{if .Wildcard}}<p class="wildcard">Wildcard answer: <span id="wildcard">{{.Wildcard}}</span> ({{.Stats.WildcardFiltered}} filtered)</p>{{end}}
    </div>

    <table id="results">
        <tr>
            <th>Subdomain</th>
            <th>Addresses</th>
            <th>Discovered</th>
        </tr>
        {{range .Results}}
        <tr class="result{{if .Wildcard}} wildcard{{end}}">
            <td class="subdomain">{{.Subdomain}}</td>
            <td class="addresses">{{join .AddressStrings ", "}}</td>
            <td>{{.Timestamp.Format "15:04:05.000"}}</td>
        </tr>
        {{end}}
    </table>
</body>
</html>
`))

func writeHTML(w io.Writer, scan Scan) error {
	data := struct {
		Scan
		Timestamp string
	}{
		Scan:      scan,
		Timestamp: time.Now().Format(time.RFC1123),
	}

	return htmlReport.Execute(w, data)
}
