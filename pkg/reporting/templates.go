/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for the Relish batch dashboard.
*/

package reporting

// dashboardTemplate is the main HTML template for the dashboard
const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Relish Dashboard</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            color: #333;
        }
        .container { max-width: 1400px; margin: 0 auto; padding: 20px; }
        .header, .card {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 24px;
            margin-bottom: 20px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }
        .header h1 { color: #4c1d95; margin-bottom: 6px; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 16px; }
        .stat .value { font-size: 2em; font-weight: bold; color: #4c1d95; }
        .stat .label { color: #666; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; vertical-align: top; }
        code { font-family: 'Fira Code', monospace; font-size: 0.9em; }
        .ok { color: #059669; font-weight: bold; }
        .fail { color: #dc2626; font-weight: bold; }
        details summary { cursor: pointer; color: #6d28d9; }
        .footer { text-align: center; color: #eee; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>{{.Title}}</h1>
        <p>Divide-and-conquer lifting synthesis</p>
    </div>

    <div class="card stats">
        <div class="stat"><div class="value">{{.Summary.Total}}</div><div class="label">Benchmarks</div></div>
        <div class="stat"><div class="value">{{.Summary.Solved}}</div><div class="label">Solved</div></div>
        <div class="stat"><div class="value">{{.Summary.Failed}}</div><div class="label">Failed</div></div>
        <div class="stat"><div class="value">{{.Summary.Rounds}}</div><div class="label">Refinement rounds</div></div>
        <div class="stat"><div class="value">{{.Summary.Counterexamples}}</div><div class="label">Counterexamples</div></div>
        <div class="stat"><div class="value">{{duration .Summary.TotalTime}}</div><div class="label">Solver time (slowest: {{.Summary.Slowest}})</div></div>
    </div>

    <div class="card">
        <canvas id="roundsChart" height="90"></canvas>
    </div>

    <div class="card">
        <table>
            <thead>
                <tr><th>Benchmark</th><th>Status</th><th>Lifting functions</th><th>Size limit</th><th>Rounds</th><th>Time</th><th>Worker</th></tr>
            </thead>
            <tbody>
            {{range .Benchmarks}}
                <tr>
                    <td><code>{{.Name}}</code></td>
                    {{if .Solved}}
                    <td class="ok">solved</td>
                    <td>
                        {{range .Solution}}<code>{{.}}</code><br>{{else}}<em>none needed</em>{{end}}
                        {{if .Counterexamples}}
                        <details><summary>{{len .Counterexamples}} counterexamples</summary>
                            {{range .Counterexamples}}<code>{{.}}</code><br>{{end}}
                        </details>
                        {{end}}
                    </td>
                    <td>{{.SizeLimit}}</td>
                    <td>{{.Rounds}}</td>
                    {{else}}
                    <td class="fail">failed</td>
                    <td colspan="3"><code>{{.Error}}</code></td>
                    {{end}}
                    <td>{{duration .Duration}}</td>
                    <td>{{.Worker}}</td>
                </tr>
            {{end}}
            </tbody>
        </table>
    </div>

    <div class="footer">
        <p>Generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM"}} | Session: {{.SessionID}} | Version: {{.Version}}</p>
    </div>
</div>
<script>
    const chart = {{.ChartJSON}};
    new Chart(document.getElementById('roundsChart'), {
        type: chart.type,
        data: chart.data,
        options: {
            responsive: true,
            scales: {
                rounds: { type: 'linear', position: 'left', beginAtZero: true },
                time: { type: 'linear', position: 'right', beginAtZero: true, grid: { drawOnChartArea: false } }
            }
        }
    });
</script>
</body>
</html>
`
