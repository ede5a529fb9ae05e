package http

const tmplDashboard = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:'Inter',sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;line-height:1.5}
a{color:#58a6ff;text-decoration:none}
nav{background:#161b22;border-bottom:1px solid #30363d;padding:8px 16px;display:flex;gap:16px;align-items:center;flex-wrap:wrap}
nav .brand{color:#f0f6fc;font-weight:700;font-size:15px;margin-right:8px}
nav a{color:#8b949e;padding:4px 8px;border-radius:4px}
nav a:hover{color:#c9d1d9;background:#21262d}
main{padding:16px}
h1{font-size:18px;font-weight:700;color:#f0f6fc;margin-bottom:12px}
h2{font-size:13px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:16px 0 8px}
.filters{display:flex;gap:8px;align-items:center;margin-bottom:12px;background:#161b22;padding:8px 12px;border-radius:6px;border:1px solid #30363d}
.filters label{font-size:11px;color:#8b949e}
.filters select{background:#0d1117;border:1px solid #30363d;color:#c9d1d9;border-radius:4px;padding:3px 6px}
.filters button{background:#1f6feb;border:none;color:#fff;padding:4px 12px;border-radius:4px;cursor:pointer}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 16px;min-width:180px}
.card .val{font-size:22px;font-weight:700;color:#f0f6fc}
.card .lbl{font-size:11px;color:#8b949e;margin-top:2px}
.donut{width:160px;height:160px;border-radius:50%;display:flex;align-items:center;justify-content:center}
.donut .hole{width:96px;height:96px;border-radius:50%;background:#161b22;display:flex;flex-direction:column;align-items:center;justify-content:center}
.donut .pct{font-size:18px;font-weight:700;color:#f0f6fc}
.section{background:#161b22;border:1px solid #30363d;border-radius:6px;margin-bottom:16px;overflow-x:auto}
table{width:100%;border-collapse:collapse;font-size:12px}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-weight:600;font-size:11px;text-transform:uppercase}
td{padding:5px 10px;border-bottom:1px solid #21262d}
td.num{text-align:right;font-variant-numeric:tabular-nums}
td.heat{text-align:center;color:#0d1117;font-weight:600;min-width:48px}
.dim{color:#8b949e}
</style>
</head>
<body>
<nav>
  <span class="brand">{{.Title}}</span>
  <a href="/">Dashboard</a>
  <a href="{{.ChartsURL}}">Gráficos</a>
  <a href="{{.ExportURL}}">Exportar XLSX</a>
</nav>
<main>
<form class="filters" method="GET" action="/">
  <label for="year">Año</label>
  <select id="year" name="year">
    {{range .Years}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
  </select>
  <label for="month">Mes</label>
  <select id="month" name="month">
    {{range .Months}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
  </select>
  <button type="submit">Ver</button>
  <span class="dim">{{.View.Dataset.Records}} registros · {{.View.Dataset.Source}}</span>
</form>

<h1>{{monthName .View.Period.Month}} {{.View.Period.Year}}</h1>

<h2>Métricas clave</h2>
<div class="cards">
  <div class="card"><div class="val">{{if .View.Metrics.HasData}}{{fmtSpeed .View.Metrics.SpeedAvg}}{{else}}Sin datos{{end}}</div><div class="lbl">Velocidad Promedio</div></div>
  <div class="card"><div class="val">{{if .View.Metrics.HasData}}{{fmtKm .View.Metrics.DistanceEmpty}}{{else}}Sin datos{{end}}</div><div class="lbl">Distancia Vacío Promedio</div></div>
  <div class="card"><div class="val">{{if .View.Metrics.HasData}}{{fmtKm .View.Metrics.DistanceFull}}{{else}}Sin datos{{end}}</div><div class="lbl">Distancia Llena Promedio</div></div>
  <div class="card"><div class="val">{{if .View.Metrics.HasData}}{{fmtSeconds .View.Metrics.LoaderTimeAvg}}{{else}}Sin datos{{end}}</div><div class="lbl">Tiempo de Carga Promedio</div></div>
</div>

<h2>Eficiencia de Tonelaje por Palada</h2>
<div class="cards">
  <div class="card">
    <div class="donut" style="{{donutStyle .View.Donut}}">
      <div class="hole"><span class="pct">{{fmtPct .View.Donut.Value}}</span><span class="dim">{{.View.Donut.Label}}</span></div>
    </div>
  </div>
  <div class="card"><div class="val">{{if .View.Metrics.HasData}}{{fmtTon .View.Metrics.TonPerShovelAvg}}{{else}}Sin datos{{end}}</div><div class="lbl">Toneladas por Palada Promedio</div></div>
</div>

<h2>Distribución de Tonelaje Diario por Camión</h2>
<div class="section">
{{if .Heat.Trucks}}
<table>
  <tr><th>Camión</th>{{range .Heat.Dates}}<th>{{.}}</th>{{end}}</tr>
  {{range .Heat.Rows}}
  <tr><td>{{.Truck}}</td>{{range .Cells}}{{if .Present}}<td class="heat" style="{{heatStyle .Color}}">{{fmtTon .Value}}</td>{{else}}<td class="dim">·</td>{{end}}{{end}}</tr>
  {{end}}
</table>
{{else}}<p class="dim" style="padding:12px">Sin datos para el periodo</p>{{end}}
</div>

<h2>Average Daily Ton per Truck</h2>
<div class="section">
<table>
  <tr><th>Camión</th><th>Ton diaria</th><th>Cargas diarias</th><th>Dist. vacío</th><th>Dist. llena</th><th>Días</th></tr>
  {{range .View.Ranking}}
  <tr><td>{{.Truck}}</td><td class="num">{{fmtTon .AverageDailyTon}}</td><td class="num">{{fmtTon .AverageDailyLoads}}</td><td class="num">{{fmtKm .AverageDailyDistanceEmpty}}</td><td class="num">{{fmtKm .AverageDailyDistanceFull}}</td><td class="num">{{.Days}}</td></tr>
  {{end}}
</table>
</div>

<h2>Eficiencia de Palas</h2>
<div class="section">
<table>
  <tr><th>Pala</th><th>Ciclo promedio</th><th>Ton por palada</th><th>Ciclos</th></tr>
  {{range .View.Loaders}}
  <tr><td>{{.Loader}}</td><td class="num">{{fmtSeconds .AvgCycleTime}}</td><td class="num">{{fmtTon .AvgTonPerShovel}}</td><td class="num">{{.Cycles}}</td></tr>
  {{end}}
</table>
</div>
</main>
</body>
</html>`
