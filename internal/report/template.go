package report

import "html/template"

const reportHTML = `<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <title>Rapport de Projet - {{.Project.Name}}</title>
    <!-- CAPSULE DE DONNÉES AWAREE - NE PAS SUPPRIMER POUR LE RÉ-IMPORT -->
    <script id="` + DataElementID + `" type="application/json">{{.Data}}</script>
    <style>
        body { font-family: 'Inter', -apple-system, sans-serif; color: #1e293b; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: 40px; background: #f8fafc; }
        .card { background: white; border-radius: 24px; padding: 40px; box-shadow: 0 4px 6px -1px rgb(0 0 0 / 0.1); border: 1px solid #e2e8f0; }
        header { border-bottom: 2px solid #f1f5f9; padding-bottom: 20px; margin-bottom: 30px; }
        h1 { font-size: 32px; font-weight: 900; letter-spacing: -0.05em; margin: 0; color: #0f172a; }
        .meta { font-size: 12px; font-weight: 800; text-transform: uppercase; color: #0052ff; letter-spacing: 0.1em; margin-bottom: 10px; }
        .section-title { font-size: 10px; font-weight: 900; text-transform: uppercase; letter-spacing: 0.3em; color: #94a3b8; margin: 40px 0 20px; border-bottom: 1px solid #f1f5f9; padding-bottom: 8px; }
        .task { display: flex; align-items: center; gap: 10px; margin-bottom: 12px; font-weight: 600; font-size: 14px; }
        .task.completed { color: #94a3b8; text-decoration: line-through; }
        .note { background: #f8fafc; padding: 20px; border-radius: 16px; margin-bottom: 15px; border-left: 4px solid #0052ff; }
        .note-meta { font-size: 10px; font-weight: 700; color: #cbd5e1; margin-top: 8px; }
        .footer { text-align: center; font-size: 10px; font-weight: 800; color: #cbd5e1; margin-top: 50px; text-transform: uppercase; letter-spacing: 0.2em; }
        .import-info { margin-top: 20px; padding: 10px; background: #EBF2FF; border-radius: 10px; font-size: 11px; font-weight: 700; color: #0052ff; text-align: center; }
    </style>
</head>
<body>
    <div class="card">
        <header>
            <div class="meta">{{.Project.Subject}} • {{.Project.Type}} • {{.Project.Progress}}% ACHEVÉ</div>
            <h1>{{.Project.Name}}</h1>
            <p class="description">{{if .Project.Description}}{{.Project.Description}}{{else}}Pas de description.{{end}}</p>
        </header>

        <div class="import-info">✨ Ce fichier peut être ré-importé dans l'application Awaree.</div>

        <div class="section-title">Production Workflow</div>
        {{- range .Project.Tasks}}
        <div class="task{{if .IsCompleted}} completed{{end}}">
            <span class="mark">{{if .IsCompleted}}✔{{else}}●{{end}}</span> {{.Title}}
        </div>
        {{- end}}

        <div class="section-title">Journal d'Atelier</div>
        {{- range .Project.Notes}}
        <div class="note">
            <div>{{.Content}}</div>
            <div class="note-meta">{{date .Timestamp}}</div>
        </div>
        {{- end}}

        <div class="footer">Généré par Studio Awaree • {{.GeneratedAt}}</div>
    </div>
</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"date": formatDate,
}).Parse(reportHTML))
