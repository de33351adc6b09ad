package http

const boardHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Channel Board - {{ .Label }}</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 900px; margin: 40px auto; padding: 20px; }
        .filters a { margin-right: 12px; }
        .filters a.current { font-weight: bold; }
        .list-group-item { display: flex; align-items: center; padding: 10px; margin: 6px 0; border-radius: 4px; color: inherit; text-decoration: none; }
        .list-group-item-success { background: #dff0d8; }
        .list-group-item-info { background: #d9edf7; }
        .list-group-item-warning { background: #fcf8e3; }
        .list-group-item-default { background: #f5f5f5; }
        .twitch-logo img { width: 50px; height: 50px; margin-right: 16px; }
        .twitch-channelname { width: 200px; font-weight: bold; }
        .twitch-currentstatus-more-rows { font-size: 0.85em; }
        footer { margin-top: 24px; color: #777; font-size: 0.85em; }
    </style>
</head>
<body>
    <h1>Channel Board</h1>
    <div class="filters">
        {{- range .Filters }}
        <a href="/?filter={{ . }}" class="filter-{{ . }}{{ if eq . $.Filter }} current{{ end }}">{{ .Label }}</a>
        {{- end }}
    </div>
    <div id="display-channels" class="{{ .Filter }}">
        {{- range .Shown }}
        <a id="{{ .ID }}" {{ if .LinkURL }}href="{{ .LinkURL }}" {{ end }}class="list-group-item {{ .StyleClass }} {{ .FilterClass }}">
            <span class="twitch-logo"><img src="{{ .LogoURL }}" alt="{{ .Name }}" /></span>
            <span class="twitch-channelname">{{ .Name }}</span>
            <span class="{{ if .LongDescription }}twitch-currentstatus-more-rows {{ end }}twitch-currentstatus" title="{{ .StatusText }}">{{ .StatusText | trunc 140 }}</span>
        </a>
        {{- else }}
        <p>No channels match this filter.</p>
        {{- end }}
    </div>
    <footer id="footer">
        {{ len .Shown }} of {{ len .Entries }} channels shown, generated at {{ date "15:04:05" .GeneratedAt }}
    </footer>
</body>
</html>`
