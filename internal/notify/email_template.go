package notify

const emailHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Event.Title}}</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #111827;
      line-height: 1.5;
    }

    .container {
      max-width: 640px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      overflow: hidden;
    }

    .header {
      padding: 20px 24px;
      background: linear-gradient(135deg, #0b3d6b 0%, #1f5f99 100%);
      color: #ffffff;
    }

    .title {
      font-size: 22px;
      font-weight: 700;
      margin-bottom: 4px;
    }

    .date {
      font-size: 15px;
      opacity: 0.9;
    }

    .section {
      padding: 16px 24px;
      border-top: 1px solid #e5e7eb;
    }

    .blurb {
      font-style: italic;
      color: #374151;
    }

    .button {
      display: inline-block;
      padding: 8px 16px;
      border-radius: 6px;
      background: #1f5f99;
      color: #ffffff;
      text-decoration: none;
      font-weight: 600;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="title">{{.Event.Title}}</div>
      <div class="date">{{.Event.Date}}</div>
    </div>
    {{if .Blurb}}
    <div class="section">
      <p class="blurb">{{.Blurb}}</p>
    </div>
    {{end}}
    {{if .Event.Link}}
    <div class="section">
      <a class="button" href="{{.Event.Link}}">See the event</a>
    </div>
    {{end}}
  </div>
</body>
</html>
`
