package web

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>LLM Chat App</title>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { margin: 0; font-family: sans-serif; display: flex; min-height: 100vh; }
        aside { width: 260px; padding: 16px; background: #f0f2f6; }
        main { flex: 1; padding: 16px 32px 64px; }
        textarea { width: 100%; min-height: 80px; }
        .actions { display: flex; gap: 8px; margin: 8px 0 16px; }
        .notice { padding: 8px 12px; background: #ffe4e4; color: #7d1a1a; border-radius: 4px; }
        details { border: 1px solid #ddd; border-radius: 4px; margin: 8px 0; padding: 8px; }
        .turn { text-align: left; white-space: pre-wrap; margin: 6px 0; }
        .footer { position: fixed; bottom: 0; left: 0; width: 100%; background-color: black;
                  padding: 10px 0; text-align: center; color: gray; }
    </style>
</head>
<body>
<aside>
    <h2>LLM Chat App</h2>
    <p>This app is an LLM-powered chatbot{{if .ModelName}} backed by <code>{{.ModelName}}</code>{{end}}.</p>
</aside>
<main>
    <h1>Chat with Gemini AI</h1>
    <form method="post" action="/search">
        <label for="prompt">hey! How can I assist you today?</label>
        <textarea id="prompt" name="prompt" placeholder="Enter your prompt here..."></textarea>
        <div class="actions">
            <button type="submit">Search</button>
            <button type="submit" formaction="/clear">Clear Chat</button>
        </div>
    </form>
    {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
    {{range $i, $ex := .Exchanges}}
    <details>
        <summary>Chat - {{inc $i}}</summary>
        <div class="turn"><b><i><u>You:</u></i></b>
{{$ex.UserText}}</div>
        <div class="turn"><b><i><u>Model:</u></i></b>
{{$ex.ModelText}}</div>
    </details>
    {{end}}
</main>
<div class="footer">{{.Footer}}</div>
</body>
</html>
`
