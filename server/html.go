package server

// Self-contained pages rendered into the browser tab that carried the OAuth
// redirect. Kept deliberately small, the tab is closed right after.

const completedPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Authorization completed</title>
<style>body{font-family:system-ui,Arial,sans-serif;margin:3rem;text-align:center}h1{color:#1b5e20}</style>
</head><body>
<h1>Authorization completed</h1>
<p>The account is linked. You can close this window.</p>
</body></html>`

const failedPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Authorization failed</title>
<style>body{font-family:system-ui,Arial,sans-serif;margin:3rem;text-align:center}h1{color:#b71c1c}</style>
</head><body>
<h1>Authorization failed</h1>
<p>%s</p>
</body></html>`

const invalidResponsePage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Invalid response</title>
<style>body{font-family:system-ui,Arial,sans-serif;margin:3rem;text-align:center}h1{color:#b71c1c}</style>
</head><body>
<h1>Invalid response</h1>
<p>The provider response carried no state parameter.</p>
</body></html>`

const sessionNotFoundPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Session not found</title>
<style>body{font-family:system-ui,Arial,sans-serif;margin:3rem;text-align:center}h1{color:#b71c1c}</style>
</head><body>
<h1>Session not found</h1>
<p>Start the authorization from the application again.</p>
</body></html>`

const exchangeFailedPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Authorization failed</title>
<style>body{font-family:system-ui,Arial,sans-serif;margin:3rem;text-align:center}h1{color:#b71c1c}</style>
</head><body>
<h1>Authorization failed</h1>
<p>The token could not be obtained. Start the authorization again.</p>
</body></html>`
