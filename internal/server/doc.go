// Package server hosts the scan form as a local web UI.
//
// The server renders the index page with the scan history, forwards form
// submissions to the prediction endpoint through the submission pipeline,
// and shows the enhanced result page. Each browser session gets its own
// submission gate so a second submit while one is running is refused.
//
// Routes:
//   - GET /: the scan form with the history
//   - POST /predict: submit a URL and show the result page
//   - GET /history: the rendered history fragment
//   - GET /api/history: the history as JSON, with an ETag
package server
