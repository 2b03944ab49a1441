// Package pipeline runs a scan form submission through a fixed sequence
// of steps: validate the input, submit it asynchronously, read the label
// and confidence from the result page, record the result in the scan
// history, and finally navigate to the new result state.
//
// Design decision: We use a pipeline of small steps instead of one
// function because:
// 1. Each failure mode (invalid input, failed submission, unreadable page)
// is handled by exactly one step
// 2. Steps can be faked individually in tests
// 3. The same steps serve the CLI, the web UI and batch scans
//
// Navigation is modelled as data on the submission. The submit and extract
// steps only decide which variant applies (replace with the asynchronous
// response, or fall back to a plain submission), and the navigate step
// carries it out.
package pipeline
