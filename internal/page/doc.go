// Package page applies the document-level transforms that every page of
// the scan UI receives before it is shown.
//
// A page is either the embedded index page or a result page returned by
// the prediction endpoint. In both cases the page is parsed once, the
// confidence bar is filled from the hidden #confidenceData input, the
// #history container receives the rendered scan history, the loading
// indicator is hidden and the form controls are re-enabled. When a
// submission was rejected locally the url input is marked invalid and
// focused.
package page
