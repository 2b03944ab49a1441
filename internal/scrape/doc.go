// Package scrape recovers the scan label and confidence from the result
// page returned by the prediction endpoint.
//
// The prediction endpoint answers with a full HTML document, not a
// structured result. The label and confidence are recovered by trying a
// group of CSS selectors and taking the first matching element in document
// order, the way querySelector does.
//
// Design decision: The selector groups are plain data ([Selectors]) rather
// than code because they mirror the server's templates and change with
// them. The defaults try the most specific places first; nothing else about
// their order is meant to be load-bearing.
package scrape
