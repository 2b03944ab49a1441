// Package model defines the core data structures used throughout phishscan.
//
// This package contains the following main types:
//   - ScanRecord: One entry of the local scan history
//   - HistoryList: The bounded, newest-first list of ScanRecords
//   - Classification: The two-way danger/success tag of a scan label
//   - Submission: The state of one scan form submission
//   - Navigation: The page-level outcome of a submission
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The history store, the submission pipeline, the page renderer
// and the report writers all need these types.
//
// ScanRecord is serialized to JSON with the short field names used by the
// persisted history value ({url, label, confidence, ts}).
package model
