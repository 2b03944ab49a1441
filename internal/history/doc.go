// Package history implements the bounded, persisted list of recent scan
// results and its rendering into markup.
//
// The history lives under a single key ([StorageKey]) of an injected
// storage.Storage as a JSON array of {url, label, confidence, ts} objects,
// newest first, at most model.MaxHistoryEntries long.
//
// Every storage failure (absent value, corrupt JSON, quota exceeded,
// disabled store) degrades to an empty list. None of the operations of
// [Store] return an error: history is a convenience, and a broken store must
// never stop a scan from being shown.
//
// # Usage
//
//	st := history.NewStore(storage.NewMemoryStore(),
//	    history.WithContainer(container),
//	    history.WithLocale("en-US"),
//	)
//	st.Record(ctx, "example.com", "Safe", 97.5)
//	markup := st.Render(ctx)
package history
