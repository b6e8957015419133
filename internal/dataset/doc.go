// Package dataset loads the six emissions tables the dashboard is built on.
//
// Each table is a flat CSV file with a fixed set of required columns.
// Column order is free and extra columns are ignored. Any missing file,
// missing column or malformed cell fails the whole load with a
// *LoadError wrapping ErrDataLoad; there is no partial dashboard.
//
// # Usage
//
//	store := dataset.NewStore(dataset.NewLoader(paths, dataset.WithLogger(logger)))
//	tables, err := store.Tables(ctx)
//	if err != nil {
//	    return err // fatal, halt startup
//	}
//
// The Store reads storage once. Every later call returns the same
// *Tables, which callers must treat as read-only.
package dataset
