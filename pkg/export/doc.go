// Package export defines the core types for the Complie data-export
// pipeline: entity kinds, export formats, the export request, and the
// intermediate shapes that flow between the pipeline stages.
//
// # Architecture
//
// An export run is a strictly linear, single-pass pipeline:
//
//	Request → Fetch (store) → Normalize → Encode → Deliver
//
//  1. Store backends (pkg/export/store) fetch raw records per entity kind,
//     scoped to an owner and an optional creation-date lower bound.
//  2. The normalizer (pkg/export/normalize) flattens raw records into
//     display-safe string tables, stripping internal fields.
//  3. An encoder (pkg/export/encode) serializes the table set into the
//     requested format (PDF, CSV, or XLSX).
//  4. A delivery sink (pkg/export/deliver) hands the resulting artifact
//     to its destination (file on disk, HTTP response).
//
// The runner (pkg/export/runner) drives the sequence and reports progress.
// No stage holds state across runs; concurrent runs share nothing.
//
// # Basic Usage
//
//	st := store.NewMemoryStore()
//	r := runner.New(runner.Deps{
//	    Store:    st,
//	    Encoders: encode.DefaultRegistry(),
//	})
//	req := export.Request{
//	    OwnerID: "user-1",
//	    Format:  export.FormatCSV,
//	    Kinds:   []export.Kind{export.KindAll},
//	}
//	result, err := r.Run(ctx, req, deliver.NewFileSink("out"))
//
// # Error Taxonomy
//
// Each stage has a dedicated error type carrying the failing context:
// FetchError (which entity kind), EncodingError (which format),
// NormalizationError, and DeliveryError. All wrap their cause and
// support errors.Is/As via Unwrap.
package export
