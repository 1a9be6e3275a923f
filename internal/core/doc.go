// Package core provides the business logic for serving the configured CSV file.
//
// Nothing here knows about HTTP. The web package calls [Service.Fetch] and
// turns the result, or the error, into a response.
//
// # Fetch
//
// Every fetch is independent:
//
//  1. [Service.Fetch] takes a slot from the [FetchLimiter]
//  2. [Source.Fetch] opens the configured path (no path is [ErrNoSourcePath])
//  3. The file is wrapped by [WrapForStreaming] (BOM skipping, byte counting)
//  4. [DecodeRows] reads the header record, then keys each later record by it
//  5. The complete []Row is returned, or the first error and no rows
//
// # Rows
//
// A [Row] marshals to a JSON object whose keys keep the header's column
// order. Short records are padded with "" and long ones truncated, so every
// row of a file has the same key set.
//
// # Errors
//
// [MapError] turns errors into a [UserMessage] with a support code; see
// error_messages.go for the full table.
package core
