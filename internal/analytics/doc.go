// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

/*
Package analytics turns the Helium hotspot listing into reward statistics.

Pipeline:

	FetchPages -> Flatten -> Partition -> Aggregator -> export.WriteJSON

  - FetchPages follows listing cursors up to a page cap. The response that
    arrives without a cursor ends pagination and is not kept.
  - Flatten concatenates page records into a Table with dotted column names
    (geocode.long_state).
  - Partition filters one region by geocode.short_country and groups rows into
    a LocationTree of states and cities.
  - Aggregator fetches each address's reward series and folds the per-address
    sum, mean, max, min and standard deviation into LocationStats.
  - Reporter summarizes a single hotspot and values it with the current spot price.

Failure policy:

  - Transport failures (upstream.IsUnavailable) truncate pagination, skip one
    address, or discard a report. They are logged at warn level and never retried.
  - Decode failures, missing fields and unknown locations are returned as errors.
  - Context cancellation is returned as-is.

Everything runs sequentially on the caller's goroutine.
*/
package analytics
