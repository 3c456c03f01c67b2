// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

/*
Package models defines the data structures shared by helium-analytics components.

Key Components:

  - Page: one raw hotspot listing response, records kept as generic JSON objects
  - RewardSample / RewardSeries: per-hotspot reward buckets from the rewards/stats endpoint
  - Summary: sum, mean, max, min and standard deviation of one reward series
  - LocationStats: the aggregate record for a city, a state or the N/A sentinel
  - HotspotReport: the single-hotspot report, optionally valued in USD
  - LocationCount: hotspot counts per state and city for inspection output

JSON field names match the output artifact written by the export package.
Values are computed fresh per invocation and never shared between runs.
*/
package models
