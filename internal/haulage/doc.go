// Package haulage implements the truck-haulage aggregation pipeline behind the
// dashboard.
//
// The pipeline is a chain of pure functions over an immutable slice of
// RawRecord values:
//
//  1. Aggregate groups cycles by (truck, day) into DailyTruckSummary rows.
//  2. FilterByPeriod keeps the rows of one calendar (year, month).
//  3. ComputeMetrics reduces the filtered rows to scalar averages and the
//     ton-per-shovel efficiency ratio, classified by ClassifyEfficiency.
//  4. RankTrucks averages the filtered rows per truck, sorted ascending by
//     average daily tonnage.
//  5. LoaderEfficiency averages the full, unfiltered record set per loader.
//     It never sees the selected period.
//
// # Efficiency
//
// Ton-per-shovel efficiency is
//
//	1 - baseline / mean(avg_ton_per_shovel)
//
// with a baseline of 120 by default. A zero mean yields 0. The ratio is
// negative below the baseline and tends to 1 as loading grows. Levels are
// half-open: [.., 0.2) good, [0.2, 0.4) warning, [0.4, ..) critical.
//
// # Empty periods
//
// Filtering to a period with no rows is not an error. ComputeMetrics returns
// Metrics with HasData false, which serializes its averages as null, and
// RankTrucks returns an empty slice.
//
// Calculator wraps the pipeline with logging and is what services call.
package haulage
