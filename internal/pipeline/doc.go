// Package pipeline runs page scans as a sequence of steps.
//
// A scan of one target goes through loading (fetch, decode, parse, resolve
// frames), analysis and, optionally, saving to the report history. Each
// stage is a Step that receives the Scan and fills in its part. A
// BatchProcessor runs the pipeline for several targets with bounded
// concurrency, keeping the results in input order.
package pipeline
