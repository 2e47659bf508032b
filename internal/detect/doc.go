// Package detect implements the detectors that run locally, without any
// network access.
//
// Currently the only detector is DoubleSpace, which flags runs of two or
// more whitespace characters. Offsets and lengths are counted in Unicode
// code points.
package detect
