// Package bfcompile turns a validated batchforge configuration into the full
// concrete shape of the deployment: resource names, IAM policy documents, and
// the instance bootstrap payload.
//
// Everything in this package is pure computation over an immutable Config.
// There is no I/O, no clock, and no randomness: compiling the same Config
// twice yields byte-identical output, so callers may cache or re-run freely.
// Provisioning the compiled output is the job of the bfcdk constructs and the
// bfplatform client, not of this package.
package bfcompile
