// Package bfcdkutil provides utilities for the batchforge CDK constructs.
//
// This package includes helpers for:
//   - Storing the compiled plan in the construct tree
//   - Stack construction with derived naming and tags
//   - Converting compiled values into jsii/CloudFormation shapes
package bfcdkutil
