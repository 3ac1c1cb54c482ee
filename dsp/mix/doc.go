// Package mix blends a held-aside dry copy of a block with the processed
// (wet) contents of the same block.
package mix
