// Package region maintains the table correlating region codes with their
// name-detection patterns and default language sets.
//
// The table starts from a built-in seed and grows at runtime: looking up a
// code that is not yet known registers it with no pattern and no languages,
// so every later lookup of the same code resolves consistently.
package region
