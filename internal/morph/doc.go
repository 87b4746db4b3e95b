// Package morph reduces word forms to their normal (dictionary) form.
//
// The scoring pipeline only depends on the Normalizer interface. Two
// implementations are provided: LowercaseNormalizer, which folds case and
// Unicode composition only, and Dictionary, which looks word forms up in a
// form-to-lemma table and falls back to another Normalizer for unknown words.
//
// Every Normalizer in this package is safe for concurrent use. A single
// instance is built at startup and shared read-only by all rating goroutines.
package morph
