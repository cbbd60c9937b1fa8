// Package matcher computes which canonical albums an artist's library lacks.
//
// Local tags and catalog titles rarely agree byte for byte: edition qualifiers,
// stylistic punctuation, capitalization and diacritics all drift. Names are folded
// to a comparison key (NFKC, diacritics removed, lowercased, trailing "(...)" and
// "[...]" qualifiers and " - Single"/" - EP" tags dropped, punctuation collapsed)
// before ranking.
//
// [ComputeMissing] aligns every owned name to its single best canonical candidate
// and returns the canonical names left unclaimed.
package matcher
