// Package language maps between ISO 639-1 and ISO 639-2 language codes.
//
// The catalog speaks both forms: login requests carry a three-letter
// language hint, while match records report the subtitle language as a
// two-letter ISO639 field alongside a three-letter SubLanguageID. Codes
// outside the built-in table fall back to golang.org/x/text/language.
package language
