// Package extract pulls a vendor name and a menu summary out of free-form
// lunch announcement text. Both extractors are best-effort by policy: an
// unparseable vendor yields "N/A" and an unparseable menu yields a fallback
// literal, never an error.
package extract
