// Package formatter renders search responses as plain text for chat
// clients: a summary header, one block per item with its prices and
// availability, and the notes shown when results were capped, replaced by
// alternatives or missing entirely.
package formatter
