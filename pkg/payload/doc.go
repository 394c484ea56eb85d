// Package payload decodes, merges and formats JSON payloads while keeping
// object key order.
//
// Decoded values are one of: *[Object] (insertion-ordered), []any,
// json.Number, string, bool or nil. Numbers keep their literal text, so a
// payload formatted twice is byte-identical and key order follows the source
// document rather than Go map iteration.
//
//	v, err := payload.Decode(body)
//	merged, err := payload.Merge(a, b)
//	text, err := payload.Format(merged)
package payload
