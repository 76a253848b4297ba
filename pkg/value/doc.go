// Package value defines the self-describing D-Bus value tree and the typed
// decoders that turn it into Go values.
//
// # Values
//
// Value is a closed union. Every message argument received from the bus is
// converted into one of the concrete kinds defined here (Bool, Byte, the
// integer widths, Double, String, ObjectPath, Signature, UnixFD, Array,
// Dict, Struct and Variant). Values are tree-shaped and never cyclic.
//
// # Decoders
//
// A Decoder[T] converts a Value into T or fails with a *TypeMismatchError.
// Decoders compose: SliceOf, SetOf, MapOf and IterOf build container
// decoders out of element decoders.
//
//	uuids, err := value.SliceOf(value.AsString).Decode(v)
//	data, err := value.MapOf(value.AsString, value.SliceOf(value.AsUint8)).Decode(v)
//
// # Variants
//
// Decode never looks through a Variant. DecodeVariant unwraps exactly one
// Variant level before decoding, and is what container decoders use for
// their elements. Variant(Variant(x)) decoded with DecodeVariant leaves a
// Variant, which only the AsRaw decoder accepts.
//
// # Integers
//
// Integer decoders accept any integer kind and convert with Go conversion
// rules. Narrowing conversions truncate silently; callers that need range
// checks must do them on the decoded value.
package value
