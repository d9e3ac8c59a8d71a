// Package message defines Message, the key-value request/response record used
// to exercise and benchmark the codec, together with its hand-written proxy.
//
// Message fields are written with the indices 1 to 8 in declaration order.
// A reader that does not know some of the fields (for example because they
// were added after it was built) skips them when deserializing in lenient mode
// and ignores trailing fields it never asks for.
package message
