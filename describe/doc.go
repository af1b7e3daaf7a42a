// Package describe exports variant alternative sets as WIT type definitions.
//
// WIT is the interface type language of the WebAssembly component model. A
// variant maps naturally onto a WIT variant: each alternative becomes a case
// whose payload is the alternative's type, translated as follows:
//
//	bool                      bool
//	int8..int64, uint8..      s8..s64, u8..u64 (int and uint are 64-bit)
//	float32, float64          f32, f64
//	string                    string
//	[]T, [N]T                 list<T>, tuple<T, ...>
//	map[K]V                   list<tuple<K, V>>
//	*T                        option<T>
//	struct                    record of the exported fields
//	struct{}                  case without payload
//	nested variant            variant
//	Box[T]                    T
//
// WIT types cannot refer to themselves, so a recursive set, one that reaches
// its own type again through a Box, a slice or a nested variant, is reported
// as unsupported. Interfaces, channels, functions and complex numbers have no
// WIT counterpart either.
package describe
