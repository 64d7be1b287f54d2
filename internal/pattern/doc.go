// Package pattern implements the glyph pattern engine.
//
// A cycle is fourteen frames: sizes 1 through 8 ascending, then 7 down to 2.
// Before each cycle the Predictor picks a category from the last three
// selections:
//
//   - two or more WAVE   -> SPIRAL
//   - two or more SPIRAL -> PULSE
//   - otherwise          -> WAVE
//
// Until three selections exist the choice is uniform over the categories,
// drawn from an injected random source so runs can be replayed from a seed.
//
// Render is a pure function of (category, size):
//
//	WAVE    glyph[i%3] x i*i          ~ ≈ ∿
//	PULSE   (glyph[i%3] + " ") x 2i   ● ◉ ○
//	SPIRAL  glyph[i%4] x 3i           ◢ ◣ ◤ ◥
//
// Lengths are counted in runes, not bytes.
package pattern
