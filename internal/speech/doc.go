// Package speech turns recorded English speech into text so a spoken
// instruction can follow the same translation path as typed text.
package speech
