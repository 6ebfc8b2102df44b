// Package encode serializes a normalized table set into one of the
// supported export formats.
//
// All encoders implement the Encoder interface and share the same
// iteration contract: sections appear in the canonical kind order
// (projects, tasks, clients, notes), empty kinds are never rendered,
// and an entirely empty table set still produces a minimal valid
// document. The Registry selects the encoder for a format, so the
// three near-identical code paths stay behind one surface.
package encode
