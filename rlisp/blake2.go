package rlisp

import (
	"encoding/binary"

	"github.com/glycerine/blake2b"
)

// Blake2bUint64 returns an 8 byte BLAKE2b cryptographic
// hash of the raw.
func Blake2bUint64(raw []byte) uint64 {
	cfg := &blake2b.Config{Size: 8}
	h, err := blake2b.New(cfg)
	panicOn(err)
	h.Write(raw)
	by := h.Sum(nil)
	return binary.LittleEndian.Uint64(by[:8])
}

// (hash64 s) hashes a string or raw byte value to an integer.
func Hash64Function(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	switch e := args[0].(type) {
	case SexpStr:
		return SexpInt(Blake2bUint64([]byte(e))), nil
	case SexpRaw:
		return SexpInt(Blake2bUint64([]byte(e))), nil
	}
	return SexpNull, ErrSignature("string", kindName(args[0]))
}
