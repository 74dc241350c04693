package function

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/term"
)

func registerHashFuncs(r *Registry) {
	r.Register("MD5", hash128Func(md5.Sum))
	r.Register("SHA1", hash160Func(sha1.Sum))
	r.Register("SHA256", hash256Func(sha256.Sum256))
	r.Register("SHA384", hash384Func(sha512.Sum384))
	r.Register("SHA512", hash512Func(sha512.Sum512))
}

// The stdlib md5/sha1/sha256/sha384/sha512 Sum functions each return a
// differently sized byte array, so every digest size gets its own small
// adapter rather than a single generic hash signature.

func hash128Func(sum func([]byte) [16]byte) Func {
	return func(args []term.Term) (term.Term, error) {
		s, err := hashInput(args)
		if err != nil {
			return nil, err
		}
		h := sum([]byte(s))
		return term.NewString(hex.EncodeToString(h[:])), nil
	}
}

func hash160Func(sum func([]byte) [20]byte) Func {
	return func(args []term.Term) (term.Term, error) {
		s, err := hashInput(args)
		if err != nil {
			return nil, err
		}
		h := sum([]byte(s))
		return term.NewString(hex.EncodeToString(h[:])), nil
	}
}

func hash256Func(sum func([]byte) [32]byte) Func {
	return func(args []term.Term) (term.Term, error) {
		s, err := hashInput(args)
		if err != nil {
			return nil, err
		}
		h := sum([]byte(s))
		return term.NewString(hex.EncodeToString(h[:])), nil
	}
}

func hashInput(args []term.Term) (string, error) {
	if len(args) != 1 {
		return "", kerrors.New(kerrors.KindTypeError, "hash functions take one argument")
	}
	s, err := stringArg(args, 0)
	if err != nil {
		return "", err
	}
	return s, nil
}

func hash384Func(sum func([]byte) [48]byte) Func {
	return func(args []term.Term) (term.Term, error) {
		s, err := hashInput(args)
		if err != nil {
			return nil, err
		}
		h := sum([]byte(s))
		return term.NewString(hex.EncodeToString(h[:])), nil
	}
}

func hash512Func(sum func([]byte) [64]byte) Func {
	return func(args []term.Term) (term.Term, error) {
		s, err := hashInput(args)
		if err != nil {
			return nil, err
		}
		h := sum([]byte(s))
		return term.NewString(hex.EncodeToString(h[:])), nil
	}
}
