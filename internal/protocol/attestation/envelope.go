package attestation

import (
	"encoding/hex"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/xdr"

	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
)

// Envelope is a decoded transaction envelope together with its network hash.
//
// The hash is computed once, from the transaction body only, so it does not
// change as signatures are added.
type Envelope struct {
	env  xdr.TransactionEnvelope
	hash [32]byte
}

// Wrap computes the hash of env for passphrase.
func Wrap(env xdr.TransactionEnvelope, passphrase string) (*Envelope, error) {
	if env.IsFeeBump() {
		return nil, domaintypes.Rejected(domaintypes.ReasonMalformedEnvelope, "fee-bump envelopes are not attestations")
	}
	hash, err := network.HashTransactionInEnvelope(env, passphrase)
	if err != nil {
		return nil, domaintypes.Rejected(domaintypes.ReasonMalformedEnvelope, "hash: %v", err)
	}
	return &Envelope{env: env, hash: hash}, nil
}

// Decode parses a base64 XDR envelope.
func Decode(b64, passphrase string) (*Envelope, error) {
	var env xdr.TransactionEnvelope
	if err := xdr.SafeUnmarshalBase64(b64, &env); err != nil {
		return nil, domaintypes.Rejected(domaintypes.ReasonMalformedEnvelope, "decode: %v", err)
	}
	return Wrap(env, passphrase)
}

// ID returns the deterministic transaction id.
func (e *Envelope) ID() domain.TransactionID {
	return domain.TransactionID(hex.EncodeToString(e.hash[:]))
}

// Payload returns the bytes every signer signs.
func (e *Envelope) Payload() []byte {
	out := make([]byte, len(e.hash))
	copy(out, e.hash[:])
	return out
}

// Sequence returns the transaction sequence number.
func (e *Envelope) Sequence() int64 { return e.env.SeqNum() }

// Signatures returns the attached signatures in order.
func (e *Envelope) Signatures() []xdr.DecoratedSignature { return e.env.Signatures() }

// XDR exposes the underlying envelope.
func (e *Envelope) XDR() xdr.TransactionEnvelope { return e.env }

// AddSignature appends sig to the envelope.
func (e *Envelope) AddSignature(sig xdr.DecoratedSignature) {
	switch e.env.Type {
	case xdr.EnvelopeTypeEnvelopeTypeTxV0:
		e.env.V0.Signatures = append(e.env.V0.Signatures, sig)
	case xdr.EnvelopeTypeEnvelopeTypeTx:
		e.env.V1.Signatures = append(e.env.V1.Signatures, sig)
	}
}

// Encode serialises the envelope to base64 XDR.
func (e *Envelope) Encode() (string, error) {
	s, err := xdr.MarshalBase64(e.env)
	if err != nil {
		return "", fmt.Errorf("encode envelope: %w", err)
	}
	return s, nil
}

// SignEnvelope adds a signature by seed to a base64 envelope.
//
// This is the counterparty's half of the protocol.
func SignEnvelope(b64, passphrase, seed string) (string, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return "", fmt.Errorf("parse seed: %w", err)
	}
	env, err := Decode(b64, passphrase)
	if err != nil {
		return "", err
	}
	sig, err := kp.SignDecorated(env.Payload())
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	env.AddSignature(sig)
	return env.Encode()
}
