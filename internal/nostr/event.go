package nostr

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// KindLongForm is the NIP-23 long-form content event kind.
const KindLongForm = 30023

// Tag is one event tag. The first element is the tag name.
type Tag []string

// Name returns the tag name, or "" for an empty tag.
func (t Tag) Name() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// Event is a NIP-01 event. ID, PubKey, CreatedAt and Sig are zero until the
// event is signed.
type Event struct {
	ID        string `json:"id,omitempty"`
	PubKey    string `json:"pubkey,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
	Kind      int    `json:"kind"`
	Content   string `json:"content"`
	Tags      []Tag  `json:"tags"`
	Sig       string `json:"sig,omitempty"`
}

// HasTag reports whether a tag with the given name is present.
func (e *Event) HasTag(name string) bool {
	for _, t := range e.Tags {
		if t.Name() == name {
			return true
		}
	}
	return false
}

// replaceInvalidUTF8 replaces invalid UTF-8 in the content and tags with
// U+FFFD, as encoding/json does on the wire. The id must commit to the
// bytes relays receive.
func (e *Event) replaceInvalidUTF8() {
	e.Content = strings.ToValidUTF8(e.Content, "\uFFFD")
	for i, t := range e.Tags {
		if slices.IndexFunc(t, func(v string) bool { return !utf8.ValidString(v) }) < 0 {
			continue
		}
		fixed := make(Tag, len(t))
		for j, v := range t {
			fixed[j] = strings.ToValidUTF8(v, "\uFFFD")
		}
		e.Tags[i] = fixed
	}
}

// Serialize returns the NIP-01 commitment array
// [0,pubkey,created_at,kind,tags,content] in its canonical byte form.
func (e *Event) Serialize() []byte {
	var b bytes.Buffer
	b.Grow(len(e.Content) + 128)

	b.WriteString("[0,")
	writeJSONString(&b, e.PubKey)
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(e.CreatedAt, 10))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(e.Kind))
	b.WriteString(",[")
	for i, tag := range e.Tags {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		for j, v := range tag {
			if j > 0 {
				b.WriteByte(',')
			}
			writeJSONString(&b, v)
		}
		b.WriteByte(']')
	}
	b.WriteString("],")
	writeJSONString(&b, e.Content)
	b.WriteByte(']')

	return b.Bytes()
}

// Hash returns the sha256 of the serialized event.
func (e *Event) Hash() [32]byte {
	return sha256.Sum256(e.Serialize())
}

// ComputeID returns the hex event id for the current fields.
func (e *Event) ComputeID() string {
	h := e.Hash()
	return hex.EncodeToString(h[:])
}

// Verify checks the id and the signature of a signed event.
func (e *Event) Verify() error {
	h := e.Hash()
	if hex.EncodeToString(h[:]) != e.ID {
		return ErrIDMismatch
	}

	rawPub, err := hex.DecodeString(e.PubKey)
	if err != nil {
		return fmt.Errorf("%w: pubkey: %v", ErrInvalidKey, err)
	}
	pub, err := schnorr.ParsePubKey(rawPub)
	if err != nil {
		return fmt.Errorf("%w: pubkey: %v", ErrInvalidKey, err)
	}

	rawSig, err := hex.DecodeString(e.Sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	sig, err := schnorr.ParseSignature(rawSig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if !sig.Verify(h[:], pub) {
		return ErrInvalidSignature
	}
	return nil
}

// writeJSONString writes s as a JSON string using the NIP-01 escape set:
// quote, backslash, \n \r \t \b \f, other control bytes as \u00XX.
// Everything else, including non-ASCII UTF-8, is written verbatim.
func writeJSONString(b *bytes.Buffer, s string) {
	const hexDigits = "0123456789abcdef"

	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if c < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[c>>4])
				b.WriteByte(hexDigits[c&0xf])
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
}
