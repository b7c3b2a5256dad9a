package captionmodel

// The decoder vocabulary is GPT-2 style byte-level BPE: every token string is
// a sequence of printable stand-in runes, each mapping back to one raw byte.

type tokenizer struct {
	idToToken map[int64]string
	special   map[int64]struct{}
	byteOf    map[rune]byte
}

func newTokenizer(meta *Metadata) *tokenizer {
	idToToken := make(map[int64]string, len(meta.Vocab))
	for tok, id := range meta.Vocab {
		idToToken[id] = tok
	}

	special := map[int64]struct{}{
		meta.BOSTokenID: {},
		meta.EOSTokenID: {},
		meta.PadTokenID: {},
	}
	for _, id := range meta.SpecialTokenIDs {
		special[id] = struct{}{}
	}

	return &tokenizer{
		idToToken: idToToken,
		special:   special,
		byteOf:    unicodeToBytes(),
	}
}

// Detokenize maps token ids back to text, skipping control/special tokens.
// Unknown ids are dropped rather than failing the caption.
func (t *tokenizer) Detokenize(ids []int64) string {
	raw := make([]byte, 0, len(ids)*4)
	for _, id := range ids {
		if _, ok := t.special[id]; ok {
			continue
		}
		tok, ok := t.idToToken[id]
		if !ok {
			continue
		}
		for _, r := range tok {
			if b, ok := t.byteOf[r]; ok {
				raw = append(raw, b)
			} else {
				raw = append(raw, []byte(string(r))...)
			}
		}
	}
	return string(raw)
}

// unicodeToBytes inverts the GPT-2 byte-to-unicode table: printable bytes map
// to themselves, the rest were shifted into the 256+ plane during training.
func unicodeToBytes() map[rune]byte {
	m := make(map[rune]byte, 256)
	shift := 0
	for b := 0; b < 256; b++ {
		printable := (b >= '!' && b <= '~') || (b >= 0xA1 && b <= 0xAC) || (b >= 0xAE && b <= 0xFF)
		r := rune(b)
		if !printable {
			r = rune(256 + shift)
			shift++
		}
		m[r] = byte(b)
	}
	return m
}
