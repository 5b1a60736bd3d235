package research

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/shopspring/decimal"
)

// Seed labels hashed together with a symbol.
const (
	LabelSentiment = "sentiment"
	LabelReddit    = "reddit"
	LabelAnalysts  = "analysts"
	LabelBloggers  = "bloggers"
	LabelYouTube   = "youtube"
	LabelTikTok    = "tiktok"
)

// scoreSteps is the number of tenths between MinScore and 10.
const scoreSteps = 40

var (
	// MinScore is the lowest score Score can return.
	MinScore = decimal.New(60, -1)
	// MaxScore is the highest score Score can return.
	MaxScore = decimal.New(99, -1)
)

// Score maps (identifier, label) to one of 6.0, 6.1, ..., 9.9.
//
// The value is derived from the first 24 bits of SHA-256("identifier-label"),
// so it is stable across processes and platforms.
func Score(identifier, label string) decimal.Decimal {
	sum := sha256.Sum256([]byte(identifier + "-" + label))
	v := binary.BigEndian.Uint32([]byte{0, sum[0], sum[1], sum[2]})
	return decimal.New(int64(60+v%scoreSteps), -1)
}
